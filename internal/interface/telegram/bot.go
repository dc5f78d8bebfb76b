// Package telegram is the chat transport: it receives commands, texts and
// inline-button actions and delivers outbound messages, including fired
// reminders.
package telegram

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"flightminder-service/internal/domain/repository"
	"flightminder-service/internal/usecase"
	"flightminder-service/pkg/logger"
)

// Bot runs the long-poll update loop and the per-chat conversation flow. It
// is the MessageSender the reminder scheduler delivers through.
type Bot struct {
	api     *tgbotapi.BotAPI
	tracker *usecase.Tracker
	logger  logger.Logger

	mu            sync.Mutex
	conversations map[int64]*conversation
}

var _ repository.MessageSender = (*Bot)(nil)

// New creates a new bot
func New(token string, tracker *usecase.Tracker, log logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Info("Telegram bot authorized", "username", api.Self.UserName)

	return &Bot{
		api:           api,
		tracker:       tracker,
		logger:        log,
		conversations: make(map[int64]*conversation),
	}, nil
}

// Start runs the long-poll loop until the context is canceled. Each update
// is handled on its own goroutine; the reminder engine serializes state
// mutation itself.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update := <-updates:
			go b.handleUpdate(update)
		}
	}
}

// SendText implements repository.MessageSender, the send primitive the
// reminder scheduler fires through.
func (b *Bot) SendText(userID int64, text string) error {
	msg := tgbotapi.NewMessage(userID, text)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message", "chatId", chatID, "error", err)
	}
}

func (b *Bot) send(chatID int64, text string) {
	if err := b.SendText(chatID, text); err != nil {
		b.logger.Error("Failed to send message", "chatId", chatID, "error", err)
	}
}
