package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"flightminder-service/internal/domain/entity"
	"flightminder-service/internal/usecase"
	"flightminder-service/pkg/timeutil"
)

// interactionTimeout bounds one lookup from the chat side; the provider
// client enforces its own HTTP timeout underneath.
const interactionTimeout = 30 * time.Second

const greeting = `👋 Hi!

I am your flight companion ✈️
I show live flight data and set reminders for travel day:
• check-in / bag drop
• gate
• boarding

How to use me:
1) Enter the flight number (example: SU123 or BT767)
2) Enter the flight date (format: DD.MM.YYYY)
3) You get a card with refresh and stop buttons

Enter the flight number 👇`

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message != nil {
		b.handleMessage(update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if msg.IsCommand() {
		if msg.Command() == "start" {
			b.setConversation(chatID, stateAwaitingFlight, "")
			b.send(chatID, greeting)
		}
		return
	}
	if text == "" {
		return
	}

	switch conv := b.conversation(chatID); conv.state {
	case stateAwaitingFlight:
		designator, err := timeutil.NormalizeDesignator(text)
		if err != nil {
			b.send(chatID, "That does not look like a flight number. Example: SU123. Try again.")
			return
		}
		b.setConversation(chatID, stateAwaitingDate, designator)
		b.send(chatID, "Got it. Now enter the flight date (DD.MM.YYYY), e.g. 17.12.2025")

	case stateAwaitingDate:
		date, err := timeutil.ParseDate(text)
		if err != nil {
			b.send(chatID, "That does not look like a date. Format: DD.MM.YYYY. Try again.")
			return
		}
		b.setConversation(chatID, stateIdle, "")
		b.track(chatID, conv.designator, date)

	default:
		b.send(chatID, "Let's start from the beginning: /start")
	}
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	userID := callback.From.ID

	switch callback.Data {
	case "refresh":
		b.refresh(chatID, userID)
	case "stop":
		b.tracker.Stop(userID)
		b.send(chatID, "🛑 Reminders are off. To start over: /start")
	}

	// Dismiss the spinner on the pressed button.
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Warn("Failed to answer callback", "error", err)
	}
}

func (b *Bot) track(chatID int64, designator string, date time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	result, err := b.tracker.Track(ctx, chatID, designator, date)
	if err != nil {
		b.send(chatID, lookupErrorMessage(err))
		return
	}
	b.showResult(chatID, result)
}

func (b *Bot) refresh(chatID, userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	result, err := b.tracker.Refresh(ctx, userID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotTracked) {
			b.send(chatID, "Enter a flight and date first: /start")
			return
		}
		b.send(chatID, lookupErrorMessage(err))
		return
	}
	b.showResult(chatID, result)
}

func (b *Bot) showResult(chatID int64, result *usecase.TrackResult) {
	b.sendWithKeyboard(chatID, b.renderCard(result), flightCardKeyboard())
	if !result.DepartureKnown {
		b.send(chatID, "Could not determine the departure (OUT) time, so reminders are unavailable yet. Press 🔄 later.")
	}
}

// lookupErrorMessage maps lookup failures to user-facing retry prompts. The
// process survives all of them; only the current interaction aborts.
func lookupErrorMessage(err error) string {
	var perr *entity.ProviderError
	switch {
	case errors.As(err, &perr):
		return fmt.Sprintf("The flight data service answered with an error (HTTP %d). Try again later: /start", perr.StatusCode)
	case errors.Is(err, usecase.ErrNoOccurrence):
		return "No flights found for that number in the chosen window. Check number and date: /start"
	default:
		return "Could not reach the flight data service. Try again: /start"
	}
}
