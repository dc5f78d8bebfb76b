package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"flightminder-service/internal/usecase"
	"flightminder-service/templates"
)

// Flight card keyboard: refresh re-queries by stable identity, stop cancels
// the reminder set.
func flightCardKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", "refresh"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛑 Stop reminders", "stop"),
		),
	)
}

func (b *Bot) renderCard(result *usecase.TrackResult) string {
	return templates.FlightCard(result.Occurrence)
}
