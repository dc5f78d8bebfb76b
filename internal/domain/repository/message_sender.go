package repository

// MessageSender defines the outbound chat primitive the reminder engine
// needs: an async send that can fail. The wire format belongs to the
// transport.
type MessageSender interface {
	SendText(userID int64, text string) error
}
