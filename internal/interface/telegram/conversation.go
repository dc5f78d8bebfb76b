package telegram

// The input flow is a two-step conversation: flight number, then date.
// State lives in memory per chat; a restart simply drops users back to
// /start.
type convState int

const (
	stateIdle convState = iota
	stateAwaitingFlight
	stateAwaitingDate
)

type conversation struct {
	state      convState
	designator string
}

func (b *Bot) conversation(chatID int64) conversation {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.conversations[chatID]; ok {
		return *c
	}
	return conversation{}
}

func (b *Bot) setConversation(chatID int64, state convState, designator string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[chatID] = &conversation{state: state, designator: designator}
}
