package domain

// UserState represents user's current interaction state
type UserState string

const (
	StateIdle               UserState = "idle"
	StateWaitingWord        UserState = "waiting_word"
	StateWaitingTranslation UserState = "waiting_translation"
	StateWaitingDeckName    UserState = "waiting_deck_name"
	StateWaitingPair        UserState = "waiting_pair"
	StateReviewing          UserState = "reviewing"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State       UserState
	CurrentWord string
	Partition   Partition
	DeckID      string
	MessageID   int // For editing messages
}
