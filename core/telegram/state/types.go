package state

import tele "gopkg.in/telebot.v4"

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
	// StateAwaitingText waits for the text to encode after /generate.
	StateAwaitingText State = "awaiting_text"
	// StateAwaitingImage waits for a photo to decode after /scan.
	StateAwaitingImage State = "awaiting_image"
)

// Update kinds accepted by ManagerHandler.
const (
	EndpointText  = "text"
	EndpointPhoto = "photo"
)

// Manager orchestrates user FSM state transitions.
type Manager interface {
	GetState(userID int64) State
	SetState(userID int64, st State)
	ClearState(userID int64)
	// Transition moves the user from one state to another only if the current state equals from.
	Transition(userID int64, from, to State) bool

	InProgress(userID int64) bool
	// Handle registers h for updates of kind endpoint arriving while the user is in st.
	Handle(st State, endpoint string, h tele.HandlerFunc)
	// ManagerHandler runs the handler registered for the user's current state and endpoint.
	// Updates without a matching handler are dropped silently.
	ManagerHandler(c tele.Context, endpoint string) error
}
