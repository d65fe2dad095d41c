package entity

import "time"

type DialogueState uint8

const (
	StateIdle DialogueState = iota
	StateAwaiting
	StateEnded
)

var dialogueStateNames = map[DialogueState]string{
	StateIdle:     "idle",
	StateAwaiting: "awaiting",
	StateEnded:    "ended",
}

func (s DialogueState) String() string {
	return dialogueStateNames[s]
}

// ChatSession is the per-conversation dialogue state. One exists per
// session id for the life of the conversation; turns for the same
// session are strictly sequential, so the struct carries no locking of
// its own (the context store serializes access per session).
type ChatSession struct {
	ID           string
	State        DialogueState
	AwaitingSlot string
	ActiveIntent string

	// Slots holds extracted values for the in-progress intent. The
	// customer name survives intent resets within the session.
	Slots map[string]string

	// Retries counts consecutive failed extraction attempts for the
	// awaited slot.
	Retries int

	// PromptSeq drives deterministic round-robin template selection,
	// keyed per template list.
	PromptSeq map[string]int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionTokenData is the identity carried by a session JWT.
type SessionTokenData struct {
	SessionID string
}

func NewChatSession(id string) *ChatSession {
	now := time.Now()
	return &ChatSession{
		ID:        id,
		State:     StateIdle,
		Slots:     make(map[string]string),
		PromptSeq: make(map[string]int),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
