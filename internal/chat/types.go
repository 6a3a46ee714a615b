package chat

import "time"

// Role says who wrote a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Status is the delivery state of a message.
type Status string

const (
	StatusSending   Status = "sending"
	StatusDelivered Status = "delivered"
	StatusError     Status = "error"
)

// Message is a single entry of the conversation.
type Message struct {
	ID        int       `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// EventType identifies a session change.
type EventType string

const (
	EventMessageAdded   EventType = "message.added"
	EventMessageUpdated EventType = "message.updated"
	EventThinking       EventType = "thinking"
)

// Event is delivered to subscribers after every change.
type Event struct {
	Type     EventType
	Message  Message
	Thinking bool
}

// Responder computes the bot reply for a user message. It must not block
// for long; it runs on the deferred task's goroutine.
type Responder func(input string) string

// Timer is the handle of a deferred task.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. time.AfterFunc satisfies it.
type Scheduler func(d time.Duration, f func()) Timer
