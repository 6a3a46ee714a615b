package backlog

import (
	"errors"
	"time"
)

// Status represents the lifecycle stage of an unanswered question.
type Status string

const (
	StatusOpen      Status = "open"
	StatusResolved  Status = "resolved"
	StatusDismissed Status = "dismissed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusResolved, StatusDismissed:
		return true
	}
	return false
}

var (
	ErrNotFound      = errors.New("question not found")
	ErrInvalidStatus = errors.New("invalid status")
)

// Question is a question the assistant had no answer for. Repeats of the
// same normalized text are folded into one row.
type Question struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Source    string    `json:"source"` // where it was first asked: "cli", "slack", ...
	Status    Status    `json:"status"`
	AskCount  int       `json:"ask_count"`
	Note      string    `json:"note,omitempty"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// TopicHit counts how often a knowledge-base topic answered a question.
type TopicHit struct {
	Platform string    `json:"platform"`
	Topic    string    `json:"topic"`
	Hits     int       `json:"hits"`
	LastHit  time.Time `json:"last_hit"`
}

// ListFilter controls which questions to return.
type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}
