// Package chat keeps the ordered message list of one conversation with the
// assistant.
//
// Sending appends the user message right away and schedules the bot reply as
// a deferred task, simulating a short "thinking" pause. Overlapping sends are
// allowed and each reply lands in its own completion order, so replies are
// not guaranteed to follow the order of the questions.
package chat

import (
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	// ErrEmptyMessage is returned for blank input; the responder never runs.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrClosed is returned by Send after Close.
	ErrClosed = errors.New("session closed")
)

// DefaultDelay is the thinking pause used when Options.Delay is negative.
const DefaultDelay = time.Second

// Options configures a Session. A non-empty Greeting becomes the first bot
// message. Scheduler defaults to time.AfterFunc and Now to time.Now.
type Options struct {
	Responder Responder
	Greeting  string
	Delay     time.Duration
	Scheduler Scheduler
	Now       func() time.Time
}

// Session is one conversation. It is safe for concurrent use.
type Session struct {
	respond  Responder
	delay    time.Duration
	schedule Scheduler
	now      func() time.Time

	mu       sync.Mutex
	messages []Message
	nextID   int
	pending  map[int]Timer // keyed by user message ID
	closed   bool
	subs     map[int]func(Event)
	nextSub  int

	// emitMu keeps subscriber delivery in the same order as list changes.
	emitMu sync.Mutex
}

// NewSession creates a session, seeded with the greeting if one is given.
func NewSession(opts Options) *Session {
	s := &Session{
		respond:  opts.Responder,
		delay:    opts.Delay,
		schedule: opts.Scheduler,
		now:      opts.Now,
		nextID:   1,
		pending:  make(map[int]Timer),
		subs:     make(map[int]func(Event)),
	}
	if s.respond == nil {
		s.respond = func(string) string { return "" }
	}
	if s.delay < 0 {
		s.delay = DefaultDelay
	}
	if s.schedule == nil {
		s.schedule = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.Greeting != "" {
		s.appendLocked(RoleBot, opts.Greeting, StatusDelivered)
	}
	return s
}

// Send appends a user message and schedules the reply. The returned message
// is still in StatusSending.
func (s *Session) Send(text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Message{}, ErrClosed
	}
	msg := s.appendLocked(RoleUser, text, StatusSending)
	s.pending[msg.ID] = nil
	s.publishLocked(
		Event{Type: EventMessageAdded, Message: msg},
		Event{Type: EventThinking, Thinking: true},
	)

	t := s.schedule(s.delay, func() { s.deliver(msg.ID, text) })

	s.mu.Lock()
	if _, ok := s.pending[msg.ID]; ok {
		s.pending[msg.ID] = t
	}
	s.mu.Unlock()

	return msg, nil
}

func (s *Session) deliver(userID int, text string) {
	s.mu.Lock()
	if _, ok := s.pending[userID]; !ok {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	reply := s.respond(text)

	s.mu.Lock()
	if _, ok := s.pending[userID]; !ok {
		// closed while the responder ran
		s.mu.Unlock()
		return
	}
	delete(s.pending, userID)

	events := make([]Event, 0, 3)
	if updated, ok := s.setStatusLocked(userID, StatusDelivered); ok {
		events = append(events, Event{Type: EventMessageUpdated, Message: updated})
	}
	bot := s.appendLocked(RoleBot, reply, StatusDelivered)
	events = append(events,
		Event{Type: EventMessageAdded, Message: bot},
		Event{Type: EventThinking, Thinking: len(s.pending) > 0},
	)
	s.publishLocked(events...)
}

// Close cancels every pending reply. User messages still waiting for one are
// marked StatusError. Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true

	var events []Event
	for id, t := range s.pending {
		if t != nil {
			t.Stop()
		}
		if updated, ok := s.setStatusLocked(id, StatusError); ok {
			events = append(events, Event{Type: EventMessageUpdated, Message: updated})
		}
	}
	hadPending := len(s.pending) > 0
	s.pending = make(map[int]Timer)
	if hadPending {
		events = append(events, Event{Type: EventThinking, Thinking: false})
	}
	s.publishLocked(events...)
}

// Messages returns a snapshot of the conversation in append order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Thinking reports whether any reply is still pending.
func (s *Session) Thinking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending) > 0
}

// Subscribe registers fn for every later change and returns a function that
// removes it. fn runs synchronously while the session orders deliveries, so
// it must not call back into the session; hand the event off instead.
func (s *Session) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) appendLocked(role Role, content string, status Status) Message {
	msg := Message{
		ID:        s.nextID,
		Role:      role,
		Content:   content,
		Status:    status,
		CreatedAt: s.now().UTC(),
	}
	s.nextID++
	s.messages = append(s.messages, msg)
	return msg
}

func (s *Session) setStatusLocked(id int, status Status) (Message, bool) {
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Status = status
			return s.messages[i], true
		}
	}
	return Message{}, false
}

// publishLocked must be called with s.mu held; it releases it.
func (s *Session) publishLocked(events ...Event) {
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.emitMu.Lock()
	s.mu.Unlock()
	defer s.emitMu.Unlock()

	for _, ev := range events {
		for _, fn := range subs {
			fn(ev)
		}
	}
}
