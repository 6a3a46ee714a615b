// Package assistant answers CDP questions from the knowledge base and is the
// single entry point used by the CLI, the web dashboard, the chat bots and
// the MCP server.
package assistant

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ziadkadry99/cdp-assistant/internal/chat"
	"github.com/ziadkadry99/cdp-assistant/internal/kb"
	"github.com/ziadkadry99/cdp-assistant/internal/logging"
	"github.com/ziadkadry99/cdp-assistant/internal/matcher"
)

const (
	DefaultFallback = "I'm not sure about that specific question. Could you please rephrase or ask about a specific CDP feature?"
	DefaultGreeting = "Hello! I'm your CDP Support Assistant. I can help you with questions about Segment, mParticle, Lytics, and Zeotap. What would you like to know?"
)

// Answer is the reply to one question.
type Answer struct {
	Text    string         `json:"answer"`
	Matched bool           `json:"matched"`
	Result  matcher.Result `json:"result"`
}

// Record describes one answered question for a Recorder.
type Record struct {
	Question string
	Source   string // "cli", "dashboard", "slack", "teams", "mcp"
	Matched  bool
	Result   matcher.Result
	At       time.Time
}

// Recorder receives every answered question.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// Assistant answers questions. It is safe for concurrent use.
type Assistant struct {
	base     *kb.KnowledgeBase
	fallback string
	recorder Recorder
	log      *slog.Logger
}

// Option customizes an Assistant.
type Option func(*Assistant)

// WithFallback replaces the no-match reply.
func WithFallback(text string) Option {
	return func(a *Assistant) {
		if text != "" {
			a.fallback = text
		}
	}
}

// WithRecorder reports every answer to r.
func WithRecorder(r Recorder) Option {
	return func(a *Assistant) { a.recorder = r }
}

// WithLogger overrides the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assistant) { a.log = l }
}

// New creates an Assistant over the given knowledge base.
func New(base *kb.KnowledgeBase, opts ...Option) *Assistant {
	a := &Assistant{
		base:     base,
		fallback: DefaultFallback,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logging.ForComponent(logging.CompAssistant)
	}
	return a
}

// KnowledgeBase returns the knowledge base answers come from.
func (a *Assistant) KnowledgeBase() *kb.KnowledgeBase { return a.base }

// Fallback returns the reply used when nothing matches.
func (a *Assistant) Fallback() string { return a.fallback }

// Answer matches the question and returns the canned response, or the
// fallback when no keyword matched. Blank questions get the fallback and are
// not recorded.
func (a *Assistant) Answer(ctx context.Context, source, question string) Answer {
	if strings.TrimSpace(question) == "" {
		return Answer{Text: a.fallback}
	}

	result := matcher.Best(question, a.base)
	ans := Answer{Text: a.fallback, Result: result}
	if result.Found() {
		if topic, ok := a.base.Lookup(result.Platform, result.Topic); ok {
			ans.Text = topic.Response
			ans.Matched = true
		}
	}

	a.log.Debug("question_answered",
		slog.String("source", source),
		slog.Bool("matched", ans.Matched),
		slog.String("platform", string(result.Platform)),
		slog.String("topic", result.Topic),
		slog.Int("confidence", result.Confidence),
	)

	if a.recorder != nil {
		rec := Record{
			Question: question,
			Source:   source,
			Matched:  ans.Matched,
			Result:   result,
			At:       time.Now().UTC(),
		}
		if err := a.recorder.Record(ctx, rec); err != nil {
			a.log.Warn("record_failed", slog.String("source", source), slog.String("error", err.Error()))
		}
	}
	return ans
}

// Responder adapts the assistant to a chat session. Deferred replies are not
// tied to a request, so they run with a background context.
func (a *Assistant) Responder(source string) chat.Responder {
	return func(input string) string {
		return a.Answer(context.Background(), source, input).Text
	}
}
