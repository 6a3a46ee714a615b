package bots

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ziadkadry99/cdp-assistant/internal/assistant"
	"github.com/ziadkadry99/cdp-assistant/internal/backlog"
)

const (
	emptyText = "I received an empty message. Ask me about Segment, mParticle, Lytics or Zeotap."
	helpText  = "Ask me a question about Segment, mParticle, Lytics or Zeotap, for example \"how do I track an event in Segment?\".\n" +
		"- `topics` lists everything I know about\n" +
		"- `backlog` shows the most asked questions I could not answer"
)

// BacklogLister is the part of the backlog store the processor reads.
type BacklogLister interface {
	List(ctx context.Context, filter backlog.ListFilter) ([]backlog.Question, error)
}

// Processor connects incoming bot messages to the assistant and backlog.
type Processor struct {
	assistant *assistant.Assistant
	backlog   BacklogLister
}

// NewProcessor creates a new message processor. backlogStore may be nil.
func NewProcessor(a *assistant.Assistant, backlogStore BacklogLister) *Processor {
	return &Processor{
		assistant: a,
		backlog:   backlogStore,
	}
}

var mentionRe = regexp.MustCompile(`^(<@[A-Z0-9]+>\s*)+`)

// HandleMessage processes an incoming message and returns a response.
// It detects intent from the message text:
//   - "help" -> usage
//   - "topics" -> knowledge-base listing
//   - "questions" or "backlog" -> most asked open questions
//   - "ask " or "?" prefix, or anything else -> answer the question
func (p *Processor) HandleMessage(ctx context.Context, msg IncomingMessage) (*OutgoingMessage, error) {
	text := strings.TrimSpace(mentionRe.ReplaceAllString(strings.TrimSpace(msg.Text), ""))
	if text == "" {
		return reply(msg, emptyText), nil
	}

	lower := strings.ToLower(text)

	switch {
	case lower == "help":
		return reply(msg, helpText), nil

	case lower == "topics":
		return reply(msg, p.topics()), nil

	case lower == "questions" || lower == "backlog":
		out, err := p.handleBacklog(ctx)
		if err != nil {
			return reply(msg, fmt.Sprintf("Error processing your message: %v", err)), nil
		}
		return reply(msg, out), nil

	case strings.HasPrefix(lower, "ask "):
		text = strings.TrimSpace(text[4:])

	case strings.HasPrefix(lower, "?"):
		text = strings.TrimSpace(text[1:])
	}

	if p.assistant == nil {
		return nil, fmt.Errorf("assistant not configured")
	}
	answer := p.assistant.Answer(ctx, string(msg.Platform), text)
	return reply(msg, answer.Text), nil
}

func (p *Processor) topics() string {
	if p.assistant == nil {
		return "No knowledge base loaded."
	}
	base := p.assistant.KnowledgeBase()
	var b strings.Builder
	b.WriteString("I can answer questions about:\n")
	for _, platform := range base.Platforms() {
		var names []string
		for _, t := range base.Topics(platform) {
			names = append(names, t.Name)
		}
		fmt.Fprintf(&b, "- %s: %s\n", platform.DisplayName(), strings.Join(names, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (p *Processor) handleBacklog(ctx context.Context) (string, error) {
	if p.backlog == nil {
		return "", fmt.Errorf("backlog store not configured")
	}
	questions, err := p.backlog.List(ctx, backlog.ListFilter{Status: backlog.StatusOpen, Limit: 5})
	if err != nil {
		return "", err
	}
	if len(questions) == 0 {
		return "No open questions in the backlog.", nil
	}

	var b strings.Builder
	b.WriteString("Most asked unanswered questions:\n")
	for i, q := range questions {
		fmt.Fprintf(&b, "%d. (asked %d times) %s\n", i+1, q.AskCount, q.Question)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
