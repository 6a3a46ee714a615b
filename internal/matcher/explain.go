package matcher

import (
	"strings"

	"github.com/ziadkadry99/cdp-assistant/internal/kb"
)

// Score is the per-entry breakdown behind a match.
type Score struct {
	Platform      kb.Platform `json:"platform"`
	Topic         string      `json:"topic"`
	Matched       []string    `json:"matched"`
	PlatformNamed bool        `json:"platform_named"`
	KeywordCount  int         `json:"keyword_count"`
}

// Count is the number of matched keywords.
func (s Score) Count() int { return len(s.Matched) }

// Explain returns the score of every entry in iteration order.
func Explain(input string, base *kb.KnowledgeBase) []Score {
	lower := strings.ToLower(input)

	entries := base.Entries()
	scores := make([]Score, 0, len(entries))
	for _, e := range entries {
		s := Score{
			Platform:      e.Platform,
			Topic:         e.Topic.Name,
			Matched:       []string{},
			PlatformNamed: names(lower, e.Platform),
			KeywordCount:  len(e.Topic.Keywords),
		}
		for _, kw := range e.Topic.Keywords {
			if strings.Contains(lower, kw) {
				s.Matched = append(s.Matched, kw)
			}
		}
		scores = append(scores, s)
	}
	return scores
}
