// Package matcher picks the canned answer that best fits a free-text question.
//
// Scoring is deliberately crude: a topic scores one point for every keyword
// found as a substring of the lowercased input. There is no tokenization, so
// "track" also matches "tracker". Ties go to a topic whose platform is named
// in the input; otherwise the first entry in iteration order keeps the win.
//
// All functions are pure and safe for concurrent use.
package matcher

import (
	"strings"

	"github.com/ziadkadry99/cdp-assistant/internal/kb"
)

// Result is the winning (platform, topic) pair. Confidence is the number of
// the topic's keywords found in the input and is zero when nothing matched.
type Result struct {
	Platform   kb.Platform `json:"platform,omitempty"`
	Topic      string      `json:"topic,omitempty"`
	Confidence int         `json:"confidence"`
}

// Found reports whether any keyword matched.
func (r Result) Found() bool {
	return r.Confidence > 0
}

// Best scores every entry of the knowledge base and returns the winner.
func Best(input string, base *kb.KnowledgeBase) Result {
	lower := strings.ToLower(input)

	var best Result
	for _, e := range base.Entries() {
		count := countMatches(lower, e.Topic.Keywords)
		if count > best.Confidence || (count == best.Confidence && names(lower, e.Platform)) {
			best = Result{Platform: e.Platform, Topic: e.Topic.Name, Confidence: count}
		}
	}

	if !best.Found() {
		return Result{}
	}
	return best
}

// Match returns the response text of the best entry, or false when no keyword
// matched. Callers substitute their own fallback message.
func Match(input string, base *kb.KnowledgeBase) (string, bool) {
	r := Best(input, base)
	if !r.Found() {
		return "", false
	}
	topic, ok := base.Lookup(r.Platform, r.Topic)
	if !ok {
		return "", false
	}
	return topic.Response, true
}

func countMatches(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

func names(lower string, p kb.Platform) bool {
	return strings.Contains(lower, string(p))
}
