package kb

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

type entrySource []Entry

func (s entrySource) String(i int) string { return s[i].ID() }

func (s entrySource) Len() int { return len(s) }

// Search fuzzy-matches query against each entry's "platform/topic" ID, best
// match first, then appends entries with a keyword starting with query. A
// blank query returns every entry in iteration order.
func (b *KnowledgeBase) Search(query string) []Entry {
	entries := b.Entries()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries
	}

	included := make([]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, m := range fuzzy.FindFrom(query, entrySource(entries)) {
		included[m.Index] = true
		out = append(out, entries[m.Index])
	}
	for i, e := range entries {
		if !included[i] && hasKeywordPrefix(e.Topic.Keywords, query) {
			out = append(out, e)
		}
	}
	return out
}

func hasKeywordPrefix(keywords []string, prefix string) bool {
	for _, kw := range keywords {
		if strings.HasPrefix(kw, prefix) {
			return true
		}
	}
	return false
}
