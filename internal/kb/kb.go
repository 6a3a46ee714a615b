// Package kb holds the static knowledge base of canned CDP answers.
//
// A KnowledgeBase is built once, validated, and never mutated afterwards.
// Every accessor hands out copies so callers cannot change it either.
package kb

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid knowledge base")

// KnowledgeBase maps each platform to its ordered list of topics.
type KnowledgeBase struct {
	platforms []Platform
	topics    map[Platform][]Topic
}

// New validates the given topics and returns an immutable knowledge base.
// Keywords are trimmed, lowercased and de-duplicated; topic order within a
// platform is kept.
func New(topics map[Platform][]Topic) (*KnowledgeBase, error) {
	if len(topics) == 0 {
		return nil, fmt.Errorf("%w: no platforms defined", ErrInvalid)
	}

	base := &KnowledgeBase{topics: make(map[Platform][]Topic, len(topics))}
	for p, list := range topics {
		if !p.Valid() {
			return nil, fmt.Errorf("%w: unknown platform %q", ErrInvalid, p)
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: platform %s has no topics", ErrInvalid, p)
		}

		seen := make(map[string]bool, len(list))
		normalized := make([]Topic, 0, len(list))
		for _, t := range list {
			nt, err := normalizeTopic(t)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, p, err)
			}
			if seen[nt.Name] {
				return nil, fmt.Errorf("%w: %s: duplicate topic %q", ErrInvalid, p, nt.Name)
			}
			seen[nt.Name] = true
			normalized = append(normalized, nt)
		}

		base.topics[p] = normalized
		base.platforms = append(base.platforms, p)
	}

	sort.Slice(base.platforms, func(i, j int) bool {
		return base.platforms[i].order() < base.platforms[j].order()
	})
	return base, nil
}

func normalizeTopic(t Topic) (Topic, error) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return Topic{}, errors.New("topic name is required")
	}
	if strings.TrimSpace(t.Response) == "" {
		return Topic{}, fmt.Errorf("topic %q has an empty response", name)
	}
	if len(t.Keywords) == 0 {
		return Topic{}, fmt.Errorf("topic %q has no keywords", name)
	}

	// Keywords form a set: repeats after normalizing are dropped so a
	// topic's score never exceeds its number of distinct keywords.
	keywords := make([]string, 0, len(t.Keywords))
	seen := make(map[string]bool, len(t.Keywords))
	for _, kw := range t.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			return Topic{}, fmt.Errorf("topic %q has an empty keyword", name)
		}
		if seen[kw] {
			continue
		}
		seen[kw] = true
		keywords = append(keywords, kw)
	}

	return Topic{Name: name, Keywords: keywords, Response: t.Response}, nil
}

// Platforms returns the platforms present, in iteration order.
func (b *KnowledgeBase) Platforms() []Platform {
	return append([]Platform(nil), b.platforms...)
}

// Topics returns the topics of a platform in declaration order.
func (b *KnowledgeBase) Topics(p Platform) []Topic {
	list := b.topics[p]
	out := make([]Topic, len(list))
	for i, t := range list {
		out[i] = t.clone()
	}
	return out
}

// Lookup returns a single topic.
func (b *KnowledgeBase) Lookup(p Platform, topic string) (Topic, bool) {
	for _, t := range b.topics[p] {
		if t.Name == topic {
			return t.clone(), true
		}
	}
	return Topic{}, false
}

// Entries returns every (platform, topic) pair in iteration order:
// platforms in enumeration order, topics in declaration order.
func (b *KnowledgeBase) Entries() []Entry {
	var out []Entry
	for _, p := range b.platforms {
		for _, t := range b.topics[p] {
			out = append(out, Entry{Platform: p, Topic: t.clone()})
		}
	}
	return out
}

// Len returns the number of topics across all platforms.
func (b *KnowledgeBase) Len() int {
	n := 0
	for _, list := range b.topics {
		n += len(list)
	}
	return n
}
