package kb

import (
	"fmt"
	"strings"
)

// Platform identifies a customer data platform the assistant knows about.
type Platform string

const (
	PlatformSegment   Platform = "segment"
	PlatformMParticle Platform = "mparticle"
	PlatformLytics    Platform = "lytics"
	PlatformZeotap    Platform = "zeotap"
)

// Platforms lists every known platform in iteration order. Matching walks the
// knowledge base in this order, so it decides tie-breaks.
var Platforms = []Platform{
	PlatformSegment,
	PlatformMParticle,
	PlatformLytics,
	PlatformZeotap,
}

var displayNames = map[Platform]string{
	PlatformSegment:   "Segment",
	PlatformMParticle: "mParticle",
	PlatformLytics:    "Lytics",
	PlatformZeotap:    "Zeotap",
}

// DisplayName returns the vendor's own spelling of the platform name.
func (p Platform) DisplayName() string {
	if name, ok := displayNames[p]; ok {
		return name
	}
	return string(p)
}

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	_, ok := displayNames[p]
	return ok
}

func (p Platform) order() int {
	for i, known := range Platforms {
		if known == p {
			return i
		}
	}
	return len(Platforms)
}

// ParsePlatform converts a case-insensitive platform name into a Platform.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown platform %q: must be one of segment, mparticle, lytics, zeotap", s)
	}
	return p, nil
}

// Topic is a canned answer and the keywords that select it.
type Topic struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Response string   `json:"response"`
}

// Entry is one (platform, topic) pair of the knowledge base.
type Entry struct {
	Platform Platform `json:"platform"`
	Topic    Topic    `json:"topic"`
}

// ID returns the "platform/topic" form used in logs and CLI output.
func (e Entry) ID() string {
	return string(e.Platform) + "/" + e.Topic.Name
}

func (t Topic) clone() Topic {
	t.Keywords = append([]string(nil), t.Keywords...)
	return t
}
