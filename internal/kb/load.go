package kb

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a knowledge file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

//go:embed default.yml
var defaultYAML []byte

var defaultBase *KnowledgeBase

func init() {
	base, err := Parse(defaultYAML, FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("kb: built-in knowledge base: %v", err))
	}
	defaultBase = base
}

// Default returns the built-in knowledge base covering Segment, mParticle,
// Lytics and Zeotap.
func Default() *KnowledgeBase {
	return defaultBase
}

// document is the on-disk shape of a knowledge file. Lists are used instead
// of maps so declaration order survives decoding.
type document struct {
	Platforms []platformDoc `yaml:"platforms" toml:"platforms"`
}

type platformDoc struct {
	Name   string     `yaml:"name" toml:"name"`
	Topics []topicDoc `yaml:"topics" toml:"topics"`
}

type topicDoc struct {
	Name     string   `yaml:"name" toml:"name"`
	Keywords []string `yaml:"keywords" toml:"keywords"`
	Response string   `yaml:"response" toml:"response"`
}

// FormatForPath picks the decoder from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported knowledge file extension %q (want .yml, .yaml or .toml)", filepath.Ext(path))
	}
}

func decode(data []byte, format Format) (*document, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("decoding toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	return &doc, nil
}

// Parse decodes and validates a single knowledge document.
func Parse(data []byte, format Format) (*KnowledgeBase, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	topics := make(map[Platform][]Topic)
	if err := merge(topics, doc); err != nil {
		return nil, err
	}
	return New(topics)
}

// LoadFile reads one knowledge file.
func LoadFile(path string) (*KnowledgeBase, error) {
	return Load(path)
}

// Load expands the given doublestar patterns, decodes every matching file in
// lexical order and merges them into one knowledge base. A (platform, topic)
// pair defined twice is an error.
func Load(patterns ...string) (*KnowledgeBase, error) {
	paths, err := expand(patterns)
	if err != nil {
		return nil, err
	}

	topics := make(map[Platform][]Topic)
	for _, path := range paths {
		format, err := FormatForPath(path)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading knowledge file %s: %w", path, err)
		}
		doc, err := decode(data, format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if err := merge(topics, doc); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	return New(topics)
}

func expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no knowledge files match %s", strings.Join(patterns, ", "))
	}
	sort.Strings(paths)
	return paths, nil
}

func merge(into map[Platform][]Topic, doc *document) error {
	for _, pd := range doc.Platforms {
		p, err := ParsePlatform(pd.Name)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		for _, td := range pd.Topics {
			for _, existing := range into[p] {
				if existing.Name == strings.TrimSpace(td.Name) {
					return fmt.Errorf("%w: %s: duplicate topic %q", ErrInvalid, p, td.Name)
				}
			}
			into[p] = append(into[p], Topic{
				Name:     strings.TrimSpace(td.Name),
				Keywords: td.Keywords,
				Response: td.Response,
			})
		}
		// A platform listed without topics still has to fail validation.
		if _, ok := into[p]; !ok {
			into[p] = nil
		}
	}
	return nil
}
