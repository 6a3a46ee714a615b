package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/cdp-assistant/internal/kb"
	"github.com/ziadkadry99/cdp-assistant/internal/logging"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CDPASSIST_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CDPASSIST_*). A double underscore in the
// variable name separates nested keys: CDPASSIST_SERVER__PORT -> server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Save writes the configuration to the given YAML file path. Durations are
// written in their string form ("1s") so the file stays hand-editable.
func (c *Config) Save(path string) error {
	raw, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	var doc map[string]any
	if err := yamlv3.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	doc["thinking_delay"] = c.ThinkingDelay.String()
	data, err := yamlv3.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if strings.TrimSpace(c.Fallback) == "" {
		return fmt.Errorf("fallback is required")
	}
	if c.ThinkingDelay < 0 {
		return fmt.Errorf("thinking_delay must be non-negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Bots.MessagesPerMinute < 0 {
		return fmt.Errorf("bots.messages_per_minute must be non-negative")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "" && c.Log.Format != LogFormatText && c.Log.Format != LogFormatJSON {
		return fmt.Errorf("invalid log.format %q: must be text or json", c.Log.Format)
	}
	for _, pattern := range c.KnowledgeFiles {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("knowledge_files contains an empty pattern")
		}
	}
	return nil
}

// LoggingOptions converts the log section for logging.Setup.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:  c.Log.Level,
		Format: string(c.Log.Format),
		File:   c.Log.File,
	}
}

// KnowledgeBase loads the configured knowledge files, or returns the
// built-in knowledge base when none are configured.
func (c *Config) KnowledgeBase() (*kb.KnowledgeBase, error) {
	if len(c.KnowledgeFiles) == 0 {
		return kb.Default(), nil
	}
	base, err := kb.Load(c.KnowledgeFiles...)
	if err != nil {
		return nil, fmt.Errorf("loading knowledge base: %w", err)
	}
	return base, nil
}
