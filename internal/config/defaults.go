package config

import (
	"time"

	"github.com/ziadkadry99/cdp-assistant/internal/assistant"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = ".cdpassist.yml"

// DefaultConfig returns a Config with sensible defaults. An empty
// KnowledgeFiles list means the built-in knowledge base.
func DefaultConfig() *Config {
	return &Config{
		DataDir:       ".cdpassist",
		Fallback:      assistant.DefaultFallback,
		Greeting:      assistant.DefaultGreeting,
		ThinkingDelay: time.Second,
		Server: ServerConfig{
			Port: 8080,
		},
		Bots: BotsConfig{
			MessagesPerMinute: 30,
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatText,
		},
	}
}
