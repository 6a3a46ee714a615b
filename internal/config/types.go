package config

import "time"

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Config is the top-level cdpassist configuration, corresponding to .cdpassist.yml.
type Config struct {
	KnowledgeFiles []string      `yaml:"knowledge_files" koanf:"knowledge_files"`
	DataDir        string        `yaml:"data_dir" koanf:"data_dir"`
	Fallback       string        `yaml:"fallback" koanf:"fallback"`
	Greeting       string        `yaml:"greeting" koanf:"greeting"`
	ThinkingDelay  time.Duration `yaml:"thinking_delay" koanf:"thinking_delay"`
	Server         ServerConfig  `yaml:"server" koanf:"server"`
	Bots           BotsConfig    `yaml:"bots" koanf:"bots"`
	Log            LogConfig     `yaml:"log" koanf:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// BotsConfig holds Slack and Teams webhook settings.
type BotsConfig struct {
	SlackSigningSecret string `yaml:"slack_signing_secret" koanf:"slack_signing_secret"`
	MessagesPerMinute  int    `yaml:"messages_per_minute" koanf:"messages_per_minute"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string    `yaml:"level" koanf:"level"`
	Format LogFormat `yaml:"format" koanf:"format"`
	File   string    `yaml:"file" koanf:"file"`
}
