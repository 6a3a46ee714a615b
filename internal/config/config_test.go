package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/cdp-assistant/internal/assistant"
	"github.com/ziadkadry99/cdp-assistant/internal/kb"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ThinkingDelay != time.Second {
		t.Errorf("expected default thinking_delay 1s, got %s", cfg.ThinkingDelay)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Fallback != assistant.DefaultFallback {
		t.Errorf("unexpected default fallback %q", cfg.Fallback)
	}
	if len(cfg.KnowledgeFiles) != 0 {
		t.Errorf("expected no knowledge files by default, got %v", cfg.KnowledgeFiles)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.cdpassist.yml")

	original := DefaultConfig()
	original.KnowledgeFiles = []string{"kb/*.yml", "kb/*.toml"}
	original.DataDir = "state"
	original.ThinkingDelay = 250 * time.Millisecond
	original.Server.Port = 9090
	original.Server.AllowAllOrigins = true
	original.Log.Format = LogFormatJSON

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved config: %v", err)
	}
	if want := "thinking_delay: 250ms"; !strings.Contains(string(data), want) {
		t.Errorf("saved config missing %q:\n%s", want, data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.DataDir != original.DataDir {
		t.Errorf("data_dir: got %q, want %q", loaded.DataDir, original.DataDir)
	}
	if loaded.ThinkingDelay != original.ThinkingDelay {
		t.Errorf("thinking_delay: got %s, want %s", loaded.ThinkingDelay, original.ThinkingDelay)
	}
	if loaded.Server.Port != 9090 || !loaded.Server.AllowAllOrigins {
		t.Errorf("server: got %+v", loaded.Server)
	}
	if loaded.Log.Format != LogFormatJSON {
		t.Errorf("log.format: got %q", loaded.Log.Format)
	}
	if len(loaded.KnowledgeFiles) != len(original.KnowledgeFiles) {
		t.Fatalf("knowledge_files length: got %d, want %d", len(loaded.KnowledgeFiles), len(original.KnowledgeFiles))
	}
	for i, v := range loaded.KnowledgeFiles {
		if v != original.KnowledgeFiles[i] {
			t.Errorf("knowledge_files[%d]: got %q, want %q", i, v, original.KnowledgeFiles[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")
	if err := os.WriteFile(path, []byte("server: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("CDPASSIST_SERVER__PORT", "9191")
	t.Setenv("CDPASSIST_THINKING_DELAY", "2s")
	t.Setenv("CDPASSIST_BOTS__SLACK_SIGNING_SECRET", "shh")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Server.Port != 9191 {
		t.Errorf("env override failed: got port %d, want 9191", loaded.Server.Port)
	}
	if loaded.ThinkingDelay != 2*time.Second {
		t.Errorf("env override failed: got delay %s, want 2s", loaded.ThinkingDelay)
	}
	if loaded.Bots.SlackSigningSecret != "shh" {
		t.Errorf("env override failed: got secret %q", loaded.Bots.SlackSigningSecret)
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CDPASSIST_DATA_DIR", "data_dir"},
		{"CDPASSIST_SERVER__PORT", "server.port"},
		{"CDPASSIST_LOG__FORMAT", "log.format"},
	}
	for _, tt := range tests {
		if got := envKey(tt.in); got != tt.want {
			t.Errorf("envKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"blank fallback", func(c *Config) { c.Fallback = "  " }},
		{"negative delay", func(c *Config) { c.ThinkingDelay = -time.Second }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"negative rate", func(c *Config) { c.Bots.MessagesPerMinute = -1 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"empty pattern", func(c *Config) { c.KnowledgeFiles = []string{"kb/*.yml", " "} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestKnowledgeBaseDefault(t *testing.T) {
	base, err := DefaultConfig().KnowledgeBase()
	if err != nil {
		t.Fatalf("KnowledgeBase failed: %v", err)
	}
	if base.Len() != kb.Default().Len() {
		t.Errorf("expected built-in knowledge base, got %d entries", base.Len())
	}
}

func TestKnowledgeBaseFromFiles(t *testing.T) {
	dir := t.TempDir()
	doc := `platforms:
  - name: lytics
    topics:
      - name: scoring
        keywords: [score]
        response: Scores are recomputed nightly.
`
	if err := os.WriteFile(filepath.Join(dir, "lytics.yml"), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.KnowledgeFiles = []string{filepath.Join(dir, "*.yml")}
	base, err := cfg.KnowledgeBase()
	if err != nil {
		t.Fatalf("KnowledgeBase failed: %v", err)
	}
	if base.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", base.Len())
	}

	cfg.KnowledgeFiles = []string{filepath.Join(dir, "*.toml")}
	if _, err := cfg.KnowledgeBase(); err == nil {
		t.Error("expected error when no files match")
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"kb/**/*.yml", []string{"kb/**/*.yml"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}

func TestValidateHelpers(t *testing.T) {
	if err := validateDuration("500ms"); err != nil {
		t.Errorf("validateDuration(500ms): %v", err)
	}
	if err := validateDuration("soon"); err == nil {
		t.Error("expected error for non-duration")
	}
	if err := validatePort("8080"); err != nil {
		t.Errorf("validatePort(8080): %v", err)
	}
	if err := validatePort("http"); err == nil {
		t.Error("expected error for non-numeric port")
	}
}
