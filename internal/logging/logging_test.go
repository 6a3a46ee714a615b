package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"info", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewHandlerJSON(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewHandler(&buf, "json", slog.LevelInfo)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	slog.New(h).With(slog.String("component", CompBots)).Info("bot_message_handled", slog.Int("confidence", 2))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decoding record %q: %v", buf.String(), err)
	}
	if rec["msg"] != "bot_message_handled" {
		t.Errorf("msg = %v", rec["msg"])
	}
	if rec["component"] != CompBots {
		t.Errorf("component = %v", rec["component"])
	}
}

func TestNewHandlerUnknownFormat(t *testing.T) {
	if _, err := NewHandler(&bytes.Buffer{}, "xml", slog.LevelInfo); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSetupWritesToFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "cdpassist.log")
	closer, err := Setup(Options{Level: "debug", Format: "text", File: path})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	ForComponent(CompServer).Debug("server_started")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !bytes.Contains(data, []byte("server_started")) || !bytes.Contains(data, []byte("component=server")) {
		t.Errorf("unexpected log contents: %s", data)
	}
}

func TestSetupRejectsBadLevel(t *testing.T) {
	if _, err := Setup(Options{Level: "verbose"}); err == nil {
		t.Error("expected error for bad level")
	}
}
