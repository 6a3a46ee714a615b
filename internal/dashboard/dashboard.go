package dashboard

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/cdp-assistant/internal/assistant"
	"github.com/ziadkadry99/cdp-assistant/internal/logging"
)

// Source tags questions asked through the dashboard.
const Source = "dashboard"

// Options configures the chat widget sessions.
type Options struct {
	Greeting      string
	ThinkingDelay time.Duration
}

// Dashboard serves the chat widget and its JSON API.
type Dashboard struct {
	assistant *assistant.Assistant
	opts      Options
	log       *slog.Logger
}

// New creates a new Dashboard.
func New(a *assistant.Assistant, opts Options) *Dashboard {
	return &Dashboard{
		assistant: a,
		opts:      opts,
		log:       logging.ForComponent(logging.CompDashboard),
	}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Post("/api/chat/ask", d.handleAsk)
	r.Get("/api/topics", d.handleTopics)
	r.Get("/ws/chat", d.handleWebSocket)
}
