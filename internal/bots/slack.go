package bots

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ziadkadry99/cdp-assistant/internal/logging"
)

// maxClockSkew bounds how old a signed Slack request may be.
const maxClockSkew = 5 * time.Minute

// SlackHandler handles incoming Slack webhook events.
type SlackHandler struct {
	gateway       *Gateway
	signingSecret string
	now           func() time.Time
	log           *slog.Logger
}

// NewSlackHandler creates a new Slack event handler. An empty signing
// secret disables request verification.
func NewSlackHandler(gateway *Gateway, signingSecret string) *SlackHandler {
	return &SlackHandler{
		gateway:       gateway,
		signingSecret: signingSecret,
		now:           time.Now,
		log:           logging.ForComponent(logging.CompBots),
	}
}

// slackEvent represents the top-level Slack event payload.
type slackEvent struct {
	Type      string          `json:"type"`
	Challenge string          `json:"challenge"`
	Event     slackInnerEvent `json:"event"`
}

// slackInnerEvent represents the inner event in a Slack event_callback.
type slackInnerEvent struct {
	Type     string `json:"type"`
	Subtype  string `json:"subtype"`
	User     string `json:"user"`
	Text     string `json:"text"`
	Channel  string `json:"channel"`
	TS       string `json:"ts"`
	ThreadTS string `json:"thread_ts"`
	BotID    string `json:"bot_id"`
}

// HandleEvent handles incoming Slack events (HTTP POST).
func (h *SlackHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if h.signingSecret != "" {
		if err := h.verifySignature(r, body); err != nil {
			h.log.Warn("slack_signature_rejected", slog.String("error", err.Error()))
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
	}

	var event slackEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "url_verification":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"challenge": event.Challenge})
		return

	case "event_callback":
		// Skip bot messages to avoid loops.
		if event.Event.BotID != "" || event.Event.Subtype == "bot_message" {
			w.WriteHeader(http.StatusOK)
			return
		}
		if event.Event.Type != "message" && event.Event.Type != "app_mention" {
			w.WriteHeader(http.StatusOK)
			return
		}

		msg := IncomingMessage{
			Platform:  PlatformSlack,
			ChannelID: event.Event.Channel,
			UserID:    event.Event.User,
			Text:      event.Event.Text,
			ThreadID:  event.Event.ThreadTS,
			Timestamp: event.Event.TS,
		}

		resp, err := h.gateway.Process(r.Context(), msg)
		if err != nil {
			h.log.Error("slack_processing_failed", slog.String("channel", msg.ChannelID), slog.String("error", err.Error()))
			http.Error(w, "processing error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(formatSlackMessage(resp))
		return

	default:
		w.WriteHeader(http.StatusOK)
	}
}

// verifySignature checks the v0 HMAC-SHA256 signature and rejects requests
// whose timestamp is outside the allowed skew.
func (h *SlackHandler) verifySignature(r *http.Request, body []byte) error {
	timestamp := r.Header.Get("X-Slack-Request-Timestamp")
	signature := r.Header.Get("X-Slack-Signature")

	if timestamp == "" || signature == "" {
		return fmt.Errorf("missing signature headers")
	}
	if !verifyTimestamp(timestamp, h.now()) {
		return fmt.Errorf("stale or malformed timestamp %q", timestamp)
	}

	if !hmac.Equal([]byte(signSlack(h.signingSecret, timestamp, body)), []byte(signature)) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

func signSlack(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:%s", timestamp, body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

// verifyTimestamp checks that the request timestamp is within maxClockSkew of now.
func verifyTimestamp(timestamp string, now time.Time) bool {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	diff := now.Sub(time.Unix(ts, 0))
	if diff < 0 {
		diff = -diff
	}
	return diff <= maxClockSkew
}

// slackResponse represents a simple Slack response message.
type slackResponse struct {
	Channel  string `json:"channel"`
	Text     string `json:"text"`
	ThreadTS string `json:"thread_ts,omitempty"`
}

var boldRe = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// formatSlackMessage converts an answer to Slack mrkdwn: "- " bullets
// become "•" and **bold** becomes *bold*. Numbered steps are left as is.
func formatSlackMessage(msg *OutgoingMessage) *slackResponse {
	resp := &slackResponse{
		Channel:  msg.ChannelID,
		Text:     boldRe.ReplaceAllString(msg.Text, "*$1*"),
		ThreadTS: msg.ThreadID,
	}

	if strings.Contains(resp.Text, "\n") || strings.HasPrefix(resp.Text, "- ") {
		lines := strings.Split(resp.Text, "\n")
		for i, line := range lines {
			if strings.HasPrefix(line, "- ") {
				lines[i] = "• " + line[2:]
			}
		}
		resp.Text = strings.Join(lines, "\n")
	}

	return resp
}
