package bots

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/ziadkadry99/cdp-assistant/internal/logging"
)

// TeamsHandler handles incoming Microsoft Teams bot activities.
type TeamsHandler struct {
	gateway *Gateway
	log     *slog.Logger
}

// NewTeamsHandler creates a new Teams activity handler.
func NewTeamsHandler(gateway *Gateway) *TeamsHandler {
	return &TeamsHandler{gateway: gateway, log: logging.ForComponent(logging.CompBots)}
}

// teamsActivity represents a Teams Bot Framework activity.
type teamsActivity struct {
	Type         string            `json:"type"`
	ID           string            `json:"id"`
	Timestamp    string            `json:"timestamp"`
	Text         string            `json:"text"`
	From         teamsAccount      `json:"from"`
	Conversation teamsConversation `json:"conversation"`
	ChannelID    string            `json:"channelId"`
	ReplyToID    string            `json:"replyToId"`
}

type teamsAccount struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type teamsConversation struct {
	ID string `json:"id"`
}

// teamsReply is the activity returned in the HTTP response.
type teamsReply struct {
	Type       string `json:"type"`
	Text       string `json:"text"`
	TextFormat string `json:"textFormat"`
	ReplyToID  string `json:"replyToId,omitempty"`
}

// Teams prefixes channel mentions with <at>BotName</at>.
var teamsMentionRe = regexp.MustCompile(`<at>[^<]*</at>`)

// HandleActivity handles incoming Teams bot activities (HTTP POST).
func (h *TeamsHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var activity teamsActivity
	if err := json.Unmarshal(body, &activity); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// Only process message activities.
	if activity.Type != "message" {
		w.WriteHeader(http.StatusOK)
		return
	}

	msg := IncomingMessage{
		Platform:  PlatformTeams,
		ChannelID: activity.Conversation.ID,
		UserID:    activity.From.ID,
		UserName:  activity.From.Name,
		Text:      strings.TrimSpace(teamsMentionRe.ReplaceAllString(activity.Text, "")),
		ThreadID:  activity.ReplyToID,
		Timestamp: activity.Timestamp,
	}

	resp, err := h.gateway.Process(r.Context(), msg)
	if err != nil {
		h.log.Error("teams_processing_failed", slog.String("conversation", msg.ChannelID), slog.String("error", err.Error()))
		http.Error(w, "processing error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(teamsReply{
		Type:       "message",
		Text:       resp.Text,
		TextFormat: "markdown",
		ReplyToID:  activity.ID,
	})
}
