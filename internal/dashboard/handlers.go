package dashboard

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ziadkadry99/cdp-assistant/internal/kb"
	"github.com/ziadkadry99/cdp-assistant/internal/render"
)

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer     string      `json:"answer"`
	HTML       string      `json:"html"`
	Matched    bool        `json:"matched"`
	Platform   kb.Platform `json:"platform,omitempty"`
	Topic      string      `json:"topic,omitempty"`
	Confidence int         `json:"confidence"`
}

// topicResponse is one knowledge-base entry in the topics listing.
type topicResponse struct {
	Platform     kb.Platform `json:"platform"`
	PlatformName string      `json:"platform_name"`
	Topic        string      `json:"topic"`
	Keywords     []string    `json:"keywords"`
}

func (d *Dashboard) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	ans := d.assistant.Answer(r.Context(), Source, req.Question)
	html, err := render.Markdown(ans.Text)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, askResponse{
		Answer:     ans.Text,
		HTML:       html,
		Matched:    ans.Matched,
		Platform:   ans.Result.Platform,
		Topic:      ans.Result.Topic,
		Confidence: ans.Result.Confidence,
	})
}

func (d *Dashboard) handleTopics(w http.ResponseWriter, r *http.Request) {
	entries := d.assistant.KnowledgeBase().Search(r.URL.Query().Get("q"))

	topics := make([]topicResponse, 0, len(entries))
	for _, e := range entries {
		topics = append(topics, topicResponse{
			Platform:     e.Platform,
			PlatformName: e.Platform.DisplayName(),
			Topic:        e.Topic.Name,
			Keywords:     e.Topic.Keywords,
		})
	}
	writeJSON(w, http.StatusOK, topics)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
