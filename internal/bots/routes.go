package bots

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the bot webhooks under /api/bots. A nil handler
// leaves its platform unmounted.
func RegisterRoutes(r chi.Router, slackHandler *SlackHandler, teamsHandler *TeamsHandler) {
	r.Route("/api/bots", func(r chi.Router) {
		if slackHandler != nil {
			r.Post("/slack/events", slackHandler.HandleEvent)
		}
		if teamsHandler != nil {
			r.Post("/teams/activity", teamsHandler.HandleActivity)
		}
	})
}
