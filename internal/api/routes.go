package api

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts every API endpoint on the router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/research", func(r chi.Router) {
			r.Get("/", h.ListResearch)
			r.Get("/stats", h.GetResearchStats)
			r.Post("/{club}", h.GetOrComputeResearch)
			r.Post("/{club}/refresh", h.RefreshResearch)
		})

		r.Route("/emails", func(r chi.Router) {
			r.Get("/", h.ListEmails)
			r.Get("/{club}/{stage}", h.GetEmail)
			r.Post("/{club}/{stage}", h.GenerateEmail)
			r.Post("/{club}/{stage}/send", h.SendEmail)
			r.Post("/{club}/{stage}/regenerate", h.RegenerateEmail)
			r.Delete("/{club}/{stage}", h.DeleteEmail)
		})

		r.Route("/status", func(r chi.Router) {
			r.Get("/", h.ListStatus)
			r.Get("/stats", h.GetStatusStats)
			r.Get("/followups", h.ListFollowUps)
			r.Get("/{club}", h.GetStatus)
			r.Post("/{club}/sent/{stage}", h.RecordSent)
			r.Post("/{club}/response/{stage}", h.RecordResponse)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.ListNotifications)
			r.Get("/unread", h.ListUnreadNotifications)
			r.Post("/{id}/read", h.MarkNotificationRead)
		})

		r.Route("/responses", func(r chi.Router) {
			r.Get("/", h.ListResponses)
			r.Get("/unprocessed", h.ListUnprocessedResponses)
			r.Get("/stats", h.GetResponseStats)
			r.Post("/", h.SaveResponse)
			r.Post("/check", h.CheckNewReplies)
			r.Post("/{id}/processed", h.MarkResponseProcessed)
		})

		r.Get("/costs", h.GetCosts)
	})
}
