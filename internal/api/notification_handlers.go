package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/club-outreach/internal/domain"
)

// ListNotifications returns the full notification log, newest first.
func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ns, err := h.notify.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ns == nil {
		ns = []domain.Notification{}
	}
	respondJSON(w, http.StatusOK, ns)
}

// ListUnreadNotifications returns unread notifications, newest first.
func (h *Handlers) ListUnreadNotifications(w http.ResponseWriter, r *http.Request) {
	ns, err := h.notify.ListUnread(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ns == nil {
		ns = []domain.Notification{}
	}
	respondJSON(w, http.StatusOK, ns)
}

// MarkNotificationRead marks one notification as read.
func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.notify.MarkRead(r.Context(), id) {
		respondError(w, http.StatusNotFound, "notification not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
