package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/club-outreach/internal/domain"
	"github.com/ignite/club-outreach/internal/responses"
	"github.com/ignite/club-outreach/internal/status"
)

// SaveResponse records a manually entered reply.
func (h *Handlers) SaveResponse(w http.ResponseWriter, r *http.Request) {
	var in responses.SaveInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.responses.Save(r.Context(), in)
	switch {
	case errors.Is(err, responses.ErrDuplicateResponse):
		// Re-submitting the same reply is a no-op, not a client error.
		respondJSON(w, http.StatusOK, map[string]string{
			"status":  "duplicate",
			"warning": "a reply from this contact is already recorded for this stage",
		})
	case errors.Is(err, status.ErrNotFound):
		respondError(w, http.StatusNotFound, "club has no status record")
	case err != nil:
		respondError(w, http.StatusInternalServerError, err.Error())
	default:
		respondJSON(w, http.StatusCreated, rec)
	}
}

// CheckNewReplies polls the mail provider for new replies.
func (h *Handlers) CheckNewReplies(w http.ResponseWriter, r *http.Request) {
	saved, err := h.responses.CheckNewReplies(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"new_responses": saved})
}

// ListResponses returns stored replies, optionally filtered by ?club=.
func (h *Handlers) ListResponses(w http.ResponseWriter, r *http.Request) {
	recs, err := h.responses.List(r.Context(), r.URL.Query().Get("club"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []domain.ResponseRecord{}
	}
	respondJSON(w, http.StatusOK, recs)
}

// ListUnprocessedResponses returns replies awaiting operator handling.
func (h *Handlers) ListUnprocessedResponses(w http.ResponseWriter, r *http.Request) {
	recs, err := h.responses.ListUnprocessed(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []domain.ResponseRecord{}
	}
	respondJSON(w, http.StatusOK, recs)
}

// GetResponseStats summarizes stored replies.
func (h *Handlers) GetResponseStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.responses.GetStats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// MarkResponseProcessed flags a reply as handled.
func (h *Handlers) MarkResponseProcessed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.responses.MarkProcessed(r.Context(), id) {
		respondError(w, http.StatusNotFound, "response not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}
