package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/club-outreach/internal/content"
	"github.com/ignite/club-outreach/internal/domain"
)

type emailRequest struct {
	Website string `json:"website"`
	Country string `json:"country"`
	ToName  string `json:"to_name"`
	ToEmail string `json:"to_email"`
}

func emailParams(r *http.Request) (domain.Club, domain.Stage, emailRequest, error) {
	stage, err := domain.ParseStage(chi.URLParam(r, "stage"))
	if err != nil {
		return domain.Club{}, "", emailRequest{}, err
	}

	club := domain.Club{Name: chi.URLParam(r, "club")}
	var req emailRequest
	if err := decodeBody(r, &req); err == nil {
		club.Website = req.Website
		club.Country = req.Country
	}
	return club, stage, req, nil
}

// GenerateEmail drafts the personalized email for (club, stage).
func (h *Handlers) GenerateEmail(w http.ResponseWriter, r *http.Request) {
	club, stage, _, err := emailParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.content.Generate(r.Context(), club, stage)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// SendEmail delivers the draft when a recipient is given, then records the
// send on the tracker.
func (h *Handlers) SendEmail(w http.ResponseWriter, r *http.Request) {
	club, stage, req, err := emailParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.content.MarkSent(r.Context(), club, stage,
		content.Recipient{Name: req.ToName, Email: req.ToEmail})
	if errors.Is(err, content.ErrNotFound) {
		respondError(w, http.StatusNotFound, "no draft for this club and stage")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// RegenerateEmail discards the stored draft and generates a fresh one.
func (h *Handlers) RegenerateEmail(w http.ResponseWriter, r *http.Request) {
	club, stage, _, err := emailParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.content.Regenerate(r.Context(), club, stage)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// GetEmail returns the stored email for (club, stage).
func (h *Handlers) GetEmail(w http.ResponseWriter, r *http.Request) {
	stage, err := domain.ParseStage(chi.URLParam(r, "stage"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.content.Get(r.Context(), chi.URLParam(r, "club"), stage)
	if errors.Is(err, content.ErrNotFound) {
		respondError(w, http.StatusNotFound, "no email for this club and stage")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// DeleteEmail removes the stored email for (club, stage).
func (h *Handlers) DeleteEmail(w http.ResponseWriter, r *http.Request) {
	stage, err := domain.ParseStage(chi.URLParam(r, "stage"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.content.Delete(r.Context(), chi.URLParam(r, "club"), stage); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListEmails returns every generated email.
func (h *Handlers) ListEmails(w http.ResponseWriter, r *http.Request) {
	recs, err := h.content.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []domain.EmailRecord{}
	}
	respondJSON(w, http.StatusOK, recs)
}
