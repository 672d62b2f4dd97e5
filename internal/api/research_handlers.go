package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/club-outreach/internal/domain"
)

type researchRequest struct {
	Website string `json:"website"`
	Country string `json:"country"`
}

// GetOrComputeResearch returns the club's cached research, computing it first
// if missing or expired.
func (h *Handlers) GetOrComputeResearch(w http.ResponseWriter, r *http.Request) {
	clubName := chi.URLParam(r, "club")
	var req researchRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	club := domain.Club{Name: clubName, Website: req.Website, Country: req.Country}
	_, rec, err := h.research.Get(r.Context(), club, domain.StageIntroduction)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// RefreshResearch discards the cached record and researches the club again.
func (h *Handlers) RefreshResearch(w http.ResponseWriter, r *http.Request) {
	clubName := chi.URLParam(r, "club")
	var req researchRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	club := domain.Club{Name: clubName, Website: req.Website, Country: req.Country}
	rec, err := h.research.Refresh(r.Context(), club)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// ListResearch returns every stored research record.
func (h *Handlers) ListResearch(w http.ResponseWriter, r *http.Request) {
	recs, err := h.research.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []domain.ResearchRecord{}
	}
	respondJSON(w, http.StatusOK, recs)
}

// GetResearchStats summarizes the research cache.
func (h *Handlers) GetResearchStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.research.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
