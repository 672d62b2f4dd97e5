package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/club-outreach/internal/domain"
	"github.com/ignite/club-outreach/internal/status"
)

type recordSentRequest struct {
	Website string `json:"website"`
	Country string `json:"country"`
	Notes   string `json:"notes"`
}

// RecordSent marks a stage as sent for a club.
func (h *Handlers) RecordSent(w http.ResponseWriter, r *http.Request) {
	stage, err := domain.ParseStage(chi.URLParam(r, "stage"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req recordSentRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	club := domain.Club{Name: chi.URLParam(r, "club"), Website: req.Website, Country: req.Country}
	rec, err := h.status.RecordSent(r.Context(), club, stage, req.Notes)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

type recordResponseRequest struct {
	Kind  string `json:"kind"`
	Notes string `json:"notes"`
}

// RecordResponse records an inbound reply against a club and stage.
func (h *Handlers) RecordResponse(w http.ResponseWriter, r *http.Request) {
	stage, err := domain.ParseStage(chi.URLParam(r, "stage"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req recordResponseRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	kind, err := domain.ParseResponseKind(req.Kind)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.status.RecordResponse(r.Context(), chi.URLParam(r, "club"), stage, kind, req.Notes)
	if errors.Is(err, status.ErrNotFound) {
		respondError(w, http.StatusNotFound, "club has no status record")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// GetStatus returns the full status record for one club.
func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	rec, err := h.status.GetStatus(r.Context(), chi.URLParam(r, "club"))
	if errors.Is(err, status.ErrNotFound) {
		respondError(w, http.StatusNotFound, "club has no status record")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// ListStatus returns status records, optionally filtered by ?stage= and
// ?status= (per-stage sub-state) or ?pipeline= (overall stage).
func (h *Handlers) ListStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		recs []domain.StatusRecord
		err  error
	)
	switch {
	case q.Get("stage") != "" && q.Get("status") != "":
		var stage domain.Stage
		stage, err = domain.ParseStage(q.Get("stage"))
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		recs, err = h.status.ListByStageStatus(r.Context(), stage, domain.StageStatus(q.Get("status")))
	case q.Get("pipeline") != "":
		recs, err = h.status.ListByOverallStage(r.Context(), domain.PipelineStage(q.Get("pipeline")))
	default:
		recs, err = h.status.ListAll(r.Context())
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []domain.StatusRecord{}
	}
	respondJSON(w, http.StatusOK, recs)
}

// ListFollowUps returns stale sends older than ?days= (default 7).
func (h *Handlers) ListFollowUps(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = n
	}

	followUps, err := h.status.ListNeedingFollowUp(r.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if followUps == nil {
		followUps = []status.FollowUp{}
	}
	respondJSON(w, http.StatusOK, followUps)
}

// GetStatusStats returns the pipeline dashboard summary.
func (h *Handlers) GetStatusStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.status.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
