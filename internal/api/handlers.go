// Package api exposes the outreach services over a JSON HTTP API.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ignite/club-outreach/internal/content"
	"github.com/ignite/club-outreach/internal/costs"
	"github.com/ignite/club-outreach/internal/notify"
	"github.com/ignite/club-outreach/internal/research"
	"github.com/ignite/club-outreach/internal/responses"
	"github.com/ignite/club-outreach/internal/status"
)

// Handlers holds the service dependencies for all HTTP endpoints.
type Handlers struct {
	research  *research.Service
	content   *content.Service
	status    *status.Service
	notify    *notify.Service
	responses *responses.Service
	ledger    *costs.Ledger

	startedAt time.Time
}

// NewHandlers wires the services into an HTTP handler set.
func NewHandlers(
	researchSvc *research.Service,
	contentSvc *content.Service,
	statusSvc *status.Service,
	notifySvc *notify.Service,
	responsesSvc *responses.Service,
	ledger *costs.Ledger,
) *Handlers {
	return &Handlers{
		research:  researchSvc,
		content:   contentSvc,
		status:    statusSvc,
		notify:    notifySvc,
		responses: responsesSvc,
		ledger:    ledger,
		startedAt: time.Now(),
	}
}

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"timestamp":      time.Now(),
	})
}

// GetCosts returns accumulated AI spend by kind.
func (h *Handlers) GetCosts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.ledger.Totals())
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
