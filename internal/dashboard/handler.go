package dashboard

import (
	"net/http"
	"time"

	"github.com/assureops/incident-desk/internal/domain"
	"github.com/assureops/incident-desk/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// IncidentLister provides the incident snapshot to aggregate over.
type IncidentLister interface {
	List() []*domain.Incident
}

// Handler serves the agent dashboard endpoints.
type Handler struct {
	incidents IncidentLister
	now       func() time.Time
}

// NewHandler creates a new dashboard handler.
func NewHandler(incidents IncidentLister) *Handler {
	return &Handler{incidents: incidents, now: time.Now}
}

// RegisterRoutes registers dashboard routes. Callers gate them to agents.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/stats", h.GetStats)
	r.Get("/dashboard/queue", h.GetHighImpactQueue)
}

// GetStats handles GET /dashboard/stats: a fresh aggregation over the
// current collection.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := Aggregate(h.incidents.List(), h.now())
	httputil.Success(w, http.StatusOK, stats)
}

// GetHighImpactQueue handles GET /dashboard/queue.
func (h *Handler) GetHighImpactQueue(w http.ResponseWriter, r *http.Request) {
	httputil.Success(w, http.StatusOK, HighImpactQueue(h.incidents.List()))
}
