package analytics

import (
	"net/http"

	"github.com/dunecrest/realty-api/internal/auth"
	"github.com/dunecrest/realty-api/internal/httpapi"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository *Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

// Summary handles GET /analytics/summary (admin, global).
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repository.Summarize(h.DB, 0)
	if err != nil {
		httpapi.Internal(w, "failed to aggregate leads")
		return
	}
	httpapi.JSON(w, http.StatusOK, s)
}

// Agents handles GET /analytics/agents (admin).
func (h *Handler) Agents(w http.ResponseWriter, r *http.Request) {
	perf, err := h.Repository.AgentPerformance(h.DB)
	if err != nil {
		httpapi.Internal(w, "failed to aggregate agent performance")
		return
	}
	httpapi.JSON(w, http.StatusOK, perf)
}

// Revenue handles GET /analytics/revenue (admin).
func (h *Handler) Revenue(w http.ResponseWriter, r *http.Request) {
	months, err := h.Repository.RevenueByMonth(h.DB, 0)
	if err != nil {
		httpapi.Internal(w, "failed to aggregate revenue")
		return
	}
	httpapi.JSON(w, http.StatusOK, months)
}

// Sources handles GET /analytics/sources (admin).
func (h *Handler) Sources(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.Repository.Sources(h.DB, 0)
	if err != nil {
		httpapi.Internal(w, "failed to aggregate sources")
		return
	}
	httpapi.JSON(w, http.StatusOK, breakdown)
}

// AgentSummary handles GET /agent/analytics: the same rollups scoped to
// the caller's own leads.
func (h *Handler) AgentSummary(w http.ResponseWriter, r *http.Request) {
	agentID := auth.UserID(r)
	summary, err := h.Repository.Summarize(h.DB, agentID)
	if err != nil {
		httpapi.Internal(w, "failed to aggregate leads")
		return
	}
	sources, err := h.Repository.Sources(h.DB, agentID)
	if err != nil {
		httpapi.Internal(w, "failed to aggregate sources")
		return
	}
	httpapi.JSON(w, http.StatusOK, map[string]interface{}{
		"summary": summary,
		"sources": sources,
	})
}
