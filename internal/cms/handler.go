package cms

import (
	"encoding/json"
	"net/http"

	"github.com/dunecrest/realty-api/internal/httpapi"
	"gorm.io/gorm"
)

// Handler serves the CMS visibility settings.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

// GetSettings handles GET /cms-settings. Public: the frontend reads the
// flags to decide which sections to render.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repository.Get(h.DB)
	if err != nil {
		httpapi.Internal(w, "failed to load cms settings")
		return
	}
	httpapi.JSON(w, http.StatusOK, s)
}

type updateSettingsRequest struct {
	HeroSection       *bool `json:"heroSection"`
	AgentsSection     *bool `json:"agentsSection"`
	PropertiesSection *bool `json:"propertiesSection"`
	LeadFormSection   *bool `json:"leadFormSection"`
	MarketingSection  *bool `json:"marketingSection"`
}

// UpdateSettings handles PUT /cms-settings. Admin only (gated in the
// router). Omitted flags keep their current value.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	s, err := h.Repository.Get(h.DB)
	if err != nil {
		httpapi.Internal(w, "failed to load cms settings")
		return
	}

	if req.HeroSection != nil {
		s.HeroSection = *req.HeroSection
	}
	if req.AgentsSection != nil {
		s.AgentsSection = *req.AgentsSection
	}
	if req.PropertiesSection != nil {
		s.PropertiesSection = *req.PropertiesSection
	}
	if req.LeadFormSection != nil {
		s.LeadFormSection = *req.LeadFormSection
	}
	if req.MarketingSection != nil {
		s.MarketingSection = *req.MarketingSection
	}

	if err := h.Repository.Update(h.DB, s); err != nil {
		httpapi.Internal(w, "failed to save cms settings")
		return
	}
	httpapi.JSON(w, http.StatusOK, s)
}
