package hero

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dunecrest/realty-api/internal/cms"
	"github.com/dunecrest/realty-api/internal/httpapi"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Settings   cms.Repository
	Origin     string
}

func NewHandler(db *gorm.DB, origin string) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Settings:   cms.NewRepository(),
		Origin:     origin,
	}
}

type heroRequest struct {
	Type       string `json:"type"`
	Heading    string `json:"heading"`
	Subheading string `json:"subheading"`
	CTAText    string `json:"ctaText"`
	CTALink    string `json:"ctaLink"`
	Media      string `json:"media"`
	Video      string `json:"video"`
	IsActive   *bool  `json:"isActive"`
}

func (req *heroRequest) validate() map[string]string {
	fields := map[string]string{}
	if req.Type != "" && req.Type != TypeImage && req.Type != TypeVideo {
		fields["type"] = "must be image or video"
	}
	return fields
}

// List handles GET /hero (admin).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	heroes, err := h.Repository.ListAll(h.DB)
	if err != nil {
		httpapi.Internal(w, "failed to list heroes")
		return
	}
	for i := range heroes {
		heroes[i].ResolveMedia(h.Origin)
	}
	httpapi.JSON(w, http.StatusOK, heroes)
}

// Get handles GET /hero/{id} (admin).
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := heroID(w, r)
	if !ok {
		return
	}
	obj, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		httpapi.NotFound(w, "hero not found")
		return
	}
	obj.ResolveMedia(h.Origin)
	httpapi.JSON(w, http.StatusOK, obj)
}

// Create handles POST /hero (admin).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req heroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		httpapi.ValidationError(w, fields)
		return
	}

	obj := Hero{
		Type:       req.Type,
		Heading:    req.Heading,
		Subheading: req.Subheading,
		CTAText:    req.CTAText,
		CTALink:    req.CTALink,
		Media:      req.Media,
		Video:      req.Video,
	}
	if obj.Type == "" {
		obj.Type = TypeImage
	}
	if req.IsActive != nil {
		obj.IsActive = *req.IsActive
	}
	if err := h.Repository.Save(h.DB, &obj); err != nil {
		httpapi.Internal(w, "failed to create hero")
		return
	}
	obj.ResolveMedia(h.Origin)
	httpapi.JSON(w, http.StatusCreated, obj)
}

// Update handles PUT /hero/{id} (admin).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := heroID(w, r)
	if !ok {
		return
	}
	obj, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		httpapi.NotFound(w, "hero not found")
		return
	}

	var req heroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		httpapi.ValidationError(w, fields)
		return
	}

	if req.Type != "" {
		obj.Type = req.Type
	}
	obj.Heading = req.Heading
	obj.Subheading = req.Subheading
	obj.CTAText = req.CTAText
	obj.CTALink = req.CTALink
	obj.Media = req.Media
	obj.Video = req.Video
	if req.IsActive != nil {
		obj.IsActive = *req.IsActive
	}
	if err := h.Repository.Save(h.DB, obj); err != nil {
		httpapi.Internal(w, "failed to update hero")
		return
	}
	obj.ResolveMedia(h.Origin)
	httpapi.JSON(w, http.StatusOK, obj)
}

// Delete handles DELETE /hero/{id} (admin).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := heroID(w, r)
	if !ok {
		return
	}
	obj, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		httpapi.NotFound(w, "hero not found")
		return
	}
	if err := h.Repository.Delete(h.DB, obj); err != nil {
		httpapi.Internal(w, "failed to delete hero")
		return
	}
	httpapi.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// PublicCurrent handles GET /public/hero: the most recently updated active
// hero, 404 when none, feature_disabled when the CMS hero flag is off.
func (h *Handler) PublicCurrent(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Get(h.DB)
	if err != nil {
		httpapi.Internal(w, "failed to load cms settings")
		return
	}
	if !settings.HeroSection {
		httpapi.FeatureDisabled(w, "hero section is disabled")
		return
	}
	obj, err := h.Repository.FindCurrent(h.DB)
	if err != nil {
		httpapi.NotFound(w, "no active hero")
		return
	}
	obj.ResolveMedia(h.Origin)
	httpapi.JSON(w, http.StatusOK, obj)
}

func heroID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid id")
		return 0, false
	}
	return uint(id), true
}
