package lead

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/dunecrest/realty-api/internal/auth"
	"github.com/dunecrest/realty-api/internal/cms"
	"github.com/dunecrest/realty-api/internal/httpapi"
	"github.com/dunecrest/realty-api/internal/user"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Business-rule violations of the pipeline.
var (
	ErrForbiddenTransition = errors.New("transition not allowed for agents")
	ErrInvalidAssignment   = errors.New("assignee must be an agent")
	ErrNotOwner            = errors.New("lead is not assigned to this agent")
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Users      user.Repository
	Settings   cms.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Users:      user.NewRepository(),
		Settings:   cms.NewRepository(),
	}
}

type submitRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	SourcePage    string `json:"sourcePage"`
	TrafficSource string `json:"trafficSource"`
	UTMSource     string `json:"utmSource"`
	UTMMedium     string `json:"utmMedium"`
	UTMCampaign   string `json:"utmCampaign"`
}

func (req *submitRequest) validate() map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "name is required"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		fields["email"] = "invalid email address"
	}
	return fields
}

func (req *submitRequest) toLead() Lead {
	source := strings.TrimSpace(req.TrafficSource)
	if source == "" {
		source = DefaultTrafficSource
	}
	return Lead{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         req.Phone,
		SourcePage:    req.SourcePage,
		TrafficSource: source,
		UTMSource:     req.UTMSource,
		UTMMedium:     req.UTMMedium,
		UTMCampaign:   req.UTMCampaign,
		Status:        StatusNew,
	}
}

// PublicSubmit handles POST /public/leads: the website inquiry form. Gated
// by the CMS lead-form flag, open otherwise.
func (h *Handler) PublicSubmit(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Get(h.DB)
	if err != nil {
		httpapi.Internal(w, "failed to load cms settings")
		return
	}
	if !settings.LeadFormSection {
		httpapi.FeatureDisabled(w, "lead form is disabled")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		httpapi.ValidationError(w, fields)
		return
	}

	l := req.toLead()
	if err := h.Repository.Save(h.DB, &l); err != nil {
		httpapi.Internal(w, "failed to save lead")
		return
	}
	httpapi.JSON(w, http.StatusCreated, l)
}

// Create handles POST /leads (admin only; agents cannot create leads).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		httpapi.ValidationError(w, fields)
		return
	}
	l := req.toLead()
	if err := h.Repository.Save(h.DB, &l); err != nil {
		httpapi.Internal(w, "failed to save lead")
		return
	}
	httpapi.JSON(w, http.StatusCreated, l)
}

// List handles GET /leads (admin) with the full filter set.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filters{
		Status:        q.Get("status"),
		TrafficSource: q.Get("traffic_source"),
		UTMCampaign:   q.Get("utm_campaign"),
		SourcePage:    q.Get("source_page"),
		Search:        q.Get("search"),
	}
	if agent := q.Get("agent"); agent != "" {
		id, err := strconv.Atoi(agent)
		if err != nil || id <= 0 {
			httpapi.ValidationError(w, map[string]string{"agent": "invalid agent id"})
			return
		}
		f.AgentID = uint(id)
	}
	if f.Status != "" && !ValidStatus(f.Status) {
		httpapi.ValidationError(w, map[string]string{"status": "unknown status"})
		return
	}

	leads, err := h.Repository.List(h.DB, f)
	if err != nil {
		httpapi.Internal(w, "failed to list leads")
		return
	}
	httpapi.JSON(w, http.StatusOK, leads)
}

// AgentList handles GET /agent/leads: only the caller's assigned leads,
// with status and free-text filters.
func (h *Handler) AgentList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	agentID := auth.UserID(r)
	f := Filters{
		Status:     q.Get("status"),
		Search:     q.Get("search"),
		AssignedTo: &agentID,
	}
	if f.Status != "" && !ValidStatus(f.Status) {
		httpapi.ValidationError(w, map[string]string{"status": "unknown status"})
		return
	}

	leads, err := h.Repository.List(h.DB, f)
	if err != nil {
		httpapi.Internal(w, "failed to list leads")
		return
	}
	httpapi.JSON(w, http.StatusOK, leads)
}

// Get handles GET /leads/{id} and GET /agent/leads/{id}. Agents only see
// leads assigned to them.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	l, ok := h.loadForActor(w, r)
	if !ok {
		return
	}
	httpapi.JSON(w, http.StatusOK, l)
}

type updateLeadRequest struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	SourcePage    *string `json:"sourcePage"`
	TrafficSource *string `json:"trafficSource"`
	UTMSource     *string `json:"utmSource"`
	UTMMedium     *string `json:"utmMedium"`
	UTMCampaign   *string `json:"utmCampaign"`
}

// Update handles PUT /leads/{id} (admin): contact and attribution fields.
// Status moves through the PATCH endpoint, assignment through /assign.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}
	l, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		httpapi.NotFound(w, "lead not found")
		return
	}

	var req updateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			httpapi.ValidationError(w, map[string]string{"name": "name is required"})
			return
		}
		l.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			httpapi.ValidationError(w, map[string]string{"email": "invalid email address"})
			return
		}
		l.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		l.Phone = *req.Phone
	}
	if req.SourcePage != nil {
		l.SourcePage = *req.SourcePage
	}
	if req.TrafficSource != nil && strings.TrimSpace(*req.TrafficSource) != "" {
		l.TrafficSource = strings.TrimSpace(*req.TrafficSource)
	}
	if req.UTMSource != nil {
		l.UTMSource = *req.UTMSource
	}
	if req.UTMMedium != nil {
		l.UTMMedium = *req.UTMMedium
	}
	if req.UTMCampaign != nil {
		l.UTMCampaign = *req.UTMCampaign
	}

	if err := h.Repository.Save(h.DB, l); err != nil {
		httpapi.Internal(w, "failed to update lead")
		return
	}
	httpapi.JSON(w, http.StatusOK, l)
}

// Delete handles DELETE /leads/{id} (admin only).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}
	l, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		httpapi.NotFound(w, "lead not found")
		return
	}
	if err := h.Repository.Delete(h.DB, l); err != nil {
		httpapi.Internal(w, "failed to delete lead")
		return
	}
	httpapi.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type assignRequest struct {
	AgentID uint `json:"agentId"`
}

// Assign handles POST /leads/{id}/assign (admin). The target must hold the
// agent role; that invariant is what keeps assigned_agent references sane.
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	l, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		httpapi.NotFound(w, "lead not found")
		return
	}

	if req.AgentID == 0 {
		// Explicit unassignment back to the pool.
		l.AssignedAgentID = nil
	} else {
		target, err := h.Users.FindByID(h.DB, req.AgentID)
		if err != nil {
			httpapi.NotFound(w, "agent not found")
			return
		}
		if !target.IsAgent() {
			httpapi.Error(w, http.StatusBadRequest, "invalid_assignment", ErrInvalidAssignment.Error())
			return
		}
		l.AssignedAgentID = &target.ID
	}

	if err := h.Repository.Save(h.DB, l); err != nil {
		httpapi.Internal(w, "failed to assign lead")
		return
	}
	httpapi.JSON(w, http.StatusOK, l)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /leads/{id}/status and
// PATCH /agent/leads/{id}/status. Admins move leads freely; agents follow
// the fixed transition table and can never close a lead either way. The
// check runs against the current row inside a transaction, so two racing
// updates cannot both pass the guard.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if !ValidStatus(req.Status) {
		httpapi.ValidationError(w, map[string]string{"status": "unknown status"})
		return
	}

	actorID := auth.UserID(r)
	isAdmin := auth.IsAdmin(r)

	var updated *Lead
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		l, err := h.Repository.FindByID(tx, id)
		if err != nil {
			return err
		}
		if !isAdmin {
			if l.AssignedAgentID == nil || *l.AssignedAgentID != actorID {
				return ErrNotOwner
			}
			if !AgentCanTransition(l.Status, req.Status) {
				return ErrForbiddenTransition
			}
		}

		previous := l.Status
		if previous == req.Status {
			updated = l
			return nil
		}

		l.Status = req.Status
		if err := h.Repository.Save(tx, l); err != nil {
			return err
		}
		note := Note{
			LeadID: l.ID,
			Note:   fmt.Sprintf("Status changed from %s to %s", previous, req.Status),
		}
		if err := h.Repository.AddNote(tx, &note); err != nil {
			return err
		}
		l.Notes = append(l.Notes, note)
		updated = l
		return nil
	})

	switch {
	case err == nil:
		httpapi.JSON(w, http.StatusOK, updated)
	case errors.Is(err, ErrForbiddenTransition):
		httpapi.Error(w, http.StatusForbidden, "forbidden_transition", err.Error())
	case errors.Is(err, ErrNotOwner):
		httpapi.Forbidden(w, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		httpapi.NotFound(w, "lead not found")
	default:
		httpapi.Internal(w, "failed to update status")
	}
}

type noteRequest struct {
	Note string `json:"note"`
}

// AddNote handles POST /leads/{id}/notes and POST /agent/leads/{id}/notes.
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	l, ok := h.loadForActor(w, r)
	if !ok {
		return
	}
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Note) == "" {
		httpapi.ValidationError(w, map[string]string{"note": "note is required"})
		return
	}

	actorID := auth.UserID(r)
	note := Note{LeadID: l.ID, UserID: &actorID, Note: req.Note}
	if err := h.Repository.AddNote(h.DB, &note); err != nil {
		httpapi.Internal(w, "failed to save note")
		return
	}
	httpapi.JSON(w, http.StatusCreated, note)
}

// ListNotes handles GET /leads/{id}/notes and GET /agent/leads/{id}/notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	l, ok := h.loadForActor(w, r)
	if !ok {
		return
	}
	notes, err := h.Repository.ListNotes(h.DB, l.ID)
	if err != nil {
		httpapi.Internal(w, "failed to list notes")
		return
	}
	httpapi.JSON(w, http.StatusOK, notes)
}

// loadForActor fetches the lead and enforces object-level visibility:
// admins see everything, agents only their own assignments.
func (h *Handler) loadForActor(w http.ResponseWriter, r *http.Request) (*Lead, bool) {
	id, ok := leadID(w, r)
	if !ok {
		return nil, false
	}
	l, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		httpapi.NotFound(w, "lead not found")
		return nil, false
	}
	if !auth.IsAdmin(r) {
		actorID := auth.UserID(r)
		if l.AssignedAgentID == nil || *l.AssignedAgentID != actorID {
			httpapi.Forbidden(w, ErrNotOwner.Error())
			return nil, false
		}
	}
	return l, true
}

func leadID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid id")
		return 0, false
	}
	return uint(id), true
}
