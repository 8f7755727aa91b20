package user

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/dunecrest/realty-api/internal/auth"
	"github.com/dunecrest/realty-api/internal/cms"
	"github.com/dunecrest/realty-api/internal/httpapi"
	"github.com/dunecrest/realty-api/internal/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Handler serves login/register/profile plus the user and agent CRUD.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Tokens     *auth.Manager
	Settings   cms.Repository
	Origin     string
}

func NewHandler(db *gorm.DB, tokens *auth.Manager, origin string) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Tokens:     tokens,
		Settings:   cms.NewRepository(),
		Origin:     origin,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login issues a JWT for valid credentials. Invalid credentials are a 400,
// matching what the frontend expects.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	u, err := h.Repository.FindByEmail(h.DB, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || !utils.CheckPassword(u.PasswordHash, req.Password) {
		httpapi.Error(w, http.StatusBadRequest, "invalid_credentials", "invalid credentials")
		return
	}
	if u.Status != StatusActive {
		httpapi.Error(w, http.StatusBadRequest, "invalid_credentials", "account is inactive")
		return
	}

	token, err := h.Tokens.GenerateToken(u.ID, u.Role)
	if err != nil {
		httpapi.Internal(w, "failed to generate token")
		return
	}
	httpapi.JSON(w, http.StatusOK, LoginResponse{User: toAccountDTO(u), Token: token})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new agent account. Admin accounts are only created by
// an existing admin through the users CRUD or by promotion.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if fields := validateAccount(req.Name, req.Email, req.Password); len(fields) > 0 {
		httpapi.ValidationError(w, fields)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		httpapi.Internal(w, "failed to process password")
		return
	}
	u := User{
		Name:           req.Name,
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:   hash,
		Role:           auth.RoleAgent,
		Status:         StatusActive,
		ProfileVisible: true,
	}
	if err := h.Repository.Save(h.DB, &u); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "email already registered")
		return
	}

	token, err := h.Tokens.GenerateToken(u.ID, u.Role)
	if err != nil {
		httpapi.Internal(w, "failed to generate token")
		return
	}
	httpapi.JSON(w, http.StatusCreated, LoginResponse{User: toAccountDTO(&u), Token: token})
}

// Profile returns the logged-in user.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.Repository.FindByID(h.DB, auth.UserID(r))
	if err != nil {
		httpapi.NotFound(w, "user not found")
		return
	}
	httpapi.JSON(w, http.StatusOK, map[string]AccountDTO{"user": toAccountDTO(u)})
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Title *string `json:"title"`
	Phone *string `json:"phone"`
	Bio   *string `json:"bio"`
	Photo *string `json:"photo"`
}

// UpdateProfile lets staff edit their own profile fields. Role, status and
// email stay admin-controlled.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.Repository.FindByID(h.DB, auth.UserID(r))
	if err != nil {
		httpapi.NotFound(w, "user not found")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	applyProfile(u, req)

	if err := h.Repository.Save(h.DB, u); err != nil {
		httpapi.Internal(w, "failed to update profile")
		return
	}
	httpapi.JSON(w, http.StatusOK, u)
}

// ListUsers handles GET /users (admin only).
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var (
		users []User
		err   error
	)
	if role := r.URL.Query().Get("role"); role != "" {
		users, err = h.Repository.ListByRole(h.DB, role)
	} else {
		users, err = h.Repository.ListAll(h.DB)
	}
	if err != nil {
		httpapi.Internal(w, "failed to list users")
		return
	}
	httpapi.JSON(w, http.StatusOK, users)
}

type createUserRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	Title          string `json:"title"`
	Phone          string `json:"phone"`
	Bio            string `json:"bio"`
	Photo          string `json:"photo"`
	ProfileVisible *bool  `json:"profileVisible"`
}

// CreateUser handles POST /users (admin only).
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	h.createAccount(w, r, "")
}

// CreateAgent handles POST /agents (admin only); the role is forced to
// agent whatever the payload says.
func (h *Handler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	h.createAccount(w, r, auth.RoleAgent)
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request, forceRole string) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if fields := validateAccount(req.Name, req.Email, req.Password); len(fields) > 0 {
		httpapi.ValidationError(w, fields)
		return
	}

	role := req.Role
	if forceRole != "" {
		role = forceRole
	}
	if role == "" {
		role = auth.RoleAgent
	}
	if role != auth.RoleAdmin && role != auth.RoleAgent {
		httpapi.ValidationError(w, map[string]string{"role": "must be admin or agent"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		httpapi.Internal(w, "failed to process password")
		return
	}
	visible := true
	if req.ProfileVisible != nil {
		visible = *req.ProfileVisible
	}
	u := User{
		Name:           req.Name,
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:   hash,
		Role:           role,
		Status:         StatusActive,
		ProfileVisible: visible,
		Title:          req.Title,
		Phone:          req.Phone,
		Bio:            req.Bio,
		Photo:          req.Photo,
	}
	if err := h.Repository.Save(h.DB, &u); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "email already registered")
		return
	}
	httpapi.JSON(w, http.StatusCreated, u)
}

// GetUser handles GET /users/{id}: admins see anyone, agents only
// themselves.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !auth.SelfOrAdmin(r, id) {
		httpapi.Forbidden(w, "not your account")
		return
	}
	u, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		httpapi.NotFound(w, "user not found")
		return
	}
	httpapi.JSON(w, http.StatusOK, u)
}

type updateUserRequest struct {
	updateProfileRequest
	Email          *string `json:"email"`
	Status         *string `json:"status"`
	ProfileVisible *bool   `json:"profileVisible"`
	Password       *string `json:"password"`
}

// UpdateUser handles PUT /users/{id} (self or admin). Email, status and
// visibility changes are admin only.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !auth.SelfOrAdmin(r, id) {
		httpapi.Forbidden(w, "not your account")
		return
	}
	u, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		httpapi.NotFound(w, "user not found")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	applyProfile(u, req.updateProfileRequest)

	if auth.IsAdmin(r) {
		if req.Email != nil {
			if _, err := mail.ParseAddress(*req.Email); err != nil {
				httpapi.ValidationError(w, map[string]string{"email": "invalid email address"})
				return
			}
			u.Email = strings.ToLower(strings.TrimSpace(*req.Email))
		}
		if req.Status != nil {
			if *req.Status != StatusActive && *req.Status != StatusInactive {
				httpapi.ValidationError(w, map[string]string{"status": "must be active or inactive"})
				return
			}
			u.Status = *req.Status
		}
		if req.ProfileVisible != nil {
			u.ProfileVisible = *req.ProfileVisible
		}
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			httpapi.ValidationError(w, map[string]string{"password": "must be at least 8 characters"})
			return
		}
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			httpapi.Internal(w, "failed to process password")
			return
		}
		u.PasswordHash = hash
	}

	if err := h.Repository.Save(h.DB, u); err != nil {
		httpapi.Internal(w, "failed to update user")
		return
	}
	httpapi.JSON(w, http.StatusOK, u)
}

// DeleteUser handles DELETE /users/{id} (admin only). Agents are never
// hard-deleted: the account is deactivated and their leads are released
// back to the unassigned pool.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		httpapi.NotFound(w, "user not found")
		return
	}

	if u.IsAgent() {
		u.Deactivate()
		err = h.DB.Transaction(func(tx *gorm.DB) error {
			if err := h.Repository.Save(tx, u); err != nil {
				return err
			}
			return tx.Table("leads").
				Where("assigned_agent_id = ?", u.ID).
				Update("assigned_agent_id", nil).Error
		})
	} else {
		err = h.Repository.Delete(h.DB, u)
	}
	if err != nil {
		httpapi.Internal(w, "failed to delete user")
		return
	}
	httpapi.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Promote handles POST /users/{id}/promote (admin only): the one way a
// role changes after creation.
func (h *Handler) Promote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		httpapi.NotFound(w, "user not found")
		return
	}
	u.Role = auth.RoleAdmin
	if err := h.Repository.Save(h.DB, u); err != nil {
		httpapi.Internal(w, "failed to promote user")
		return
	}
	httpapi.JSON(w, http.StatusOK, u)
}

// ListAgents handles GET /agents (admin view of agent accounts).
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	users, err := h.Repository.ListByRole(h.DB, auth.RoleAgent)
	if err != nil {
		httpapi.Internal(w, "failed to list agents")
		return
	}
	httpapi.JSON(w, http.StatusOK, users)
}

// PublicAgents handles GET /public/agents: visible active agents, gated by
// the CMS agents flag.
func (h *Handler) PublicAgents(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Get(h.DB)
	if err != nil {
		httpapi.Internal(w, "failed to load cms settings")
		return
	}
	if !settings.AgentsSection {
		httpapi.JSON(w, http.StatusOK, []PublicAgentDTO{})
		return
	}
	users, err := h.Repository.ListPublicAgents(h.DB)
	if err != nil {
		httpapi.Internal(w, "failed to list agents")
		return
	}
	httpapi.JSON(w, http.StatusOK, toPublicAgentDTOs(users, h.Origin))
}

func applyProfile(u *User, req updateProfileRequest) {
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Title != nil {
		u.Title = *req.Title
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.Photo != nil {
		u.Photo = *req.Photo
	}
}

func validateAccount(name, email, password string) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(name) == "" {
		fields["name"] = "name is required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "invalid email address"
	}
	if len(password) < 8 {
		fields["password"] = "must be at least 8 characters"
	}
	return fields
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		httpapi.Error(w, http.StatusBadRequest, "bad_request", "invalid id")
		return 0, false
	}
	return uint(id), true
}
