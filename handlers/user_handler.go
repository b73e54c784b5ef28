package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medtrack/pharmacy-inventory/models"
	"github.com/medtrack/pharmacy-inventory/services/users"
	"github.com/medtrack/pharmacy-inventory/utils"
	"go.uber.org/zap"
)

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Username string          `json:"username" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Role     models.UserRole `json:"role" validate:"required,oneof=admin pharmacist staff"`
	Name     string          `json:"name,omitempty"`
}

// UpdateUserRequest represents a partial user update
type UpdateUserRequest struct {
	Username *string          `json:"username,omitempty"`
	Email    *string          `json:"email,omitempty" validate:"omitempty,email"`
	Role     *models.UserRole `json:"role,omitempty" validate:"omitempty,oneof=admin pharmacist staff"`
	Name     *string          `json:"name,omitempty"`
}

// UserHandler handles user-management HTTP requests
type UserHandler struct {
	users  *users.Service
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *users.Service, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  userService,
		logger: logger,
	}
}

// HandleList handles GET /api/v1/users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, h.users.GetAll())
}

// HandleGet handles GET /api/v1/users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, found := h.users.GetByID(id)
	if !found {
		_ = utils.WriteNotFound(w, "User not found")
		return
	}
	_ = utils.WriteOK(w, user)
}

// HandleCreate handles POST /api/v1/users
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Create(r.Context(), models.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
		Name:     req.Name,
	})
	if err != nil {
		h.logger.Error("failed to persist user", zap.Error(err))
		writePersistenceError(w, err, "Failed to persist user")
		return
	}
	_ = utils.WriteCreated(w, user)
}

// HandleUpdate handles PUT /api/v1/users/{id}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, found, err := h.users.Update(r.Context(), id, users.Patch{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
		Name:     req.Name,
	})
	if !found {
		_ = utils.WriteNotFound(w, "User not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to persist user", zap.String("id", id), zap.Error(err))
		writePersistenceError(w, err, "Failed to persist user")
		return
	}
	_ = utils.WriteOK(w, user)
}

// HandleDelete handles DELETE /api/v1/users/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := h.users.Delete(r.Context(), id)
	if !removed {
		_ = utils.WriteNotFound(w, "User not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to persist deletion", zap.String("id", id), zap.Error(err))
		writePersistenceError(w, err, "Failed to persist deletion")
		return
	}
	utils.WriteNoContent(w)
}
