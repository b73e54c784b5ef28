package handlers

import (
	"net/http"

	"github.com/medtrack/pharmacy-inventory/services"
	"github.com/medtrack/pharmacy-inventory/services/auth"
	"github.com/medtrack/pharmacy-inventory/utils"
	"go.uber.org/zap"
)

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the session user and its token
type LoginResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// AuthHandler handles login and logout
type AuthHandler struct {
	auth   *auth.Service
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		logger: logger,
	}
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if services.IsUnauthorizedError(err) {
			_ = utils.WriteUnauthorized(w, "Invalid credentials")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		_ = utils.WriteInternalError(w, "Login failed")
		return
	}

	_ = utils.WriteOK(w, LoginResponse{Token: token, User: user})
}

// HandleLogout handles POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout()
	utils.WriteNoContent(w)
}
