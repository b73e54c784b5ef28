package middleware

import (
	"net/http"
	"strings"

	"github.com/medtrack/pharmacy-inventory/models"
	"github.com/medtrack/pharmacy-inventory/services/auth"
	"github.com/medtrack/pharmacy-inventory/utils"
	"go.uber.org/zap"
)

// AuthMiddleware validates bearer tokens and enforces role requirements
type AuthMiddleware struct {
	auth   *auth.Service
	logger *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authService *auth.Service, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		auth:   authService,
		logger: logger,
	}
}

// RequireAuth validates the Authorization header and stores the claims in
// the request context
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			_ = utils.WriteUnauthorized(w, "Missing bearer token")
			return
		}

		claims, err := m.auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			m.logger.Debug("rejected token", zap.Error(err))
			_ = utils.WriteUnauthorized(w, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireAdmin allows only admin users; it must run after RequireAuth
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaimsFromContext(r.Context())
		if claims == nil || claims.Role != models.RoleAdmin {
			_ = utils.WriteForbidden(w, "Admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
