// Package auth implements the mock authentication collaborator: a
// fixed-delay credential check that accepts any non-empty username and
// password, issues a signed token and holds the current session. It supplies
// the actor context the audit trail stamps onto events.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/medtrack/pharmacy-inventory/internal/watch"
	"github.com/medtrack/pharmacy-inventory/models"
	"github.com/medtrack/pharmacy-inventory/services"
	"github.com/medtrack/pharmacy-inventory/services/audit"
	"go.uber.org/zap"
)

// Claims are the token claims issued at login
type Claims struct {
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Config holds authentication configuration
type Config struct {
	TokenSecret []byte
	TokenTTL    time.Duration
	LoginDelay  time.Duration // simulated credential-check latency
}

// Service performs the mock credential check and tracks the current session
type Service struct {
	cfg     Config
	logger  *zap.Logger
	session *watch.Subject[*models.User]
}

// NewService creates an auth service with no active session
func NewService(cfg Config, logger *zap.Logger) *Service {
	return &Service{
		cfg:     cfg,
		logger:  logger,
		session: watch.NewSubject[*models.User](nil),
	}
}

// Login checks the credentials after the configured delay. Any non-empty
// pair is accepted; the username "admin" gets the admin role, everyone else
// staff. Returns the session user and a signed token.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	select {
	case <-time.After(s.cfg.LoginDelay):
	case <-ctx.Done():
		return nil, "", ctx.Err()
	}

	if username == "" || password == "" {
		return nil, "", services.ErrInvalidCredentials
	}

	role := models.RoleStaff
	if strings.EqualFold(username, "admin") {
		role = models.RoleAdmin
	}
	user := &models.User{
		ID:       "1",
		Username: username,
		Email:    username + "@pharmacy.com",
		Role:     role,
		Name:     username,
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", services.NewDomainError(services.ErrorTypeInternal, "failed to sign token", err)
	}

	s.session.Set(user)
	s.logger.Info("user logged in",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))
	return user, token, nil
}

// Logout clears the current session
func (s *Service) Logout() {
	if user := s.session.Value(); user != nil {
		s.logger.Info("user logged out", zap.String("username", user.Username))
	}
	s.session.Set(nil)
}

// CurrentUser returns the authenticated session user, or nil
func (s *Service) CurrentUser() *models.User {
	return s.session.Value()
}

// Watch returns a live channel over the session state
func (s *Service) Watch(ctx context.Context) <-chan *models.User {
	return s.session.Subscribe(ctx)
}

// CurrentActor implements audit.ActorProvider
func (s *Service) CurrentActor() (audit.Actor, bool) {
	user := s.session.Value()
	if user == nil {
		return audit.Actor{}, false
	}
	return audit.Actor{ID: user.ID, Username: user.Username}, true
}

// ParseToken validates a token and returns its claims
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, services.ErrInvalidToken
		}
		return s.cfg.TokenSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, services.ErrTokenExpired
		}
		return nil, services.NewDomainError(services.ErrorTypeUnauthorized, "invalid authentication token", err)
	}
	if !token.Valid {
		return nil, services.ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.TokenSecret)
}
