package middleware

import (
	"context"

	"github.com/medtrack/pharmacy-inventory/services/auth"
)

// Context key type to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for token claims
	ClaimsKey contextKey = "claims"
)

// GetClaimsFromContext retrieves token claims from context
func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if val := ctx.Value(ClaimsKey); val != nil {
		if claims, ok := val.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// WithClaims adds token claims to the context
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}
