// ABOUTME: Caller identity carried from the HTTP middleware into tool handlers
// ABOUTME: Scopes mirror the access token granted to the MCP client

package auth

import (
	"context"
)

// ScopeAll grants every tool.
const ScopeAll = "*"

// AuthContext holds the authenticated identity information extracted from a request.
type AuthContext struct {
	PrincipalID string
	Scopes      []string
}

// HasScope reports whether the principal holds scope or ScopeAll.
func (a *AuthContext) HasScope(scope string) bool {
	for _, s := range a.Scopes {
		if s == ScopeAll || s == scope {
			return true
		}
	}
	return false
}

type authContextKey struct{}

// WithAuth attaches the caller identity to ctx.
func WithAuth(ctx context.Context, a *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, a)
}

// FromContext returns the caller identity, or nil for unauthenticated requests.
func FromContext(ctx context.Context) *AuthContext {
	a, _ := ctx.Value(authContextKey{}).(*AuthContext)
	return a
}
