package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dunecrest/realty-api/internal/httpapi"
)

// Roles recognised by the service. Role is fixed at creation except by
// explicit admin promotion.
const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

type ctxKey string

const (
	ctxUserID ctxKey = "userID"
	ctxRole   ctxKey = "role"
)

// UserID returns the authenticated user's id, or 0 when unauthenticated.
func UserID(r *http.Request) uint {
	id, _ := r.Context().Value(ctxUserID).(uint)
	return id
}

// Role returns the authenticated user's role, or "" when unauthenticated.
func Role(r *http.Request) string {
	role, _ := r.Context().Value(ctxRole).(string)
	return role
}

// IsAdmin reports whether the request carries an admin identity.
func IsAdmin(r *http.Request) bool {
	return Role(r) == RoleAdmin
}

// WithIdentity returns a request carrying the given identity. Test hook;
// production requests go through Authenticate.
func WithIdentity(r *http.Request, userID uint, role string) *http.Request {
	ctx := context.WithValue(r.Context(), ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxRole, role)
	return r.WithContext(ctx)
}

// Authenticate validates the bearer token and stores the caller's identity
// in the request context.
func (m *Manager) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			httpapi.Error(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		claims, err := m.ParseToken(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			httpapi.Error(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}
		next.ServeHTTP(w, WithIdentity(r, claims.UserID, claims.Role))
	})
}
