package auth

import (
	"net/http"

	"github.com/dunecrest/realty-api/internal/httpapi"
)

// The access-control layer is a handful of composable predicates. Each is
// side-effect free and runs before the guarded handler, so no mutation is
// attempted on a request that fails its gate. All of them assume
// Authenticate already ran.

// RequireAdmin admits only role=admin. Agents are explicitly excluded even
// though they are staff.
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(next, RoleAdmin)
}

// RequireAgent admits only role=agent.
func RequireAgent(next http.Handler) http.Handler {
	return requireRole(next, RoleAgent)
}

// RequireStaff admits role=admin or role=agent.
func RequireStaff(next http.Handler) http.Handler {
	return requireRole(next, RoleAdmin, RoleAgent)
}

func requireRole(next http.Handler, roles ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := Role(r)
		for _, want := range roles {
			if role == want {
				next.ServeHTTP(w, r)
				return
			}
		}
		httpapi.Forbidden(w, "insufficient role")
	})
}

// SelfOrAdmin is the object-level predicate: the caller must be an admin or
// be exactly the owner of the target resource.
func SelfOrAdmin(r *http.Request, ownerID uint) bool {
	return IsAdmin(r) || (UserID(r) != 0 && UserID(r) == ownerID)
}
