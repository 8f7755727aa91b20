package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("secret-one")

	token, err := m.GenerateToken(42, RoleAgent)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, RoleAgent, claims.Role)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := NewManager("secret-one").GenerateToken(1, RoleAdmin)
	require.NoError(t, err)

	_, err = NewManager("secret-two").ParseToken(token)
	assert.Error(t, err)
}

func TestTokenGarbageRejected(t *testing.T) {
	_, err := NewManager("secret").ParseToken("not.a.jwt")
	assert.Error(t, err)
}

func TestAuthenticateSetsIdentity(t *testing.T) {
	m := NewManager("secret")
	token, err := m.GenerateToken(7, RoleAdmin)
	require.NoError(t, err)

	var gotID uint
	var gotRole string
	h := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = UserID(r)
		gotRole = Role(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(7), gotID)
	assert.Equal(t, RoleAdmin, gotRole)
	assert.True(t, IsAdmin(req) == false, "identity lives on the derived request, not the original")
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	m := NewManager("secret")
	h := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRolePredicates(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	cases := []struct {
		name    string
		wrap    func(http.Handler) http.Handler
		role    string
		expects int
	}{
		{"admin route, admin caller", RequireAdmin, RoleAdmin, http.StatusNoContent},
		{"admin route, agent caller", RequireAdmin, RoleAgent, http.StatusForbidden},
		{"agent route, agent caller", RequireAgent, RoleAgent, http.StatusNoContent},
		{"agent route, admin caller", RequireAgent, RoleAdmin, http.StatusForbidden},
		{"staff route, admin caller", RequireStaff, RoleAdmin, http.StatusNoContent},
		{"staff route, agent caller", RequireStaff, RoleAgent, http.StatusNoContent},
		{"staff route, anonymous", RequireStaff, "", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.role != "" {
				req = WithIdentity(req, 1, tc.role)
			}
			rec := httptest.NewRecorder()
			tc.wrap(ok).ServeHTTP(rec, req)
			assert.Equal(t, tc.expects, rec.Code)
		})
	}
}
