package app_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/todo/internal/access"
	"github.com/odyssey-erp/todo/internal/app"
	"github.com/odyssey-erp/todo/internal/roles"
	"github.com/odyssey-erp/todo/internal/token"
	"github.com/odyssey-erp/todo/internal/users"
)

var tokenOpts = token.Options{Secret: "0123456789abcdef0123456789abcdef", ExpirationMinutes: 5, Issuer: "todo-api"}

func captureClaims(t *testing.T, header string) access.Claims {
	t.Helper()
	verifier, err := token.NewVerifier(tokenOpts)
	require.NoError(t, err)

	var got access.Claims
	handler := app.Authenticate(verifier, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = access.ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
	return got
}

func TestAuthenticateAttachesClaims(t *testing.T) {
	issuer, err := token.NewIssuer(tokenOpts)
	require.NoError(t, err)
	user := &users.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", Roles: []roles.Role{{Name: "Admin"}}}
	signed, err := issuer.Issue(user)
	require.NoError(t, err)

	claims := captureClaims(t, "Bearer "+signed)

	subject, ok := claims.Subject()
	require.True(t, ok)
	assert.Equal(t, user.ID, subject)
	assert.True(t, claims.HasRole("Admin"))
}

func TestAuthenticateLeavesAnonymous(t *testing.T) {
	assert.Empty(t, captureClaims(t, ""))
	assert.Empty(t, captureClaims(t, "Bearer not-a-token"))
	assert.Empty(t, captureClaims(t, "Basic YWxpY2U6cHc="))
}
