package token_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/todo/internal/access"
	"github.com/odyssey-erp/todo/internal/roles"
	"github.com/odyssey-erp/todo/internal/token"
	"github.com/odyssey-erp/todo/internal/users"
)

const secret = "0123456789abcdef0123456789abcdef"

var opts = token.Options{Secret: secret, ExpirationMinutes: 30, Issuer: "todo-api", Audience: "todo-clients"}

func sampleUser(roleNames ...string) *users.User {
	u := &users.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	for _, name := range roleNames {
		u.Roles = append(u.Roles, roles.Role{ID: uuid.New(), Name: name})
	}
	return u
}

func decodePayload(t *testing.T, raw string) map[string]any {
	t.Helper()
	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	body, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload
}

func TestIssueEmbedsIdentityAndRoles(t *testing.T) {
	u := sampleUser("Admin", "Client")
	raw, err := token.Issue(u, opts.Secret, opts.ExpirationMinutes, opts.Issuer, opts.Audience)
	require.NoError(t, err)

	payload := decodePayload(t, raw)
	assert.Equal(t, "alice", payload["name"])
	assert.Equal(t, "alice@example.com", payload["email"])
	assert.Equal(t, u.ID.String(), payload["nameidentifier"])
	assert.Equal(t, []any{"Admin", "Client"}, payload["role"])
	assert.Equal(t, "todo-api", payload["iss"])
	assert.Contains(t, payload, "exp")

	exp := payload["exp"].(float64)
	iat := payload["iat"].(float64)
	assert.InDelta(t, 30*60, exp-iat, 1)
}

func TestIssueWithoutRoles(t *testing.T) {
	raw, err := token.Issue(sampleUser(), secret, 5, "", "")
	require.NoError(t, err)

	payload := decodePayload(t, raw)
	assert.NotContains(t, payload, "role")
}

func TestIssueRequiresSecret(t *testing.T) {
	_, err := token.Issue(sampleUser(), "", 5, "", "")
	assert.ErrorIs(t, err, token.ErrEmptySecret)
}

func TestVerifierRoundTrip(t *testing.T) {
	u := sampleUser("Admin")
	issuer, err := token.NewIssuer(opts)
	require.NoError(t, err)
	raw, err := issuer.Issue(u)
	require.NoError(t, err)

	verifier, err := token.NewVerifier(opts)
	require.NoError(t, err)
	claims, err := verifier.Parse(raw)
	require.NoError(t, err)

	subject, ok := claims.Subject()
	require.True(t, ok)
	assert.Equal(t, u.ID, subject)
	assert.True(t, claims.HasRole("Admin"))
	name, _ := claims.First(access.ClaimName)
	assert.Equal(t, "alice", name)
}

func TestVerifierRejects(t *testing.T) {
	verifier, err := token.NewVerifier(opts)
	require.NoError(t, err)

	wrongKey, err := token.Issue(sampleUser(), "another-secret-another-secret-xx", 5, opts.Issuer, opts.Audience)
	require.NoError(t, err)
	expired, err := token.Issue(sampleUser(), secret, -1, opts.Issuer, opts.Audience)
	require.NoError(t, err)
	wrongAudience, err := token.Issue(sampleUser(), secret, 5, opts.Issuer, "elsewhere")
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"wrong key":      wrongKey,
		"expired":        expired,
		"wrong audience": wrongAudience,
		"garbage":        "not.a.jwt",
	} {
		_, err := verifier.Parse(raw)
		assert.ErrorIs(t, err, token.ErrInvalidToken, name)
	}
}
