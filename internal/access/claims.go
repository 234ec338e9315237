package access

import (
	"context"

	"github.com/google/uuid"
)

// Claim types written by the token issuer and read back by the evaluator.
const (
	ClaimName    = "name"
	ClaimEmail   = "email"
	ClaimSubject = "nameidentifier"
	ClaimRole    = "role"
)

// Claim is a single fact about the authenticated caller.
type Claim struct {
	Type  string
	Value string
}

// Claims is the ordered claim set of a caller. An empty set means the caller
// is anonymous.
type Claims []Claim

// First returns the value of the first claim of the given type.
func (c Claims) First(claimType string) (string, bool) {
	for _, claim := range c {
		if claim.Type == claimType {
			return claim.Value, true
		}
	}
	return "", false
}

// Values returns every value of the given type in order.
func (c Claims) Values(claimType string) []string {
	var out []string
	for _, claim := range c {
		if claim.Type == claimType {
			out = append(out, claim.Value)
		}
	}
	return out
}

// Subject parses the subject identifier claim.
func (c Claims) Subject() (uuid.UUID, bool) {
	raw, ok := c.First(ClaimSubject)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// HasRole reports whether a role claim equals name exactly.
func (c Claims) HasRole(name string) bool {
	for _, claim := range c {
		if claim.Type == ClaimRole && claim.Value == name {
			return true
		}
	}
	return false
}

type claimsContextKey struct{}

// ContextWithClaims stores verified claims on a request context. Only the
// HTTP authentication middleware should call this.
func ContextWithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext returns the claims attached by the authentication
// middleware, or nil for anonymous requests.
func ClaimsFromContext(ctx context.Context) Claims {
	claims, _ := ctx.Value(claimsContextKey{}).(Claims)
	return claims
}
