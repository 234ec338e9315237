package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/odyssey-erp/todo/internal/access"
)

// ErrInvalidToken wraps every verification failure.
var ErrInvalidToken = errors.New("token: invalid")

// Verifier checks bearer tokens and turns them into caller claims.
type Verifier struct {
	key    []byte
	parser *jwt.Parser
}

// NewVerifier builds a Verifier accepting only HS256 tokens signed with the
// configured secret and, when set, matching issuer and audience.
func NewVerifier(opts Options) (*Verifier, error) {
	if opts.Secret == "" {
		return nil, ErrEmptySecret
	}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}
	return &Verifier{key: []byte(opts.Secret), parser: jwt.NewParser(parserOpts...)}, nil
}

// Parse verifies raw and returns its claims in issue order: name, email,
// subject identifier, then one role claim per role.
func (v *Verifier) Parse(raw string) (access.Claims, error) {
	claims := &Claims{}
	tok, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}

	out := access.Claims{
		{Type: access.ClaimName, Value: claims.Name},
		{Type: access.ClaimEmail, Value: claims.Email},
		{Type: access.ClaimSubject, Value: claims.NameIdentifier},
	}
	for _, role := range claims.Roles {
		out = append(out, access.Claim{Type: access.ClaimRole, Value: role})
	}
	return out, nil
}
