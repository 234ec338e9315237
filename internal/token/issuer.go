// Package token mints and verifies the signed bearer tokens handed out on
// registration and login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/odyssey-erp/todo/internal/users"
)

// Claims is the JWT body. Roles serialize as a "role" array, one entry per
// role the user holds.
type Claims struct {
	jwt.RegisteredClaims
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	NameIdentifier string   `json:"nameidentifier"`
	Roles          []string `json:"role,omitempty"`
}

// Options configures token issuance and verification.
type Options struct {
	Secret            string
	ExpirationMinutes int
	Issuer            string
	Audience          string
}

// ErrEmptySecret is returned when no signing secret is configured.
var ErrEmptySecret = errors.New("token: signing secret is empty")

// Issuer signs tokens with HMAC-SHA-256.
type Issuer struct {
	key      []byte
	ttl      time.Duration
	issuer   string
	audience string
	now      func() time.Time
}

// NewIssuer builds an Issuer from opts.
func NewIssuer(opts Options) (*Issuer, error) {
	if opts.Secret == "" {
		return nil, ErrEmptySecret
	}
	return &Issuer{
		key:      []byte(opts.Secret),
		ttl:      time.Duration(opts.ExpirationMinutes) * time.Minute,
		issuer:   opts.Issuer,
		audience: opts.Audience,
		now:      time.Now,
	}, nil
}

// Issue is a one-shot helper equivalent to NewIssuer followed by Issue.
func Issue(user *users.User, secret string, expirationMinutes int, issuer, audience string) (string, error) {
	iss, err := NewIssuer(Options{Secret: secret, ExpirationMinutes: expirationMinutes, Issuer: issuer, Audience: audience})
	if err != nil {
		return "", err
	}
	return iss.Issue(user)
}

// Issue returns a signed token for user expiring after the configured
// number of minutes.
func (i *Issuer) Issue(user *users.User) (string, error) {
	if user == nil {
		return "", errors.New("token: nil user")
	}
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Name:           user.Username,
		Email:          user.Email,
		NameIdentifier: user.ID.String(),
		Roles:          user.RoleNames(),
	}
	if i.audience != "" {
		claims.Audience = jwt.ClaimStrings{i.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}
