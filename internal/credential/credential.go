// Package credential derives and verifies salted password hashes.
//
// Hashes are PBKDF2 with HMAC-SHA-512, 100,000 iterations and a 256-bit
// output over a random 128-bit salt. Salt and hash are stored as standard
// base64 text.
package credential

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltBytes is the size of a generated salt.
	SaltBytes = 128 / 8
	// HashBytes is the size of a derived hash.
	HashBytes = 256 / 8
	// Iterations is the PBKDF2 iteration count.
	Iterations = 100_000
)

// ErrMalformedSalt is returned by Hash when the stored salt cannot be decoded.
var ErrMalformedSalt = errors.New("credential: malformed salt")

// Credential is the stored form of a password. Neither field may leave the
// persistence boundary.
type Credential struct {
	Salt string
	Hash string
}

// Create generates a fresh salt and derives the hash of password with it.
func Create(password string) (Credential, error) {
	salt := make([]byte, SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return Credential{}, fmt.Errorf("credential: generate salt: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(salt)
	return Credential{Salt: encoded, Hash: derive(password, salt)}, nil
}

// Hash recomputes the hash of password with an encoded salt. The result is
// deterministic for a given (password, salt) pair.
func Hash(password, salt string) (string, error) {
	raw, err := decodeSalt(salt)
	if err != nil {
		return "", err
	}
	return derive(password, raw), nil
}

// Verify reports whether password matches the stored salt and hash. A missing
// or malformed salt, or an empty hash, never matches.
func Verify(password, salt, hash string) bool {
	if hash == "" {
		return false
	}
	computed, err := Hash(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

// Verify checks password against the credential.
func (c Credential) Verify(password string) bool {
	return Verify(password, c.Salt, c.Hash)
}

func decodeSalt(salt string) ([]byte, error) {
	if salt == "" {
		return nil, ErrMalformedSalt
	}
	raw, err := base64.StdEncoding.DecodeString(salt)
	if err != nil || len(raw) == 0 {
		return nil, ErrMalformedSalt
	}
	return raw, nil
}

func derive(password string, salt []byte) string {
	key := pbkdf2.Key([]byte(password), salt, Iterations, HashBytes, sha512.New)
	return base64.StdEncoding.EncodeToString(key)
}
