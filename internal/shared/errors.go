package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAlreadyExists indicates a unique value (email, role name) is taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput indicates a request failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrProtected indicates a mutation of a record the system depends on.
	ErrProtected = errors.New("protected")
)

// IsDomainError reports whether err wraps one of the sentinels above.
func IsDomainError(err error) bool {
	for _, target := range []error{ErrNotFound, ErrInvalidCredentials, ErrAlreadyExists, ErrInvalidInput, ErrProtected} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
