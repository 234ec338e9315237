package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/odyssey-erp/todo/internal/credential"
	"github.com/odyssey-erp/todo/internal/roles"
)

// User is a registered identity. Salt and Hash never serialize.
type User struct {
	ID        uuid.UUID    `json:"id"`
	Username  string       `json:"username"`
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
	Email     string       `json:"email"`
	Salt      string       `json:"-"`
	Hash      string       `json:"-"`
	Roles     []roles.Role `json:"roles"`
	CreatedAt time.Time    `json:"createdAt"`
}

// New builds an identity with a freshly derived credential for password.
func New(username, firstName, lastName, email, password string) (*User, error) {
	cred, err := credential.Create(password)
	if err != nil {
		return nil, err
	}
	return &User{
		ID:        uuid.New(),
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Salt:      cred.Salt,
		Hash:      cred.Hash,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// VerifyPassword checks password against the stored credential. A user
// without a salt never verifies.
func (u *User) VerifyPassword(password string) bool {
	if u == nil || u.Salt == "" {
		return false
	}
	return credential.Verify(password, u.Salt, u.Hash)
}

// RoleNames lists the names of the user's roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		if r.Name == "" {
			continue
		}
		names = append(names, r.Name)
	}
	return names
}

// UpdateProfileDTO changes the display fields of a user. UserID names the
// account being edited and is what self-access checks compare against.
type UpdateProfileDTO struct {
	UserID    uuid.UUID `json:"userId" validate:"required"`
	Username  string    `json:"username" validate:"required,notblank"`
	FirstName string    `json:"firstName" validate:"required,notblank"`
	LastName  string    `json:"lastName" validate:"required,notblank"`
}
