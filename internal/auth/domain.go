package auth

// RegistrationRequest carries the fields needed to create an identity.
type RegistrationRequest struct {
	Username  string `json:"username" validate:"required,notblank"`
	FirstName string `json:"firstName" validate:"required,notblank"`
	LastName  string `json:"lastName" validate:"required,notblank"`
	Email     string `json:"email" validate:"required,notblank"`
	Password  string `json:"password" validate:"required,notblank"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,notblank"`
	Password string `json:"password" validate:"required,notblank"`
}

// TokenResponse wraps an issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}
