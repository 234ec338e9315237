package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/odyssey-erp/todo/internal/roles"
	"github.com/odyssey-erp/todo/internal/shared"
	"github.com/odyssey-erp/todo/internal/users"
)

// Service wraps registration and login rules.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Register creates an identity for req. The very first identity in the store
// receives the Admin role, every later one Client.
//
// Counting and inserting are not coupled in one transaction, so two
// concurrent first registrations can both become Admin.
func (s *Service) Register(ctx context.Context, req RegistrationRequest) (*users.User, error) {
	_, err := s.repo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, shared.ErrAlreadyExists
	case !errors.Is(err, shared.ErrNotFound):
		return nil, fmt.Errorf("auth: lookup email: %w", err)
	}

	user, err := users.New(req.Username, req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: new user: %w", err)
	}

	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth: count users: %w", err)
	}
	roleName := shared.RoleClient
	if count == 0 {
		roleName = shared.RoleAdmin
	}
	role, err := s.repo.FindRoleByName(ctx, roleName)
	if errors.Is(err, shared.ErrNotFound) {
		// Seeded by migration; a miss is a server fault.
		return nil, fmt.Errorf("auth: seeded role %s missing", roleName)
	}
	if err != nil {
		return nil, fmt.Errorf("auth: role %s: %w", roleName, err)
	}
	user.Roles = []roles.Role{role}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", slog.String("user_id", user.ID.String()), slog.String("role", roleName))
	return user, nil
}

// Login returns the identity for valid credentials. Unknown emails, missing
// salts and wrong passwords all yield shared.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*users.User, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: lookup email: %w", err)
	}
	if !user.VerifyPassword(req.Password) {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}
