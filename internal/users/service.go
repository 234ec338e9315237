package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/odyssey-erp/todo/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]User, error)
	CountUsers(ctx context.Context) (int, error)
	UpdateProfile(ctx context.Context, dto UpdateProfileDTO) error
}

// Service handles user business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Page is one page of a user listing.
type Page struct {
	Items      []User            `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

// ListUsers returns the requested page of users.
func (s *Service) ListUsers(ctx context.Context, page, perPage int) (Page, error) {
	total, err := s.repo.CountUsers(ctx)
	if err != nil {
		return Page{}, err
	}
	p := shared.NewPagination(page, perPage, total)
	items, err := s.repo.ListUsers(ctx, p.PerPage, p.Offset())
	if err != nil {
		return Page{}, err
	}
	if items == nil {
		items = []User{}
	}
	return Page{Items: items, Pagination: p}, nil
}

// GetUser returns one user.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile applies dto and returns the updated user.
func (s *Service) UpdateProfile(ctx context.Context, dto UpdateProfileDTO) (*User, error) {
	if err := s.repo.UpdateProfile(ctx, dto); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, dto.UserID)
}
