package roles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/odyssey-erp/todo/internal/shared"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
	FindByID(ctx context.Context, id uuid.UUID) (Role, error)
	FindByName(ctx context.Context, name string) (Role, error)
	CreateRole(ctx context.Context, role Role) error
	UpdateRole(ctx context.Context, role Role) error
	DeleteRole(ctx context.Context, id uuid.UUID) error
}

// CachePort caches the full role listing.
type CachePort interface {
	Get(ctx context.Context) ([]Role, bool, error)
	Set(ctx context.Context, roles []Role) error
	Invalidate(ctx context.Context) error
}

// Service handles role business logic.
type Service struct {
	repo   RepositoryPort
	cache  CachePort
	logger *slog.Logger
}

// NewService builds Service instance. cache may be nil.
func NewService(repo RepositoryPort, cache CachePort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

// ListRoles returns all roles, served from the cache when possible.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("role cache get", slog.Any("error", err))
		} else if ok {
			return cached, nil
		}
	}
	roles, err := s.repo.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, roles); err != nil {
			s.logger.Warn("role cache set", slog.Any("error", err))
		}
	}
	return roles, nil
}

// GetAllWithoutID lists role names.
func (s *Service) GetAllWithoutID(ctx context.Context) ([]WithoutIDDTO, error) {
	roles, err := s.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WithoutIDDTO, 0, len(roles))
	for _, r := range roles {
		out = append(out, toWithoutID(r))
	}
	return out, nil
}

// GetAllWithID lists roles including identifiers.
func (s *Service) GetAllWithID(ctx context.Context) ([]WithIDDTO, error) {
	roles, err := s.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WithIDDTO, 0, len(roles))
	for _, r := range roles {
		out = append(out, toWithID(r))
	}
	return out, nil
}

// GetIDByName returns the identifier of the role called name.
func (s *Service) GetIDByName(ctx context.Context, name string) (uuid.UUID, error) {
	role, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return uuid.Nil, err
	}
	return role.ID, nil
}

// GetNameByID returns the name of the role with id.
func (s *Service) GetNameByID(ctx context.Context, id uuid.UUID) (string, error) {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return role.Name, nil
}

// FindByName returns the role called name.
func (s *Service) FindByName(ctx context.Context, name string) (Role, error) {
	return s.repo.FindByName(ctx, name)
}

// Create adds a role. Fails with shared.ErrAlreadyExists when the name is taken.
func (s *Service) Create(ctx context.Context, dto WithoutIDDTO) (WithoutIDDTO, error) {
	if err := s.ensureNameFree(ctx, dto.Name, uuid.Nil); err != nil {
		return WithoutIDDTO{}, err
	}
	role := Role{ID: uuid.New(), Name: dto.Name}
	if err := s.repo.CreateRole(ctx, role); err != nil {
		return WithoutIDDTO{}, err
	}
	s.invalidate(ctx)
	return toWithoutID(role), nil
}

// UpdateByID renames the role identified by dto.ID. Seeded roles cannot be
// renamed.
func (s *Service) UpdateByID(ctx context.Context, dto WithIDDTO) (WithoutIDDTO, error) {
	existing, err := s.repo.FindByID(ctx, dto.ID)
	if err != nil {
		return WithoutIDDTO{}, err
	}
	if err := guardSeeded(existing, dto.Name); err != nil {
		return WithoutIDDTO{}, err
	}
	return s.rename(ctx, dto.ID, dto.Name)
}

// UpdateByOldName renames the role currently called dto.OldName.
func (s *Service) UpdateByOldName(ctx context.Context, dto UpdateByOldNameDTO) (WithoutIDDTO, error) {
	existing, err := s.repo.FindByName(ctx, dto.OldName)
	if err != nil {
		return WithoutIDDTO{}, err
	}
	if err := guardSeeded(existing, dto.NewName); err != nil {
		return WithoutIDDTO{}, err
	}
	return s.rename(ctx, existing.ID, dto.NewName)
}

// DeleteByID removes the role with id. Seeded roles cannot be deleted.
func (s *Service) DeleteByID(ctx context.Context, id uuid.UUID) error {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.delete(ctx, role)
}

// DeleteByName removes the role called name. Seeded roles cannot be deleted.
func (s *Service) DeleteByName(ctx context.Context, name string) error {
	role, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return err
	}
	return s.delete(ctx, role)
}

func (s *Service) delete(ctx context.Context, role Role) error {
	if shared.IsSeededRole(role.Name) {
		return fmt.Errorf("roles: delete %s: %w", role.Name, shared.ErrProtected)
	}
	if err := s.repo.DeleteRole(ctx, role.ID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// guardSeeded rejects renaming a seeded role. Keeping the same name is a no-op
// and stays allowed.
func guardSeeded(existing Role, newName string) error {
	if shared.IsSeededRole(existing.Name) && newName != existing.Name {
		return fmt.Errorf("roles: rename %s: %w", existing.Name, shared.ErrProtected)
	}
	return nil
}

func (s *Service) rename(ctx context.Context, id uuid.UUID, name string) (WithoutIDDTO, error) {
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return WithoutIDDTO{}, err
	}
	role := Role{ID: id, Name: name}
	if err := s.repo.UpdateRole(ctx, role); err != nil {
		return WithoutIDDTO{}, err
	}
	s.invalidate(ctx)
	return toWithoutID(role), nil
}

// ensureNameFree fails when another role than self already uses name.
func (s *Service) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.repo.FindByName(ctx, name)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return shared.ErrAlreadyExists
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("role cache invalidate", slog.Any("error", err))
	}
}

// Refresh drops the cached listing and reloads it from the store.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	s.invalidate(ctx)
	roles, err := s.ListRoles(ctx)
	if err != nil {
		return 0, err
	}
	return len(roles), nil
}
