package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	pgdb "github.com/odyssey-erp/todo/internal/platform/db"
	"github.com/odyssey-erp/todo/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	db pgdb.DBTX
}

// NewRepository constructs a repository.
func NewRepository(db pgdb.DBTX) *Repository {
	return &Repository{db: db}
}

// ListRoles returns all roles.
func (r *Repository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	roles := []Role{}
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

// FindByID fetches a role by identifier.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (Role, error) {
	return r.findOne(ctx, `SELECT id, name FROM roles WHERE id = $1`, id)
}

// FindByName fetches a role by exact, case-sensitive name.
func (r *Repository) FindByName(ctx context.Context, name string) (Role, error) {
	return r.findOne(ctx, `SELECT id, name FROM roles WHERE name = $1`, name)
}

// CreateRole inserts a new role.
func (r *Repository) CreateRole(ctx context.Context, role Role) error {
	if _, err := r.db.Exec(ctx, `INSERT INTO roles (id, name) VALUES ($1, $2)`, role.ID, role.Name); err != nil {
		if pgdb.IsUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("roles: insert: %w", err)
	}
	return nil
}

// UpdateRole renames the role with role.ID.
func (r *Repository) UpdateRole(ctx context.Context, role Role) error {
	tag, err := r.db.Exec(ctx, `UPDATE roles SET name = $2 WHERE id = $1`, role.ID, role.Name)
	if err != nil {
		if pgdb.IsUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("roles: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteRole removes a role by ID. Returns shared.ErrNotFound if nothing was deleted.
func (r *Repository) DeleteRole(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) findOne(ctx context.Context, query string, arg any) (Role, error) {
	var role Role
	if err := r.db.QueryRow(ctx, query, arg).Scan(&role.ID, &role.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, err
	}
	return role, nil
}
