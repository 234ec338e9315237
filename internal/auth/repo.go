package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	pgdb "github.com/odyssey-erp/todo/internal/platform/db"
	"github.com/odyssey-erp/todo/internal/roles"
	"github.com/odyssey-erp/todo/internal/users"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	CountUsers(ctx context.Context) (int, error)
	FindRoleByName(ctx context.Context, name string) (roles.Role, error)
	CreateUser(ctx context.Context, user *users.User) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool  *pgxpool.Pool
	users *users.Repository
	roles *roles.Repository
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{
		pool:  pool,
		users: users.NewRepository(pool),
		roles: roles.NewRepository(pool),
	}
}

// FindByEmail fetches a user and its roles by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.users.FindByEmail(ctx, email)
}

// CountUsers returns the number of registered users.
func (r *PGRepository) CountUsers(ctx context.Context) (int, error) {
	return r.users.CountUsers(ctx)
}

// FindRoleByName fetches a role by its exact name.
func (r *PGRepository) FindRoleByName(ctx context.Context, name string) (roles.Role, error) {
	return r.roles.FindByName(ctx, name)
}

// CreateUser inserts the user row and its role memberships in one transaction.
func (r *PGRepository) CreateUser(ctx context.Context, user *users.User) error {
	return pgdb.WithTx(ctx, r.pool, func(tx pgdb.DBTX) error {
		return users.NewRepository(tx).InsertUser(ctx, user)
	})
}
