package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	pgdb "github.com/odyssey-erp/todo/internal/platform/db"
	"github.com/odyssey-erp/todo/internal/roles"
	"github.com/odyssey-erp/todo/internal/shared"
)

const userColumns = `u.id, u.username, u.first_name, u.last_name, u.email, COALESCE(u.salt, ''), COALESCE(u.hash, ''), u.created_at`

// Repository provides PostgreSQL backed persistence for identities. It runs
// against a pool or inside a transaction.
type Repository struct {
	db pgdb.DBTX
}

// NewRepository constructs a repository.
func NewRepository(db pgdb.DBTX) *Repository {
	return &Repository{db: db}
}

// FindByEmail fetches a user and its roles by exact email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.email = $1`, email)
}

// FindByID fetches a user and its roles by identifier.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id)
}

// ListUsers returns one page of users ordered by creation time.
func (r *Repository) ListUsers(ctx context.Context, limit, offset int) ([]User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users u ORDER BY u.created_at, u.id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		var user User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Roles, err = r.rolesOf(ctx, users[i].ID); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// CountUsers returns the number of registered users.
func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// InsertUser persists user and its role memberships.
func (r *Repository) InsertUser(ctx context.Context, user *User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, username, first_name, last_name, email, salt, hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Username, user.FirstName, user.LastName, user.Email, user.Salt, user.Hash, user.CreatedAt,
	)
	if err != nil {
		if pgdb.IsUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("users: insert: %w", err)
	}
	for _, role := range user.Roles {
		if _, err := r.db.Exec(ctx, `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`, user.ID, role.ID); err != nil {
			return fmt.Errorf("users: assign role %s: %w", role.Name, err)
		}
	}
	return nil
}

// UpdateProfile changes the display fields of a user.
func (r *Repository) UpdateProfile(ctx context.Context, dto UpdateProfileDTO) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET username = $2, first_name = $3, last_name = $4 WHERE id = $1`,
		dto.UserID, dto.Username, dto.FirstName, dto.LastName,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	var user User
	if err := scanUser(r.db.QueryRow(ctx, query, arg), &user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	roles, err := r.rolesOf(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return &user, nil
}

func (r *Repository) rolesOf(ctx context.Context, userID uuid.UUID) ([]roles.Role, error) {
	rows, err := r.db.Query(ctx,
		`SELECT r.id, r.name FROM roles r JOIN user_roles ur ON ur.role_id = r.id WHERE ur.user_id = $1 ORDER BY r.name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []roles.Role{}
	for rows.Next() {
		var role roles.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row, user *User) error {
	return row.Scan(&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.Email, &user.Salt, &user.Hash, &user.CreatedAt)
}
