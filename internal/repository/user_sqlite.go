package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"task_manager/internal/models"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

// Ensure implementation of UserRepo interface at compile time.
var _ UserRepo = (*UserSQLite)(nil)

const (
	insertUserSQL        = `INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`
	selectUserColumnsSQL = `SELECT id, username, email, password_hash, created_at FROM users`
	selectUserByIDSQL    = selectUserColumnsSQL + ` WHERE id = ?`
	selectUserByEmailSQL = selectUserColumnsSQL + ` WHERE email = ?`
	listUsersSQL         = selectUserColumnsSQL + ` ORDER BY created_at ASC, id ASC`
)

// Create inserts u, assigning an id if it has none.
func (r *UserSQLite) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = models.NewID()
	}
	_, err := r.db.ExecContext(ctx, insertUserSQL,
		u.ID, u.Username, u.Email, u.PasswordHash, formatTime(u.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user %q: %w", u.Email, err)
	}
	return nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", id, err)
	}
	return u, nil
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByEmailSQL, email))
	if err != nil {
		return nil, fmt.Errorf("select user by email %q: %w", email, err)
	}
	return u, nil
}

// GetByIDs returns the users matching ids, in no particular order. Unknown ids are skipped.
func (r *UserSQLite) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	q := selectUserColumnsSQL + ` WHERE id IN (?` + strings.Repeat(", ?", len(ids)-1) + `)`
	return r.queryUsers(ctx, q, args...)
}

// List returns every user, oldest first.
func (r *UserSQLite) List(ctx context.Context) ([]models.User, error) {
	return r.queryUsers(ctx, listUsersSQL)
}

func (r *UserSQLite) queryUsers(ctx context.Context, q string, args ...any) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	out := make([]models.User, 0, 16)
	for rows.Next() {
		var (
			u         models.User
			createdAt string
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		if u.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

// scanUser reads a single user row. sql.ErrNoRows becomes (nil, nil).
func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u         models.User
		createdAt string
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
