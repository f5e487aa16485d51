package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bnema/pdv/internal/domain"
)

// UserStore implements out.UserStore.
type UserStore struct {
	db *DB
}

// NewUserStore creates a UserStore over db.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = "id, username, name, password_hash, is_admin, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(r rowScanner) (*domain.User, error) {
	var (
		u         domain.User
		createdAt string
	)
	if err := r.Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, &u.IsAdmin, &createdAt); err != nil {
		return nil, err
	}
	u.CreatedAt = parseTime(createdAt)
	return &u, nil
}

func (s *UserStore) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.sql.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	u, err := scanUser(row)
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("user %d", id))
	}
	return u, nil
}

func (s *UserStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.db.sql.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	u, err := scanUser(row)
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("user %q", username))
	}
	return u, nil
}

func (s *UserStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.sql.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY username")
	if err != nil {
		return nil, translateError(err, "list users")
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *UserStore) CreateUser(ctx context.Context, u domain.User) (*domain.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.sql.ExecContext(ctx,
		"INSERT INTO users (username, name, password_hash, is_admin, created_at) VALUES (?, ?, ?, ?, ?)",
		u.Username, u.Name, u.PasswordHash, u.IsAdmin, formatTime(u.CreatedAt),
	)
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("user %q", u.Username))
	}
	if u.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.sql.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	return affectedOne(res, err, fmt.Sprintf("user %d", id))
}

func (s *UserStore) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := s.db.sql.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", hash, id)
	return affectedOne(res, err, fmt.Sprintf("user %d", id))
}

func (s *UserStore) CountAdmins(ctx context.Context) (int, error) {
	var n int
	if err := s.db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE is_admin = 1").Scan(&n); err != nil {
		return 0, translateError(err, "count admins")
	}
	return n, nil
}

// affectedOne turns a zero-row update or delete into ErrNotFound.
func affectedOne(res sql.Result, err error, what string) error {
	if err != nil {
		return translateError(err, what)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}
