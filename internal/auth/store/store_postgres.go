package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"covera/internal/auth"
	id "covera/pkg/domain"
	"covera/pkg/platform/sentinel"
)

// PostgresStore persists user accounts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const uniqueViolation = "23505"

const insertUser = `
INSERT INTO users (id, email, password_hash, created_at)
VALUES ($1, lower($2), $3, $4)`

func (s *PostgresStore) Save(ctx context.Context, user auth.User) error {
	_, err := s.db.ExecContext(ctx, insertUser,
		uuid.UUID(user.ID), user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

const selectUser = `
SELECT id, email, password_hash, created_at FROM users`

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (auth.User, error) {
	row := s.db.QueryRowContext(ctx, selectUser+` WHERE id = $1`, uuid.UUID(userID))
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, sentinel.ErrNotFound
		}
		return auth.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (auth.User, error) {
	row := s.db.QueryRowContext(ctx, selectUser+` WHERE email = lower($1)`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, sentinel.ErrNotFound
		}
		return auth.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

func scanUser(row *sql.Row) (auth.User, error) {
	var (
		user  auth.User
		usrID uuid.UUID
	)
	if err := row.Scan(&usrID, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		return auth.User{}, err
	}
	user.ID = id.UserID(usrID)
	return user, nil
}
