package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"perfhub/internal/apperror"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// CreateUser relies on the unique constraints to reject duplicate usernames
// and emails, so two concurrent signups on the same key cannot both succeed.
func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash, firstName, lastName string) (User, error) {
	var user User
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (username, email, password_hash, first_name, last_name)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id, username, email, first_name, last_name, is_staff, is_superuser
  `, username, email, passwordHash, firstName, lastName).Scan(
		&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName, &user.IsStaff, &user.IsSuperuser,
	)
	if err != nil {
		return User{}, mapUserUniqueViolation(err)
	}
	return user, nil
}

func (s *Store) FindCredentials(ctx context.Context, username string) (User, string, error) {
	var user User
	var hash string
	err := s.DB.QueryRow(ctx, `
    SELECT id, username, email, first_name, last_name, is_staff, is_superuser, password_hash
    FROM users
    WHERE username = $1
  `, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName, &user.IsStaff, &user.IsSuperuser, &hash,
	)
	if err != nil {
		return User{}, "", err
	}
	return user, hash, nil
}

func (s *Store) CreateSession(ctx context.Context, userID *int64, tokenHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO sessions (user_id, token_hash, expires_at)
    VALUES ($1,$2,$3)
  `, userID, tokenHash, expires)
	return err
}

func (s *Store) RevokeSession(ctx context.Context, tokenHash string) error {
	_, err := s.DB.Exec(ctx, "UPDATE sessions SET revoked_at = now() WHERE token_hash = $1 AND revoked_at IS NULL", tokenHash)
	return err
}

// SessionUser reports whether the session is live and, when it belongs to a
// user, returns that user. A live anonymous session yields (true, nil, nil).
func (s *Store) SessionUser(ctx context.Context, tokenHash string) (bool, *User, error) {
	var userID *int64
	err := s.DB.QueryRow(ctx, `
    SELECT user_id
    FROM sessions
    WHERE token_hash = $1 AND expires_at > now() AND revoked_at IS NULL
  `, tokenHash).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	if userID == nil {
		return true, nil, nil
	}

	var user User
	err = s.DB.QueryRow(ctx, `
    SELECT id, username, email, first_name, last_name, is_staff, is_superuser
    FROM users
    WHERE id = $1
  `, *userID).Scan(
		&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName, &user.IsStaff, &user.IsSuperuser,
	)
	if err != nil {
		return false, nil, err
	}
	return true, &user, nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID int64) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	return err
}

func mapUserUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_username_key":
			return apperror.Validation("Username already exists")
		case "users_email_key":
			return apperror.Validation("Email already exists")
		}
	}
	return err
}
