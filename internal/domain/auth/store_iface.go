package auth

import (
	"context"
	"time"
)

type StoreAPI interface {
	CreateUser(ctx context.Context, username, email, passwordHash, firstName, lastName string) (User, error)
	FindCredentials(ctx context.Context, username string) (User, string, error)
	CreateSession(ctx context.Context, userID *int64, tokenHash string, expires time.Time) error
	RevokeSession(ctx context.Context, tokenHash string) error
	SessionUser(ctx context.Context, tokenHash string) (bool, *User, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
}
