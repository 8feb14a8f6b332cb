package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"perfhub/internal/apperror"
)

type Service struct {
	Store      StoreAPI
	SessionTTL time.Duration
}

func NewService(store StoreAPI, sessionTTL time.Duration) *Service {
	return &Service{Store: store, SessionTTL: sessionTTL}
}

type SignupParams struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Signup creates the user and logs it in by starting a fresh session.
// Duplicate username/email surfaces as a validation error from the storage
// constraints, not from a racy pre-check.
func (s *Service) Signup(ctx context.Context, params SignupParams) (User, string, error) {
	issues := map[string]string{}
	if strings.TrimSpace(params.Username) == "" {
		issues["username"] = "this field is required"
	}
	if strings.TrimSpace(params.Email) == "" {
		issues["email"] = "this field is required"
	}
	if strings.TrimSpace(params.Password) == "" {
		issues["password"] = "this field is required"
	}
	if len(issues) > 0 {
		return User{}, "", apperror.ValidationFields("Username, email, and password are required", issues)
	}

	hash, err := HashPassword(params.Password)
	if err != nil {
		return User{}, "", err
	}

	user, err := s.Store.CreateUser(ctx, params.Username, params.Email, hash, params.FirstName, params.LastName)
	if err != nil {
		return User{}, "", err
	}

	token, err := s.startSession(ctx, &user.ID)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (User, string, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return User{}, "", apperror.Validation("Username and password are required")
	}

	user, hash, err := s.Store.FindCredentials(ctx, username)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, "", apperror.Authentication("Invalid credentials")
	}
	if err != nil {
		return User{}, "", err
	}
	if err := CheckPassword(hash, password); err != nil {
		return User{}, "", apperror.Authentication("Invalid credentials")
	}

	token, err := s.startSession(ctx, &user.ID)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// Logout revokes the session if one exists. Logging out an anonymous or
// unknown session is not an error.
func (s *Service) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	return s.Store.RevokeSession(ctx, HashToken(sessionToken))
}

// SessionUser resolves a session cookie value to its user. It returns
// (live, user): live=false means the token references no usable session and
// the caller should treat the request as anonymous.
func (s *Service) SessionUser(ctx context.Context, sessionToken string) (bool, *User, error) {
	if sessionToken == "" {
		return false, nil, nil
	}
	return s.Store.SessionUser(ctx, HashToken(sessionToken))
}

// AnonymousSession starts a session with no user so that the CSRF token
// endpoint can hand out a token before login or signup.
func (s *Service) AnonymousSession(ctx context.Context) (string, error) {
	return s.startSession(ctx, nil)
}

func (s *Service) startSession(ctx context.Context, userID *int64) (string, error) {
	token, err := NewSessionToken()
	if err != nil {
		return "", err
	}
	if err := s.Store.CreateSession(ctx, userID, HashToken(token), time.Now().Add(s.SessionTTL)); err != nil {
		return "", err
	}
	if userID != nil {
		if err := s.Store.UpdateLastLogin(ctx, *userID); err != nil {
			return "", err
		}
	}
	return token, nil
}
