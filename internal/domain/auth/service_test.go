package auth

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfhub/internal/apperror"
)

type fakeStore struct {
	users     map[string]User
	hashes    map[string]string
	sessions  map[string]*int64
	lastLogin map[int64]int
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[string]User{},
		hashes:    map[string]string{},
		sessions:  map[string]*int64{},
		lastLogin: map[int64]int{},
	}
}

func (f *fakeStore) CreateUser(_ context.Context, username, email, passwordHash, firstName, lastName string) (User, error) {
	if _, ok := f.users[username]; ok {
		return User{}, apperror.Validation("Username already exists")
	}
	for _, existing := range f.users {
		if existing.Email == email {
			return User{}, apperror.Validation("Email already exists")
		}
	}
	f.nextID++
	user := User{ID: f.nextID, Username: username, Email: email, FirstName: firstName, LastName: lastName}
	f.users[username] = user
	f.hashes[username] = passwordHash
	return user, nil
}

func (f *fakeStore) FindCredentials(_ context.Context, username string) (User, string, error) {
	user, ok := f.users[username]
	if !ok {
		return User{}, "", pgx.ErrNoRows
	}
	return user, f.hashes[username], nil
}

func (f *fakeStore) CreateSession(_ context.Context, userID *int64, tokenHash string, _ time.Time) error {
	f.sessions[tokenHash] = userID
	return nil
}

func (f *fakeStore) RevokeSession(_ context.Context, tokenHash string) error {
	delete(f.sessions, tokenHash)
	return nil
}

func (f *fakeStore) SessionUser(_ context.Context, tokenHash string) (bool, *User, error) {
	userID, ok := f.sessions[tokenHash]
	if !ok {
		return false, nil, nil
	}
	if userID == nil {
		return true, nil, nil
	}
	for _, user := range f.users {
		if user.ID == *userID {
			user := user
			return true, &user, nil
		}
	}
	return false, nil, nil
}

func (f *fakeStore) UpdateLastLogin(_ context.Context, userID int64) error {
	f.lastLogin[userID]++
	return nil
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, time.Hour), store
}

func TestSignupCreatesAuthenticatedSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, SignupParams{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "hunter22",
		FirstName: "Alice",
		LastName:  "Adams",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	require.NotEmpty(t, token)

	live, sessionUser, err := svc.SessionUser(ctx, token)
	require.NoError(t, err)
	assert.True(t, live)
	require.NotNil(t, sessionUser)
	assert.Equal(t, user.ID, sessionUser.ID)
}

func TestSignupMissingFields(t *testing.T) {
	svc, store := newTestService()

	_, _, err := svc.Signup(context.Background(), SignupParams{Username: "bob"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.GetKind(err))

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "password")
	assert.Empty(t, store.users, "no user row should exist after failed signup")
}

func TestSignupDuplicateUsername(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, SignupParams{Username: "carol", Email: "carol@example.com", Password: "pw123456"})
	require.NoError(t, err)

	_, _, err = svc.Signup(ctx, SignupParams{Username: "carol", Email: "other@example.com", Password: "pw123456"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.GetKind(err))
	assert.Len(t, store.users, 1, "exactly one user row must exist")
}

func TestLoginWrongPassword(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, SignupParams{Username: "alice", Email: "alice@example.com", Password: "right-pass"})
	require.NoError(t, err)
	sessionsBefore := len(store.sessions)

	_, _, err = svc.Login(ctx, "alice", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, apperror.KindAuthentication, apperror.GetKind(err))
	assert.Len(t, store.sessions, sessionsBefore, "failed login must not create a session")
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Login(context.Background(), "nobody", "whatever")
	require.Error(t, err)
	assert.Equal(t, apperror.KindAuthentication, apperror.GetKind(err))
}

func TestLoginMissingFields(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Login(context.Background(), "", "")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.GetKind(err))
}

func TestLoginRotatesSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, first, err := svc.Signup(ctx, SignupParams{Username: "dave", Email: "dave@example.com", Password: "pw123456"})
	require.NoError(t, err)

	_, second, err := svc.Login(ctx, "dave", "pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "login must establish a new session token")
}

func TestLogoutIsNoOpSafe(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx, ""))
	require.NoError(t, svc.Logout(ctx, "unknown-token"))

	_, token, err := svc.Signup(ctx, SignupParams{Username: "erin", Email: "erin@example.com", Password: "pw123456"})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, token))

	live, user, err := svc.SessionUser(ctx, token)
	require.NoError(t, err)
	assert.False(t, live)
	assert.Nil(t, user)
}

func TestAnonymousSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	token, err := svc.AnonymousSession(ctx)
	require.NoError(t, err)

	live, user, err := svc.SessionUser(ctx, token)
	require.NoError(t, err)
	assert.True(t, live, "anonymous session must be usable for csrf issuance")
	assert.Nil(t, user)
}
