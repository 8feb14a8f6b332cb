// Package requestctx carries per-request values through context: the request
// id and the session loaded by the transport middleware. Handlers read the
// session from here instead of any ambient global state.
package requestctx

import (
	"context"

	"perfhub/internal/domain/auth"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	sessionKey   ctxKey = "session"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

// Session is the explicit per-request authentication record. Token is the raw
// session cookie value; User is nil for anonymous sessions.
type Session struct {
	Token string
	User  *auth.User
}

func (s Session) Authenticated() bool {
	return s.User != nil
}

func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

func GetSession(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionKey).(Session)
	return session, ok
}
