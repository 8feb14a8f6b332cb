package middleware

import (
	"context"
	"net/http"

	"log/slog"

	"perfhub/internal/domain/auth"
	"perfhub/internal/platform/requestctx"
	"perfhub/internal/transport/http/shared"
)

// SessionResolver validates an opaque session token and returns the
// associated user, or nil for anonymous sessions.
type SessionResolver interface {
	SessionUser(ctx context.Context, token string) (bool, *auth.User, error)
}

// SessionLoader resolves the session cookie and stores the result on the
// request context. An unknown or expired token is treated the same as no
// cookie at all so downstream guards decide what to reject.
func SessionLoader(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(shared.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			live, user, err := resolver.SessionUser(r.Context(), cookie.Value)
			if err != nil {
				slog.Warn("session lookup failed",
					"error", err,
					"requestId", requestctx.GetRequestID(r.Context()),
				)
				next.ServeHTTP(w, r)
				return
			}
			if !live {
				next.ServeHTTP(w, r)
				return
			}

			ctx := requestctx.WithSession(r.Context(), requestctx.Session{
				Token: cookie.Value,
				User:  user,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
