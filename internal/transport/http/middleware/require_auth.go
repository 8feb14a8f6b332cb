package middleware

import (
	"net/http"

	"perfhub/internal/apperror"
	"perfhub/internal/platform/requestctx"
	"perfhub/internal/transport/http/api"
)

// RequireAuth rejects requests whose session does not belong to a user.
// Anonymous sessions carry a valid CSRF token but no identity.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := requestctx.GetSession(r.Context())
		if !ok || !session.Authenticated() {
			api.Error(r.Context(), w, apperror.Authentication("Authentication credentials were not provided."))
			return
		}
		next.ServeHTTP(w, r)
	})
}
