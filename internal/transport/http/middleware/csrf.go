package middleware

import (
	"net/http"

	"perfhub/internal/apperror"
	"perfhub/internal/domain/auth"
	"perfhub/internal/transport/http/api"
	"perfhub/internal/transport/http/shared"
)

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// CSRFGuard enforces the double-submit check on mutating requests. The
// client must hold a session cookie, echo the csrftoken cookie in the
// X-CSRFToken header, and both values must be the HMAC derived from the
// session token. Reads pass through untouched.
func CSRFGuard(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			sessionCookie, err := r.Cookie(shared.SessionCookieName)
			if err != nil || sessionCookie.Value == "" {
				api.Error(r.Context(), w, apperror.Authorization("CSRF token missing or incorrect"))
				return
			}

			header := r.Header.Get(shared.CSRFHeaderName)
			csrfCookie, err := r.Cookie(shared.CSRFCookieName)
			if err != nil || csrfCookie.Value == "" || header == "" ||
				csrfCookie.Value != header ||
				!auth.VerifyCSRFToken(secret, sessionCookie.Value, header) {
				api.Error(r.Context(), w, apperror.Authorization("CSRF token missing or incorrect"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
