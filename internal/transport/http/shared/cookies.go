package shared

import (
	"net/http"
	"time"
)

const (
	// SessionCookieName holds the opaque session token, HttpOnly.
	SessionCookieName = "sessionid"
	// CSRFCookieName is readable by the client script, which must echo its
	// value in the CSRFHeaderName header on mutating requests.
	CSRFCookieName = "csrftoken"
	CSRFHeaderName = "X-CSRFToken"
)

type CookieWriter struct {
	Secure bool
	TTL    time.Duration
}

func (c CookieWriter) SetSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c CookieWriter) SetCSRF(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.TTL.Seconds()),
		HttpOnly: false,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c CookieWriter) Clear(w http.ResponseWriter) {
	for _, name := range []string{SessionCookieName, CSRFCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: name == SessionCookieName,
			Secure:   c.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
