package authhandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"perfhub/internal/apperror"
	"perfhub/internal/domain/auth"
	"perfhub/internal/platform/requestctx"
	"perfhub/internal/transport/http/api"
	"perfhub/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
	Secret  string
	Cookies shared.CookieWriter
}

func NewHandler(service *auth.Service, secret string, cookies shared.CookieWriter) *Handler {
	return &Handler{Service: service, Secret: secret, Cookies: cookies}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/csrf-token", h.handleCSRFToken)
		r.Post("/signup", h.handleSignup)
		r.Post("/login", h.handleLogin)
		r.Post("/logout", h.handleLogout)
		r.Get("/user", h.handleCurrentUser)
	})
}

// issueCookies sets the session and CSRF pair for a freshly started session
// and returns the CSRF token so handlers can echo it in the body.
func (h *Handler) issueCookies(w http.ResponseWriter, sessionToken string) string {
	csrf := auth.CSRFToken(h.Secret, sessionToken)
	h.Cookies.SetSession(w, sessionToken)
	h.Cookies.SetCSRF(w, csrf)
	return csrf
}

// handleCSRFToken hands out a CSRF token before login. A request that already
// carries a live session keeps it; otherwise an anonymous session is started
// so the token has something to be bound to.
func (h *Handler) handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	session, ok := requestctx.GetSession(r.Context())
	if !ok {
		token, err := h.Service.AnonymousSession(r.Context())
		if err != nil {
			api.Error(r.Context(), w, err)
			return
		}
		session = requestctx.Session{Token: token}
	}

	csrf := h.issueCookies(w, session.Token)
	api.WriteJSON(w, http.StatusOK, map[string]string{"csrfToken": csrf})
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Error(r.Context(), w, apperror.Validation("Invalid JSON"))
		return
	}

	user, token, err := h.Service.Signup(r.Context(), auth.SignupParams{
		Username:  payload.Username,
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}

	h.revokeCurrent(r)
	csrf := h.issueCookies(w, token)
	api.WriteJSON(w, http.StatusCreated, map[string]any{
		"success":   true,
		"message":   "Account created successfully",
		"user":      user,
		"csrfToken": csrf,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Error(r.Context(), w, apperror.Validation("Invalid JSON"))
		return
	}

	user, token, err := h.Service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}

	h.revokeCurrent(r)
	csrf := h.issueCookies(w, token)
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Login successful",
		"user":      user,
		"csrfToken": csrf,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.revokeCurrent(r)
	h.Cookies.Clear(w)
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logout successful",
	})
}

// handleCurrentUser reports the session state. It never fails: an absent or
// anonymous session is simply unauthenticated.
func (h *Handler) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	session, ok := requestctx.GetSession(r.Context())
	if !ok || !session.Authenticated() {
		api.WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          session.User,
	})
}

// revokeCurrent best-effort revokes the session the request arrived with so
// that signup and login always rotate to a fresh token.
func (h *Handler) revokeCurrent(r *http.Request) {
	if session, ok := requestctx.GetSession(r.Context()); ok {
		_ = h.Service.Logout(r.Context(), session.Token)
	}
}
