package handler

import (
	"carlton/internal/auth"
	"carlton/internal/data"
	"carlton/internal/logger"
	"carlton/internal/middleware"
	"carlton/internal/service"
	"crypto/rand"
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"time"
)

const stateCookie = "carlton_oidc_state"

// AuthHandler holds the dependencies for the authentication handlers.
type AuthHandler struct {
	users  *service.UserService
	tokens *auth.TokenIssuer
	oidc   *auth.Authenticator // nil when SSO is not configured
	log    logger.Logger
}

// NewAuthHandler creates a new AuthHandler. a may be nil.
func NewAuthHandler(users *service.UserService, tokens *auth.TokenIssuer, a *auth.Authenticator, log logger.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, oidc: a, log: log}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *data.User `json:"user"`
}

func (h *AuthHandler) issue(w http.ResponseWriter, status int, u *data.User) {
	token, exp, err := h.tokens.Issue(u)
	if err != nil {
		middleware.WriteError(w, h.log, err)
		return
	}
	writeJSON(w, status, tokenResponse{Token: token, ExpiresAt: exp, User: u})
}

// loginHandler exchanges email and password for a bearer token.
func (h *AuthHandler) loginHandler(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if !decodeJSON(w, r, &c) {
		return
	}
	u, err := h.users.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		middleware.WriteError(w, h.log, err)
		return
	}
	h.log.Info("User " + u.Email + " logged in")
	h.issue(w, http.StatusOK, u)
}

// registerHandler creates an account. An admin caller creates it for someone
// else and gets the user back; a self-registration gets a token.
func (h *AuthHandler) registerHandler(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}
	byAdmin := middleware.GetUserInfo(r.Context()).Role == data.RoleAdmin
	u, err := h.users.Register(r.Context(), in, byAdmin)
	if err != nil {
		middleware.WriteError(w, h.log, err)
		return
	}
	h.log.With(map[string]interface{}{"user_id": u.ID, "role": u.Role}).Info("User registered")
	if byAdmin {
		writeJSON(w, http.StatusCreated, u)
		return
	}
	h.issue(w, http.StatusCreated, u)
}

// meHandler returns the caller's account.
func (h *AuthHandler) meHandler(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetUser(r.Context(), middleware.GetUserInfo(r.Context()).ID)
	if err != nil {
		middleware.WriteError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// oidcLoginHandler redirects the user to the OIDC provider to log in.
// It uses a random 'state' string for CSRF protection.
func (h *AuthHandler) oidcLoginHandler(w http.ResponseWriter, r *http.Request) {
	if h.oidc == nil {
		middleware.WriteProblem(w, http.StatusNotFound, "Single sign-on is not configured", "")
		return
	}
	state, err := randString(16)
	if err != nil {
		middleware.WriteError(w, h.log, err)
		return
	}
	// Store the state in a short-lived cookie to verify on callback.
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/api/auth/oidc",
		MaxAge:   int(10 * time.Minute / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.oidc.AuthCodeURL(state), http.StatusFound)
}

// oidcCallbackHandler finishes the code flow and hands the admin app a token
// in the URL fragment, which never reaches the server logs.
func (h *AuthHandler) oidcCallbackHandler(w http.ResponseWriter, r *http.Request) {
	if h.oidc == nil {
		middleware.WriteProblem(w, http.StatusNotFound, "Single sign-on is not configured", "")
		return
	}
	c, err := r.Cookie(stateCookie)
	if err != nil || c.Value == "" || r.URL.Query().Get("state") != c.Value {
		middleware.WriteProblem(w, http.StatusBadRequest, "Invalid login state", "Start the sign-in again.")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/api/auth/oidc", MaxAge: -1})

	id, err := h.oidc.Identify(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.log.Warn("OIDC sign-in failed: " + err.Error())
		middleware.WriteProblem(w, http.StatusUnauthorized, "Sign-in failed", "The identity provider response could not be verified.")
		return
	}
	u, err := h.users.FindOrCreateOIDCUser(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, h.log, err)
		return
	}
	token, _, err := h.tokens.Issue(u)
	if err != nil {
		middleware.WriteError(w, h.log, err)
		return
	}
	h.log.Info("User " + u.Email + " signed in with OIDC")
	http.Redirect(w, r, "/admin/login#token="+url.QueryEscape(token), http.StatusFound)
}

// randString is a helper function to generate a random string for the 'state' parameter.
func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
