package middleware

import (
	"carlton/internal/auth"
	"carlton/internal/logger"
	"context"
	"net/http"
	"strings"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

// Enforcer decides whether a role may call a method on a path.
type Enforcer interface {
	Enforce(rvals ...interface{}) (bool, error)
}

// Accounts reports the role an account holds now, so demotions and
// deletions apply before the caller's token expires.
type Accounts interface {
	CurrentRole(ctx context.Context, id int64) (string, error)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Authenticate puts the caller identified by a valid bearer token into the
// request context. Requests without one continue as anonymous.
// With accounts set, the role comes from the account rather than the token,
// and tokens of unknown accounts are ignored.
func Authenticate(tokens TokenParser, accounts Accounts) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := tokens.Parse(raw)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			info := &UserInfo{ID: claims.UserID(), Subject: claims.Email, Role: claims.Role}
			if accounts != nil {
				role, err := accounts.CurrentRole(r.Context(), info.ID)
				if err != nil {
					next.ServeHTTP(w, r)
					return
				}
				info.Role = role
			}
			next.ServeHTTP(w, r.WithContext(SetUserInfo(r.Context(), info)))
		})
	}
}

// Authorizer creates a new middleware for authorization.
// It requires an authenticated caller and checks its role with Casbin.
// Run it after Authenticate.
func Authorizer(e Enforcer, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userInfo := GetUserInfo(r.Context())
			if !userInfo.IsAuthenticated() {
				w.Header().Set("WWW-Authenticate", `Bearer realm="carlton"`)
				WriteProblem(w, http.StatusUnauthorized, "Authentication required", "A valid bearer token is required.")
				return
			}

			allowed, err := e.Enforce(userInfo.Role, r.URL.Path, r.Method)
			if err != nil {
				log.Error(err, "Authorization check failed")
				WriteProblem(w, http.StatusInternalServerError, "Authorization error", "")
				return
			}
			if !allowed {
				WriteProblem(w, http.StatusForbidden, "Forbidden", "Your role does not allow this action.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
