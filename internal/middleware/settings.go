package middleware

import (
	"context"
	"net/http"
	"strings"
)

type settingsKey string

const (
	// ReducedMotionKey is the key for the reduced motion preference in the request context.
	ReducedMotionKey settingsKey = "reducedMotion"

	motionCookie = "motion"
)

// SettingsMiddleware records whether the visitor asked for reduced motion,
// through the Sec-CH-Prefers-Reduced-Motion client hint, a "motion=reduced"
// query parameter or the cookie that parameter sets. Templates use it to
// render the parallax layers static.
func SettingsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Accept-CH", "Sec-CH-Prefers-Reduced-Motion")
		w.Header().Add("Vary", "Sec-CH-Prefers-Reduced-Motion")

		reduced := strings.EqualFold(r.Header.Get("Sec-CH-Prefers-Reduced-Motion"), "reduce")
		switch r.URL.Query().Get("motion") {
		case "reduced":
			reduced = true
			http.SetCookie(w, &http.Cookie{Name: motionCookie, Value: "reduced", Path: "/", MaxAge: 365 * 24 * 3600, SameSite: http.SameSiteLaxMode})
		case "full":
			reduced = false
			http.SetCookie(w, &http.Cookie{Name: motionCookie, Path: "/", MaxAge: -1})
		default:
			if c, err := r.Cookie(motionCookie); err == nil && c.Value == "reduced" {
				reduced = true
			}
		}

		ctx := context.WithValue(r.Context(), ReducedMotionKey, reduced)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IsReducedMotion returns true if the visitor prefers reduced motion.
func IsReducedMotion(ctx context.Context) bool {
	reduced, ok := ctx.Value(ReducedMotionKey).(bool)
	return ok && reduced
}
