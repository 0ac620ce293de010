package middleware

import (
	"carlton/internal/logger"
	"fmt"
	"io"
	"net/http"
)

// AppError represents a custom error type for the application.
type AppError struct {
	Error   error
	Message string
	Code    int
}

// AppHandler is a custom handler function type that returns an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

// Renderer renders a named page template.
type Renderer interface {
	Render(w io.Writer, r *http.Request, name string, data map[string]interface{}) error
}

// Error is a middleware that converts handler errors into user-friendly error pages.
func Error(log logger.Logger, view Renderer) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					log.Error(err, "Panic recovered")
					renderError(w, r, log, view, http.StatusInternalServerError, "Something went wrong on our side.")
				}
			}()

			if err := next(w, r); err != nil {
				if err.Code >= 500 {
					log.Error(err.Error, err.Message)
				} else if err.Error != nil {
					log.Debug(err.Message + ": " + err.Error.Error())
				}
				renderError(w, r, log, view, err.Code, err.Message)
			}
		})
	}
}

func renderError(w http.ResponseWriter, r *http.Request, log logger.Logger, view Renderer, code int, message string) {
	data := map[string]interface{}{
		"StatusCode": code,
		"StatusText": http.StatusText(code),
		"Message":    message,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := view.Render(w, r, "error.html", data); err != nil {
		log.Error(err, "Failed to render error page")
	}
}
