package middleware

import (
	"carlton/internal/auth"
	"carlton/internal/data"
	"carlton/internal/logger"
	"carlton/internal/service"
	"encoding/json"
	"errors"
	"net/http"
)

// Problem is an RFC 7807 error body.
type Problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// WriteProblem writes an application/problem+json response.
func WriteProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblem(w, Problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// WriteError maps a service or data error onto a problem response.
// Unexpected errors are logged and reported without detail.
func WriteError(w http.ResponseWriter, log logger.Logger, err error) {
	if ve, ok := service.IsValidation(err); ok {
		writeProblem(w, Problem{
			Type:   "about:blank",
			Title:  "Validation failed",
			Status: http.StatusUnprocessableEntity,
			Errors: ve.Fields,
		})
		return
	}
	switch {
	case errors.Is(err, data.ErrNotFound):
		WriteProblem(w, http.StatusNotFound, "Not found", "")
	case errors.Is(err, data.ErrConflict):
		WriteProblem(w, http.StatusConflict, "Conflict", "The change conflicts with existing data.")
	case errors.Is(err, service.ErrUnavailable):
		WriteProblem(w, http.StatusServiceUnavailable, "Service unavailable", "The admin backend needs a database.")
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		WriteProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, service.ErrRegistrationClosed):
		WriteProblem(w, http.StatusForbidden, "Forbidden", err.Error())
	default:
		log.Error(err, "Request failed")
		WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// Unavailable answers every request with 503. It stands in for the admin
// API when the site runs without a database.
func Unavailable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "3600")
	WriteProblem(w, http.StatusServiceUnavailable, "Service unavailable", "The admin backend needs a database.")
}
