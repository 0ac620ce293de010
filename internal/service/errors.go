package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnavailable is returned by features that need a database when none is configured.
	ErrUnavailable = errors.New("feature unavailable: no database configured")
	// ErrInvalidCredentials is returned for a failed password login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrRegistrationClosed is returned when self registration is disabled.
	ErrRegistrationClosed = errors.New("registration is closed")
)

// ValidationError maps input fields to what is wrong with them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// err returns nil when no field failed.
func (e *ValidationError) err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// IsValidation reports whether err carries field errors and returns them.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
