package backend

import (
	"encoding/json" // Error bodies
	"errors"        // Error inspection
	"fmt"           // Error messages
	"net/http"      // Status codes
	"regexp"        // Conflict messages
	"strings"       // Trimming
)

// ErrNotFound is returned when a record id is not in the backend collection
var ErrNotFound = errors.New("record not found")

// conflictPattern matches backend messages that describe a duplicate
var conflictPattern = regexp.MustCompile(`(?i)already|exists|booked|duplicate`)

// APIError is a non-2xx response from the backend
type APIError struct {
	Op      string // Backend operation
	Status  int    // HTTP status code
	Message string // Backend supplied message, may be empty
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: backend returned %d", e.Op, e.Status)
}

func newAPIError(op string, status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if json.Unmarshal(body, &payload) == nil {
		msg = payload.Message
		if msg == "" {
			msg = payload.Error
		}
	}
	return &APIError{Op: op, Status: status, Message: strings.TrimSpace(msg)}
}

// IsUnauthorized reports a 401 from the backend
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsConflict reports a duplicate: a 409, or a message saying so
func IsConflict(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusConflict || conflictPattern.MatchString(apiErr.Message)
}

// Message returns the backend message of err, or fallback
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
