package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("backend unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
}

// Unauthorized errors match ErrUnauthorized so callers can send the user
// back to login.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

func newAPIError(status int, body []byte) *APIError {
	var env envelope
	msg := ""
	if json.Unmarshal(body, &env) == nil {
		if env.Meta != nil {
			msg = env.Meta.Message
		}
		msg = firstNonEmpty(msg, env.Message)
	}
	return &APIError{Status: status, Message: firstNonEmpty(msg, http.StatusText(status))}
}
