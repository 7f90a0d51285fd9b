package provision

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidConfig is returned for a config that fails Normalize.
	ErrInvalidConfig = errors.New("invalid session config")

	// ErrNoWords is returned when no word matches the config's filters.
	ErrNoWords = errors.New("no words match the session config")

	// ErrNotFound is returned for unknown sessions and configs.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when a learner touches another learner's
	// session or config.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadySubmitted is returned when results arrive twice.
	ErrAlreadySubmitted = errors.New("session already submitted")

	// ErrEmptyResults is returned for a submission with no results.
	ErrEmptyResults = errors.New("no results submitted")

	// ErrUnauthorized is returned by Client when the server rejects the
	// bearer token.
	ErrUnauthorized = errors.New("unauthorized")
)

// errorCodes ties each sentinel to its HTTP status and wire code.
var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{ErrInvalidConfig, http.StatusBadRequest, "invalid_config"},
	{ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{ErrForbidden, http.StatusForbidden, "forbidden"},
	{ErrNotFound, http.StatusNotFound, "not_found"},
	{ErrAlreadySubmitted, http.StatusConflict, "already_submitted"},
	{ErrNoWords, http.StatusUnprocessableEntity, "no_words"},
	{ErrEmptyResults, http.StatusUnprocessableEntity, "empty_results"},
}

// HTTPStatus maps err to a response status and machine-readable code.
// Unknown errors are 500 "internal".
func HTTPStatus(err error) (int, string) {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.status, ec.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

// sentinelFor recovers the sentinel from a wire code, falling back to the
// status when the code is unknown.
func sentinelFor(status int, code string) error {
	for _, ec := range errorCodes {
		if ec.code == code {
			return ec.err
		}
	}
	for _, ec := range errorCodes {
		if ec.status == status {
			return ec.err
		}
	}
	return nil
}

// APIError is a non-2xx response from the Wordiz server.
type APIError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }
