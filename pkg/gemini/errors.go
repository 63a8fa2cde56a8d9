package gemini

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey = errors.New("gemini: api key is required")
	ErrMissingModel  = errors.New("gemini: model is required")
	ErrNoCandidates  = errors.New("gemini: response has no candidates")
)

// APIError is returned for any non-200 answer from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini: API error %d: %s", e.StatusCode, e.Body)
}
