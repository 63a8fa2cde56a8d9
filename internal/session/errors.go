package session

import (
	"errors"
	"fmt"
)

var (
	ErrGenerationFailed = errors.New("session: generation failed")
	ErrEmptyResponse    = errors.New("session: empty response")
	ErrUnknownScope     = errors.New("session: unknown scope")
	ErrNilProvider      = errors.New("session: provider is required")
)

// GenerationError is returned by Send for any failure between session creation and text
// extraction. It matches ErrGenerationFailed and unwraps to the cause.
type GenerationError struct {
	Sender string
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("session: generation failed for %s: %v", e.Sender, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }
