package console

import "errors"

var (
	ErrNotStarted       = errors.New("console: transport not started")
	ErrUnknownRecipient = errors.New("console: unknown recipient")
)
