package conversation

import "errors"

// Domain-specific errors for the conversation package.
var (
	ErrMissingSender = errors.New("inbound message has no sender")
	ErrNoDownloader  = errors.New("message has media but no downloader")
)
