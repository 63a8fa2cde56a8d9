package http

import "errors"

var (
	errSenderRequired       = errors.New("sender is required")
	errConversationNotFound = errors.New("conversation not found")
)
