package session

import (
	"context"

	"relay-bot/internal/model"
)

// Manager owns the backend conversation sessions.
// Implementations are safe for concurrent use.
type Manager interface {
	// EnsureSession creates the session serving sender if it does not exist yet.
	// Concurrent callers wait for a single creation. A failed creation may be retried.
	EnsureSession(ctx context.Context, sender model.SenderID) error

	// Send forwards parts to the sender's session and returns the reply text.
	// Every failure is a *GenerationError.
	Send(ctx context.Context, sender model.SenderID, parts []model.Part) (string, error)

	// State reports the lifecycle of the session serving sender.
	State(sender model.SenderID) State

	// Scope returns the configured session scope.
	Scope() Scope

	// Active returns the number of live sessions.
	Active() int
}

// Provider creates backend sessions.
type Provider interface {
	CreateSession(ctx context.Context, cfg GenerationConfig) (Chat, error)
}

// Chat is one backend conversation.
type Chat interface {
	Send(ctx context.Context, parts []model.Part) (string, error)
}
