package session

import (
	"fmt"
	"time"
)

// State is the lifecycle of a conversation session. Active is terminal.
type State int

const (
	StateUninitialized State = iota
	StateActive
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "uninitialized"
}

// Scope decides which senders share a backend session.
type Scope string

const (
	ScopeShared    Scope = "shared"
	ScopePerSender Scope = "per_sender"
)

// ParseScope accepts "shared", "per_sender" or an empty string (shared).
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeShared:
		return ScopeShared, nil
	case ScopePerSender:
		return ScopePerSender, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScope, s)
}

// GenerationConfig is fixed at session creation.
type GenerationConfig struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// Config configures a Manager.
type Config struct {
	Scope      Scope
	Generation GenerationConfig

	// MaxSessions and IdleTTL bound the per_sender registry. Zero means unbounded.
	MaxSessions int
	IdleTTL     time.Duration
}
