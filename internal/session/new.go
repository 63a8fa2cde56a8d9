package session

import (
	"context"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"relay-bot/internal/model"
	pkgLog "relay-bot/pkg/log"
)

// slot is the init gate for one session.
type slot struct {
	mu   sync.Mutex
	chat Chat
}

type manager struct {
	l        pkgLog.Logger
	provider Provider
	cfg      Config

	shared *slot

	mu       sync.Mutex
	registry *expirable.LRU[model.SenderID, *slot]
}

// New creates a Manager. Shared scope serves every sender from one lazily created session.
func New(l pkgLog.Logger, provider Provider, cfg Config) (Manager, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	scope, err := ParseScope(string(cfg.Scope))
	if err != nil {
		return nil, err
	}
	cfg.Scope = scope

	m := &manager{l: l, provider: provider, cfg: cfg}
	if scope == ScopeShared {
		m.shared = &slot{}
		l.Warnf(context.Background(), "session: scope is %q, all senders share one backend conversation", scope)
	} else {
		m.registry = expirable.NewLRU[model.SenderID, *slot](cfg.MaxSessions, m.onEvict, cfg.IdleTTL)
	}
	return m, nil
}

func (m *manager) onEvict(sender model.SenderID, _ *slot) {
	m.l.Debugf(context.Background(), "session: dropped session for sender %s", sender)
}
