package history

import (
	"context"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"relay-bot/internal/model"
	pkgLog "relay-bot/pkg/log"
)

type store struct {
	l   pkgLog.Logger
	cfg Config

	mu      sync.Mutex
	windows *expirable.LRU[model.SenderID, *model.Window]
}

// New creates an in-memory Store.
func New(l pkgLog.Logger, cfg Config) Store {
	cfg = cfg.withDefaults()
	s := &store{l: l, cfg: cfg}
	s.windows = expirable.NewLRU[model.SenderID, *model.Window](cfg.MaxSenders, s.onEvict, cfg.IdleTTL)
	return s
}

func (s *store) onEvict(sender model.SenderID, _ *model.Window) {
	s.l.Debugf(context.Background(), "history: dropped window for sender %s", sender)
}
