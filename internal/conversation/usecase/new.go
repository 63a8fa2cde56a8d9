package usecase

import (
	"relay-bot/internal/conversation"
	"relay-bot/internal/dispatch"
	"relay-bot/internal/history"
	"relay-bot/internal/media"
	"relay-bot/internal/prompt"
	"relay-bot/internal/session"
	pkgLog "relay-bot/pkg/log"
)

type implUseCase struct {
	l          pkgLog.Logger
	history    history.Store
	media      media.Adapter
	prompts    *prompt.Builder
	sessions   session.Manager
	dispatcher dispatch.Dispatcher
	fallback   string
	resetReply string
}

// Options carries the user facing texts. Empty values select the defaults.
type Options struct {
	FallbackMessage string
	ResetReply      string
}

// New creates a new conversation UseCase instance.
func New(
	l pkgLog.Logger,
	store history.Store,
	adapter media.Adapter,
	builder *prompt.Builder,
	sessions session.Manager,
	dispatcher dispatch.Dispatcher,
	opts Options,
) conversation.UseCase {
	if opts.FallbackMessage == "" {
		opts.FallbackMessage = dispatch.DefaultFallbackMessage
	}
	if opts.ResetReply == "" {
		opts.ResetReply = conversation.DefaultResetReply
	}
	return &implUseCase{
		l:          l,
		history:    store,
		media:      adapter,
		prompts:    builder,
		sessions:   sessions,
		dispatcher: dispatcher,
		fallback:   opts.FallbackMessage,
		resetReply: opts.ResetReply,
	}
}
