package dispatch

import (
	"context"

	"relay-bot/internal/model"
	pkgLog "relay-bot/pkg/log"
)

// DefaultFallbackMessage is sent when no reply could be generated.
const DefaultFallbackMessage = "Oops, an error occurred. Please try again later."

type dispatcher struct {
	l      pkgLog.Logger
	sender Sender
}

// New returns a Dispatcher that sends synchronously through sender.
func New(l pkgLog.Logger, sender Sender) Dispatcher {
	return &dispatcher{l: l, sender: sender}
}

func (d *dispatcher) Deliver(ctx context.Context, msg model.OutboundMessage) {
	if err := d.sender.SendMessage(ctx, msg.To, msg.Text); err != nil {
		d.l.Errorf(ctx, "dispatch: send to %s failed (fallback=%t): %v", msg.To, msg.Fallback, err)
		return
	}
	d.l.Debugf(ctx, "dispatch: delivered %d chars to %s", len(msg.Text), msg.To)
}
