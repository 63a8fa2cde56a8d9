package dispatch

import (
	"context"

	"relay-bot/internal/model"
)

// Dispatcher sends replies back to their senders. Delivery failures are logged and swallowed.
type Dispatcher interface {
	Deliver(ctx context.Context, msg model.OutboundMessage)
}

// Sender is the outbound half of a transport.
type Sender interface {
	SendMessage(ctx context.Context, to model.SenderID, text string) error
}
