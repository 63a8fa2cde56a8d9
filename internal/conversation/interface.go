package conversation

import (
	"context"

	"relay-bot/internal/model"
)

// UseCase defines the business logic interface for the conversation domain.
type UseCase interface {
	// HandleMessage records an inbound message, asks the backend for a reply and hands the
	// reply (or the fallback apology) to the dispatcher. Generation and delivery failures are
	// absorbed; only invalid input is returned as an error.
	HandleMessage(ctx context.Context, msg model.InboundMessage) error

	// Window returns the sender's current history.
	Window(sender model.SenderID) model.Window

	// Reset forgets the sender's history.
	Reset(sender model.SenderID)

	// Stats summarises the in-memory state.
	Stats() Stats
}

// Transport is a messaging network the bot is reachable on.
type Transport interface {
	Name() string

	// Start connects and begins emitting inbound messages. It returns once connected.
	Start(ctx context.Context) error

	// Stop disconnects and closes the Messages channel.
	Stop()

	Messages() <-chan model.InboundMessage

	SendMessage(ctx context.Context, to model.SenderID, text string) error

	Connected() bool
}
