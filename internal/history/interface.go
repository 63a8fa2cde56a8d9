package history

import "relay-bot/internal/model"

// Store keeps the rolling conversation window of every sender.
// Implementations are safe for concurrent use.
type Store interface {
	// RecordUserMessage appends text to the sender's user queue, evicting the oldest
	// entry past capacity, and returns the window as it stands after the append.
	RecordUserMessage(sender model.SenderID, text string) model.Window

	// RecordBotMessage appends a generated reply to the sender's bot queue.
	RecordBotMessage(sender model.SenderID, text string) model.Window

	// Get returns a copy of the sender's window, or an empty window.
	Get(sender model.SenderID) model.Window

	// Reset forgets everything about the sender.
	Reset(sender model.SenderID)

	// Len returns the number of senders currently tracked.
	Len() int
}
