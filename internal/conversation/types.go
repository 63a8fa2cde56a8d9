package conversation

const (
	// ResetCommand clears the sender's history.
	ResetCommand = "/reset"

	DefaultResetReply = "Conversation cleared."
)

// Stats is a snapshot of the conversation state.
type Stats struct {
	Senders        int    `json:"senders"`
	SessionScope   string `json:"session_scope"`
	ActiveSessions int    `json:"active_sessions"`
}
