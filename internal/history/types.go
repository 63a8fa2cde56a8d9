package history

import "time"

const (
	DefaultUserCapacity = 3
	DefaultBotCapacity  = 2
)

// Config bounds the store.
type Config struct {
	UserCapacity int
	BotCapacity  int

	// MaxSenders caps the number of tracked senders (least recently active evicted first).
	// Zero means unbounded.
	MaxSenders int

	// IdleTTL drops a sender that has been silent for this long. Zero disables expiry.
	IdleTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.UserCapacity <= 0 {
		c.UserCapacity = DefaultUserCapacity
	}
	if c.BotCapacity <= 0 {
		c.BotCapacity = DefaultBotCapacity
	}
	if c.MaxSenders < 0 {
		c.MaxSenders = 0
	}
	return c
}
