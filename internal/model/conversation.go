package model

import (
	"context"
	"time"
)

// SenderID identifies a conversation participant on a transport.
type SenderID string

// Window is the bounded recent history kept for one sender.
type Window struct {
	UserMessages []string // oldest first
	BotMessages  []string // oldest first
}

// Clone returns a deep copy so callers never share backing arrays with the store.
func (w Window) Clone() Window {
	return Window{
		UserMessages: append([]string(nil), w.UserMessages...),
		BotMessages:  append([]string(nil), w.BotMessages...),
	}
}

// Media is a downloaded attachment as delivered by a transport.
type Media struct {
	Data     []byte
	MimeType string
}

// Attachment is the backend representation of a media payload.
type Attachment struct {
	Data     []byte
	MimeType string
}

// Part is one element of a prompt: either text or inline data.
type Part struct {
	Text       string
	InlineData *Attachment
}

// MediaDownloader fetches the media attached to an inbound message.
type MediaDownloader func(ctx context.Context) (Media, error)

// InboundMessage is a message received from a transport.
type InboundMessage struct {
	ID         string
	Transport  string
	From       SenderID
	PushName   string
	Body       string
	HasMedia   bool
	ReceivedAt time.Time
	Download   MediaDownloader
}

// OutboundMessage is a reply waiting to be sent back through a transport.
type OutboundMessage struct {
	To       SenderID
	Text     string
	Fallback bool
}
