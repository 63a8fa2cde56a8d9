package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"relay-bot/internal/conversation"
	"relay-bot/internal/model"
)

var (
	_ conversation.Transport = (*Transport)(nil)
	_ Handler                = (*Transport)(nil)
)

const senderPrefix = "telegram:"

func (t *Transport) Name() string { return Name }

func (t *Transport) Start(ctx context.Context) error {
	if t.cfg.WebhookURL != "" {
		if err := t.bot.SetWebhook(ctx, t.cfg.WebhookURL, t.cfg.SecretToken); err != nil {
			return err
		}
		t.l.Infof(ctx, "telegram: webhook registered at %s", t.cfg.WebhookURL)
	} else {
		t.l.Warnf(ctx, "telegram: no webhook url configured, expecting updates to be routed externally")
	}

	t.mu.Lock()
	t.connected = true
	t.mu.Unlock()
	return nil
}

func (t *Transport) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = false
	if !t.closed {
		t.closed = true
		close(t.messages)
	}
}

func (t *Transport) Messages() <-chan model.InboundMessage {
	return t.messages
}

func (t *Transport) Connected() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.connected
}

func (t *Transport) SendMessage(ctx context.Context, to model.SenderID, text string) error {
	chatID, err := parseChatID(to)
	if err != nil {
		return err
	}
	return t.bot.SendMessage(ctx, chatID, text)
}

// emit queues msg without blocking; it reports false when the queue is full or closed.
func (t *Transport) emit(msg model.InboundMessage) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return false
	}
	select {
	case t.messages <- msg:
		return true
	default:
		return false
	}
}

func senderID(chatID int64) model.SenderID {
	return model.SenderID(senderPrefix + strconv.FormatInt(chatID, 10))
}

func parseChatID(sender model.SenderID) (int64, error) {
	raw, ok := strings.CutPrefix(string(sender), senderPrefix)
	if !ok {
		return 0, fmt.Errorf("telegram: %q is not a telegram sender", sender)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("telegram: invalid chat id %q: %w", raw, err)
	}
	return id, nil
}
