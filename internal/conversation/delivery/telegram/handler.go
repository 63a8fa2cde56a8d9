package telegram

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"relay-bot/internal/model"
	pkgResponse "relay-bot/pkg/response"
	pkgTelegram "relay-bot/pkg/telegram"
)

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It acknowledges immediately; the message is queued for the consumer.
func (t *Transport) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		t.l.Errorf(ctx, "telegram handler: failed to parse update: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	// Ignore non-message updates (polls, channel_post, etc.)
	if update.Message == nil || update.Message.Chat == nil {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}
	if update.Message.From != nil && update.Message.From.IsBot {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	msg := t.toInbound(update.Message)
	if msg.Body == "" && !msg.HasMedia {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	if !t.emit(msg) {
		t.l.Warnf(ctx, "telegram handler: inbound queue full, dropping message %s from %s", msg.ID, msg.From)
		pkgResponse.OK(c, map[string]string{"status": "dropped"})
		return
	}

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

func (t *Transport) toInbound(m *pkgTelegram.Message) model.InboundMessage {
	body := m.Text
	if body == "" {
		body = m.Caption
	}

	msg := model.InboundMessage{
		ID:         strconv.FormatInt(m.MessageID, 10),
		Transport:  Name,
		From:       senderID(m.Chat.ID),
		Body:       body,
		ReceivedAt: time.Unix(m.Date, 0),
	}
	if m.From != nil {
		msg.PushName = m.From.FirstName
		if msg.PushName == "" {
			msg.PushName = m.From.Username
		}
	}

	if ref, ok := mediaOf(m); ok {
		msg.HasMedia = true
		msg.Download = t.downloader(ref)
	}
	return msg
}
