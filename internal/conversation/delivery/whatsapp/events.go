package whatsapp

import (
	"context"
	"fmt"

	"go.mau.fi/whatsmeow"
	waE2E "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types/events"

	"relay-bot/internal/model"
)

func (t *Transport) handleEvent(rawEvt interface{}) {
	ctx := context.Background()

	switch evt := rawEvt.(type) {
	case *events.Message:
		t.handleMessage(ctx, evt)

	case *events.Connected:
		t.connected.Store(true)
		t.l.Infof(ctx, "whatsapp: connected")

	case *events.Disconnected:
		t.connected.Store(false)
		t.l.Warnf(ctx, "whatsapp: disconnected")

	case *events.LoggedOut:
		t.connected.Store(false)
		t.l.Errorf(ctx, "whatsapp: logged out (reason %s), delete %s and pair again", evt.Reason, t.cfg.DatabasePath)

	case *events.StreamReplaced:
		t.connected.Store(false)
		t.l.Errorf(ctx, "whatsapp: stream replaced, another client connected with this device")

	case *events.PairSuccess:
		t.l.Infof(ctx, "whatsapp: paired as %s (%s)", evt.ID, evt.Platform)
	}
}

func (t *Transport) handleMessage(ctx context.Context, evt *events.Message) {
	msg, ok := t.toInbound(evt)
	if !ok {
		return
	}
	if !t.emit(msg) {
		t.l.Warnf(ctx, "whatsapp: inbound queue full, dropping message %s from %s", msg.ID, msg.From)
	}
}

// toInbound converts a message event. It reports false for events the bot must not answer.
func (t *Transport) toInbound(evt *events.Message) (model.InboundMessage, bool) {
	if evt.Info.IsFromMe || evt.Info.Chat.Server == "broadcast" {
		return model.InboundMessage{}, false
	}
	if evt.Info.IsGroup && !t.cfg.RespondToGroups {
		return model.InboundMessage{}, false
	}

	body, media := extractContent(evt.Message)
	if body == "" && media == nil {
		return model.InboundMessage{}, false
	}

	msg := model.InboundMessage{
		ID:         string(evt.Info.ID),
		Transport:  Name,
		From:       model.SenderID(evt.Info.Chat.String()),
		PushName:   evt.Info.PushName,
		Body:       body,
		ReceivedAt: evt.Info.Timestamp,
	}
	if media != nil {
		msg.HasMedia = true
		msg.Download = t.downloader(media)
	}
	return msg, true
}

// attachment is a downloadable media message with its declared MIME type.
type attachment struct {
	msg      whatsmeow.DownloadableMessage
	mimeType string
}

// extractContent returns the text (or caption) of waMsg and its media, if any.
func extractContent(waMsg *waE2E.Message) (string, *attachment) {
	if waMsg == nil {
		return "", nil
	}

	switch {
	case waMsg.Conversation != nil:
		return waMsg.GetConversation(), nil
	case waMsg.ExtendedTextMessage != nil:
		return waMsg.ExtendedTextMessage.GetText(), nil
	case waMsg.ImageMessage != nil:
		img := waMsg.ImageMessage
		return img.GetCaption(), &attachment{msg: img, mimeType: img.GetMimetype()}
	case waMsg.VideoMessage != nil:
		video := waMsg.VideoMessage
		return video.GetCaption(), &attachment{msg: video, mimeType: video.GetMimetype()}
	case waMsg.AudioMessage != nil:
		audio := waMsg.AudioMessage
		return "", &attachment{msg: audio, mimeType: audio.GetMimetype()}
	case waMsg.DocumentMessage != nil:
		doc := waMsg.DocumentMessage
		return doc.GetCaption(), &attachment{msg: doc, mimeType: doc.GetMimetype()}
	case waMsg.StickerMessage != nil:
		sticker := waMsg.StickerMessage
		return "", &attachment{msg: sticker, mimeType: sticker.GetMimetype()}
	}
	return "", nil
}

func (t *Transport) downloader(a *attachment) model.MediaDownloader {
	return func(ctx context.Context) (model.Media, error) {
		if t.client == nil {
			return model.Media{}, ErrNotConnected
		}
		data, err := t.client.Download(ctx, a.msg)
		if err != nil {
			return model.Media{}, fmt.Errorf("whatsapp: download media: %w", err)
		}
		return model.Media{Data: data, MimeType: a.mimeType}, nil
	}
}
