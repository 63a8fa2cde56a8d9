package usecase

import (
	"context"
	"fmt"
	"strings"

	"relay-bot/internal/conversation"
	"relay-bot/internal/model"
)

func (uc *implUseCase) HandleMessage(ctx context.Context, msg model.InboundMessage) error {
	if msg.From == "" {
		return conversation.ErrMissingSender
	}

	// Text-less messages without media (reactions, protocol messages) are not forwarded
	// and leave the history untouched.
	body := strings.TrimSpace(msg.Body)
	if body == "" && !msg.HasMedia {
		uc.l.Debugf(ctx, "conversation: ignoring empty message %s from %s", msg.ID, msg.From)
		return nil
	}

	if body == conversation.ResetCommand {
		uc.history.Reset(msg.From)
		uc.dispatcher.Deliver(ctx, model.OutboundMessage{To: msg.From, Text: uc.resetReply})
		return nil
	}

	window := uc.history.RecordUserMessage(msg.From, msg.Body)

	var attachment *model.Attachment
	if msg.HasMedia {
		att, err := uc.attachment(ctx, msg)
		if err != nil {
			uc.fail(ctx, msg, err)
			return nil
		}
		attachment = &att
	}

	p := uc.prompts.Build(window, attachment)
	reply, err := uc.sessions.Send(ctx, msg.From, p.Parts())
	if err != nil {
		uc.fail(ctx, msg, err)
		return nil
	}

	uc.history.RecordBotMessage(msg.From, reply)
	uc.dispatcher.Deliver(ctx, model.OutboundMessage{To: msg.From, Text: reply})
	return nil
}

func (uc *implUseCase) attachment(ctx context.Context, msg model.InboundMessage) (model.Attachment, error) {
	if msg.Download == nil {
		return model.Attachment{}, conversation.ErrNoDownloader
	}
	m, err := msg.Download(ctx)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("download media: %w", err)
	}
	return uc.media.ToAttachment(m)
}

// fail logs err and sends the fallback apology. Nothing is recorded in the bot history.
func (uc *implUseCase) fail(ctx context.Context, msg model.InboundMessage, err error) {
	uc.l.Errorf(ctx, "conversation: message %s from %s failed: %v", msg.ID, msg.From, err)
	uc.dispatcher.Deliver(ctx, model.OutboundMessage{To: msg.From, Text: uc.fallback, Fallback: true})
}

func (uc *implUseCase) Window(sender model.SenderID) model.Window {
	return uc.history.Get(sender)
}

func (uc *implUseCase) Reset(sender model.SenderID) {
	uc.history.Reset(sender)
}

func (uc *implUseCase) Stats() conversation.Stats {
	return conversation.Stats{
		Senders:        uc.history.Len(),
		SessionScope:   string(uc.sessions.Scope()),
		ActiveSessions: uc.sessions.Active(),
	}
}
