package session

import (
	"context"
	"fmt"

	"relay-bot/internal/model"
	"relay-bot/pkg/gemini"
)

type restProvider struct {
	client     gemini.IGemini
	maxHistory int
}

// NewRESTProvider serves sessions from the Gemini REST client. The model is the client's;
// maxHistory bounds the turns replayed on every call (zero keeps all).
func NewRESTProvider(client gemini.IGemini, maxHistory int) Provider {
	return &restProvider{client: client, maxHistory: maxHistory}
}

func (p *restProvider) CreateSession(ctx context.Context, cfg GenerationConfig) (Chat, error) {
	if cfg.Model != "" && cfg.Model != p.client.Model() {
		return nil, fmt.Errorf("session: client is bound to model %s, not %s", p.client.Model(), cfg.Model)
	}
	chat := p.client.StartChat(gemini.ChatConfig{
		Temperature: float64(cfg.Temperature),
		MaxTokens:   int(cfg.MaxOutputTokens),
		MaxHistory:  p.maxHistory,
	})
	return &restChat{chat: chat}, nil
}

type restChat struct {
	chat *gemini.Chat
}

func (c *restChat) Send(ctx context.Context, parts []model.Part) (string, error) {
	resp, err := c.chat.SendMessage(ctx, toGeminiParts(parts)...)
	if err != nil {
		return "", err
	}
	if resp.Text() == "" && resp.BlockReason != "" {
		return "", fmt.Errorf("session: prompt blocked: %s", resp.BlockReason)
	}
	return resp.Text(), nil
}

func toGeminiParts(parts []model.Part) []gemini.Part {
	out := make([]gemini.Part, 0, len(parts))
	for _, p := range parts {
		if p.InlineData != nil {
			out = append(out, gemini.Part{InlineData: &gemini.Blob{MimeType: p.InlineData.MimeType, Data: p.InlineData.Data}})
			continue
		}
		out = append(out, gemini.Part{Text: p.Text})
	}
	return out
}
