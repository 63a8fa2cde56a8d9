package session

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"relay-bot/internal/model"
)

// ChatCreator is the part of genai.Chats used here.
type ChatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (*genai.Chat, error)
}

// NewGenAIClient opens a Gemini API client on the official SDK.
func NewGenAIClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("session: create genai client: %w", err)
	}
	return client, nil
}

type sdkProvider struct {
	chats ChatCreator
}

// NewSDKProvider serves sessions from genai chats, usually client.Chats.
func NewSDKProvider(chats ChatCreator) Provider {
	return &sdkProvider{chats: chats}
}

func (p *sdkProvider) CreateSession(ctx context.Context, cfg GenerationConfig) (Chat, error) {
	chat, err := p.chats.Create(ctx, cfg.Model, toGenAIConfig(cfg), nil)
	if err != nil {
		return nil, fmt.Errorf("session: create genai chat: %w", err)
	}
	return &sdkChat{chat: chat}, nil
}

// sdkChat serializes sends; genai.Chat appends to its history without locking.
type sdkChat struct {
	mu   sync.Mutex
	chat *genai.Chat
}

func (c *sdkChat) Send(ctx context.Context, parts []model.Part) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.chat.SendMessage(ctx, toGenAIParts(parts)...)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func toGenAIConfig(cfg GenerationConfig) *genai.GenerateContentConfig {
	out := &genai.GenerateContentConfig{}
	if cfg.Temperature > 0 {
		out.Temperature = genai.Ptr(cfg.Temperature)
	}
	if cfg.MaxOutputTokens > 0 {
		out.MaxOutputTokens = cfg.MaxOutputTokens
	}
	return out
}

func toGenAIParts(parts []model.Part) []genai.Part {
	out := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.InlineData != nil {
			out = append(out, genai.Part{InlineData: &genai.Blob{Data: p.InlineData.Data, MIMEType: p.InlineData.MimeType}})
			continue
		}
		out = append(out, genai.Part{Text: p.Text})
	}
	return out
}
