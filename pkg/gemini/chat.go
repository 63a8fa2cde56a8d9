package gemini

import (
	"context"
	"sync"
)

// Chat is a multi-turn conversation. The API is stateless so every call replays the stored turns.
// Turns are sent one at a time.
type Chat struct {
	client *geminiImpl
	cfg    ChatConfig

	mu      sync.Mutex
	history []Content
}

// SendMessage sends one user turn. The turn and the reply are stored only when the model answered.
func (c *Chat) SendMessage(ctx context.Context, parts ...Part) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	userTurn := Content{Role: RoleUser, Parts: parts}
	req := &Request{
		SystemInstruction: c.cfg.SystemInstruction,
		Messages:          append(append(make([]Content, 0, len(c.history)+1), c.history...), userTurn),
		Temperature:       c.cfg.Temperature,
		MaxTokens:         c.cfg.MaxTokens,
	}

	resp, err := c.client.GenerateContent(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Content.Parts) == 0 {
		return resp, nil
	}

	c.history = append(c.history, userTurn, resp.Content)
	if limit := c.cfg.MaxHistory; limit > 0 && len(c.history) > limit {
		c.history = append([]Content(nil), c.history[len(c.history)-limit:]...)
	}
	return resp, nil
}

// History returns a copy of the stored turns.
func (c *Chat) History() []Content {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Content(nil), c.history...)
}
