package session

import (
	"context"
	"strings"

	"relay-bot/internal/model"
)

func (m *manager) EnsureSession(ctx context.Context, sender model.SenderID) error {
	_, err := m.ensure(ctx, sender)
	return err
}

func (m *manager) Send(ctx context.Context, sender model.SenderID, parts []model.Part) (string, error) {
	chat, err := m.ensure(ctx, sender)
	if err != nil {
		return "", &GenerationError{Sender: string(sender), Err: err}
	}

	text, err := chat.Send(ctx, parts)
	if err != nil {
		return "", &GenerationError{Sender: string(sender), Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &GenerationError{Sender: string(sender), Err: ErrEmptyResponse}
	}
	return text, nil
}

func (m *manager) State(sender model.SenderID) State {
	s := m.peek(sender)
	if s == nil {
		return StateUninitialized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chat == nil {
		return StateUninitialized
	}
	return StateActive
}

func (m *manager) Scope() Scope {
	return m.cfg.Scope
}

func (m *manager) Active() int {
	if m.shared != nil {
		if m.State("") == StateActive {
			return 1
		}
		return 0
	}
	n := 0
	for _, s := range m.registry.Values() {
		s.mu.Lock()
		if s.chat != nil {
			n++
		}
		s.mu.Unlock()
	}
	return n
}

// ensure returns the sender's session, creating it under the slot gate.
func (m *manager) ensure(ctx context.Context, sender model.SenderID) (Chat, error) {
	s := m.slot(sender)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chat != nil {
		return s.chat, nil
	}

	chat, err := m.provider.CreateSession(ctx, m.cfg.Generation)
	if err != nil {
		m.l.Errorf(ctx, "session: create session for %s: %v", sender, err)
		return nil, err
	}
	s.chat = chat
	m.l.Infof(ctx, "session: created %s session (model=%s)", m.cfg.Scope, m.cfg.Generation.Model)
	return chat, nil
}

func (m *manager) slot(sender model.SenderID) *slot {
	if m.shared != nil {
		return m.shared
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.registry.Get(sender); ok {
		return s
	}
	s := &slot{}
	m.registry.Add(sender, s)
	return s
}

func (m *manager) peek(sender model.SenderID) *slot {
	if m.shared != nil {
		return m.shared
	}
	s, _ := m.registry.Peek(sender)
	return s
}
