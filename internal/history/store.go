package history

import "relay-bot/internal/model"

func (s *store) RecordUserMessage(sender model.SenderID, text string) model.Window {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.window(sender)
	w.UserMessages = appendBounded(w.UserMessages, text, s.cfg.UserCapacity)
	s.windows.Add(sender, w)
	return w.Clone()
}

func (s *store) RecordBotMessage(sender model.SenderID, text string) model.Window {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.window(sender)
	w.BotMessages = appendBounded(w.BotMessages, text, s.cfg.BotCapacity)
	s.windows.Add(sender, w)
	return w.Clone()
}

func (s *store) Get(sender model.SenderID) model.Window {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows.Peek(sender)
	if !ok {
		return model.Window{}
	}
	return w.Clone()
}

func (s *store) Reset(sender model.SenderID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.windows.Remove(sender)
}

func (s *store) Len() int {
	return s.windows.Len()
}

// window returns the sender's window, creating it when absent. Caller holds s.mu.
func (s *store) window(sender model.SenderID) *model.Window {
	if w, ok := s.windows.Get(sender); ok {
		return w
	}
	return &model.Window{}
}

// appendBounded appends v and keeps only the newest limit entries, oldest first.
func appendBounded(q []string, v string, limit int) []string {
	q = append(q, v)
	if len(q) <= limit {
		return q
	}
	trimmed := make([]string, limit)
	copy(trimmed, q[len(q)-limit:])
	return trimmed
}
