package history_test

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"relay-bot/internal/history"
	"relay-bot/internal/model"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) Info(ctx context.Context, args ...interface{})                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...interface{})   {}
func (m *mockLogger) Warn(ctx context.Context, args ...interface{})                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...interface{})   {}
func (m *mockLogger) Error(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...interface{})                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...interface{}) {}
func (m *mockLogger) Panic(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...interface{})  {}

func newStore(cfg history.Config) history.Store {
	return history.New(&mockLogger{}, cfg)
}

func TestRecordUserMessage_Bounded(t *testing.T) {
	for n := 1; n <= 7; n++ {
		t.Run(fmt.Sprintf("%d messages", n), func(t *testing.T) {
			s := newStore(history.Config{})
			var want []string
			for i := 1; i <= n; i++ {
				msg := fmt.Sprintf("m%d", i)
				s.RecordUserMessage("A", msg)
				want = append(want, msg)
			}
			if len(want) > 3 {
				want = want[len(want)-3:]
			}

			got := s.Get("A").UserMessages
			if !reflect.DeepEqual(got, want) {
				t.Errorf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestRecordBotMessage_Bounded(t *testing.T) {
	s := newStore(history.Config{})
	for i := 1; i <= 5; i++ {
		w := s.RecordBotMessage("A", fmt.Sprintf("r%d", i))
		wantLen := i
		if wantLen > 2 {
			wantLen = 2
		}
		if len(w.BotMessages) != wantLen {
			t.Fatalf("after %d replies expected %d bot messages, got %d", i, wantLen, len(w.BotMessages))
		}
	}

	got := s.Get("A").BotMessages
	if !reflect.DeepEqual(got, []string{"r4", "r5"}) {
		t.Errorf("unexpected bot messages: %v", got)
	}
	if len(s.Get("A").UserMessages) != 0 {
		t.Errorf("bot replies must not touch the user queue")
	}
}

func TestRecordUserMessage_ReturnsSnapshot(t *testing.T) {
	s := newStore(history.Config{})
	w := s.RecordUserMessage("A", "hi")
	w.UserMessages[0] = "mutated"

	if got := s.Get("A").UserMessages[0]; got != "hi" {
		t.Errorf("store leaked its backing array, got %q", got)
	}
}

func TestGet_Unknown(t *testing.T) {
	s := newStore(history.Config{})
	w := s.Get("nobody")
	if len(w.UserMessages) != 0 || len(w.BotMessages) != 0 {
		t.Errorf("expected empty window, got %+v", w)
	}
	if s.Len() != 0 {
		t.Errorf("Get must not create a window")
	}
}

func TestSendersAreIsolated(t *testing.T) {
	s := newStore(history.Config{})
	s.RecordUserMessage("A", "a1")
	s.RecordUserMessage("B", "b1")
	s.RecordUserMessage("A", "a2")

	if got := s.Get("A").UserMessages; !reflect.DeepEqual(got, []string{"a1", "a2"}) {
		t.Errorf("unexpected window for A: %v", got)
	}
	if got := s.Get("B").UserMessages; !reflect.DeepEqual(got, []string{"b1"}) {
		t.Errorf("unexpected window for B: %v", got)
	}
}

func TestCustomCapacity(t *testing.T) {
	s := newStore(history.Config{UserCapacity: 5, BotCapacity: 1})
	for i := 0; i < 6; i++ {
		s.RecordUserMessage("A", fmt.Sprint(i))
		s.RecordBotMessage("A", fmt.Sprint(i))
	}
	w := s.Get("A")
	if len(w.UserMessages) != 5 || w.UserMessages[0] != "1" {
		t.Errorf("unexpected user queue: %v", w.UserMessages)
	}
	if !reflect.DeepEqual(w.BotMessages, []string{"5"}) {
		t.Errorf("unexpected bot queue: %v", w.BotMessages)
	}
}

func TestReset(t *testing.T) {
	s := newStore(history.Config{})
	s.RecordUserMessage("A", "hi")
	s.Reset("A")

	if len(s.Get("A").UserMessages) != 0 {
		t.Errorf("expected empty window after reset")
	}
	if s.Len() != 0 {
		t.Errorf("expected no tracked senders, got %d", s.Len())
	}
}

func TestMaxSenders_EvictsLeastRecentlyActive(t *testing.T) {
	s := newStore(history.Config{MaxSenders: 2})
	s.RecordUserMessage("A", "a")
	s.RecordUserMessage("B", "b")
	s.RecordUserMessage("A", "a again")
	s.RecordUserMessage("C", "c")

	if s.Len() != 2 {
		t.Fatalf("expected 2 senders, got %d", s.Len())
	}
	if len(s.Get("B").UserMessages) != 0 {
		t.Errorf("expected B to be evicted")
	}
	if len(s.Get("A").UserMessages) != 2 {
		t.Errorf("expected A to survive")
	}
}

func TestIdleTTL(t *testing.T) {
	s := newStore(history.Config{IdleTTL: 30 * time.Millisecond})
	s.RecordUserMessage("A", "hi")
	time.Sleep(80 * time.Millisecond)

	if len(s.Get("A").UserMessages) != 0 {
		t.Errorf("expected window to expire")
	}
}

func TestConcurrentAppends(t *testing.T) {
	s := newStore(history.Config{})
	senders := []model.SenderID{"A", "B", "C", "D"}

	var wg sync.WaitGroup
	for _, sender := range senders {
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(sender model.SenderID, i int) {
				defer wg.Done()
				s.RecordUserMessage(sender, fmt.Sprint(i))
				s.RecordBotMessage(sender, fmt.Sprint(i))
			}(sender, i)
		}
	}
	wg.Wait()

	for _, sender := range senders {
		w := s.Get(sender)
		if len(w.UserMessages) != 3 {
			t.Errorf("%s: expected 3 user messages, got %d", sender, len(w.UserMessages))
		}
		if len(w.BotMessages) != 2 {
			t.Errorf("%s: expected 2 bot messages, got %d", sender, len(w.BotMessages))
		}
	}
}
