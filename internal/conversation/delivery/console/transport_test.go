package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"relay-bot/internal/model"
	pkgLog "relay-bot/pkg/log"
)

type scriptedReader struct {
	mu     sync.Mutex
	lines  []string
	closed bool
}

func (r *scriptedReader) Readline() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitDone(t *testing.T, tr *Transport) {
	t.Helper()
	select {
	case <-tr.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("read loop did not finish")
	}
}

func TestTransport_ReadsLines(t *testing.T) {
	reader := &scriptedReader{lines: []string{"hi", "   ", "how are you  ", "/quit", "never read"}}
	tr := New(pkgLog.NewNop(), Config{Reader: reader, Out: io.Discard})

	if err := tr.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitDone(t, tr)

	if tr.Connected() {
		t.Error("expected disconnected after input ended")
	}

	var got []model.InboundMessage
	for len(tr.Messages()) > 0 {
		got = append(got, <-tr.Messages())
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Body != "hi" || got[1].Body != "how are you" {
		t.Errorf("unexpected bodies %q, %q", got[0].Body, got[1].Body)
	}
	for _, msg := range got {
		if msg.From != defaultSender || msg.Transport != Name || msg.ID == "" || msg.HasMedia {
			t.Errorf("unexpected message %+v", msg)
		}
	}
	if got[0].ID == got[1].ID {
		t.Error("expected unique message IDs")
	}
}

func TestTransport_EOF(t *testing.T) {
	tr := New(pkgLog.NewNop(), Config{Reader: &scriptedReader{}, Out: io.Discard})
	if err := tr.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitDone(t, tr)
	if len(tr.Messages()) != 0 {
		t.Errorf("expected no messages, got %d", len(tr.Messages()))
	}
}

func TestTransport_SendMessage(t *testing.T) {
	t.Run("before start", func(t *testing.T) {
		tr := New(pkgLog.NewNop(), Config{})
		if err := tr.SendMessage(context.Background(), defaultSender, "hello"); !errors.Is(err, ErrNotStarted) {
			t.Errorf("expected ErrNotStarted, got %v", err)
		}
	})

	t.Run("prints reply", func(t *testing.T) {
		out := &syncBuffer{}
		tr := New(pkgLog.NewNop(), Config{Reader: &scriptedReader{}, Out: out, ReplyPrefix: "Naya> "})
		if err := tr.Start(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		waitDone(t, tr)

		if err := tr.SendMessage(context.Background(), defaultSender, "hai juga!"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := out.String(); got != "Naya> hai juga!\n" {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("unknown recipient", func(t *testing.T) {
		tr := New(pkgLog.NewNop(), Config{Reader: &scriptedReader{}, Out: io.Discard})
		if err := tr.SendMessage(context.Background(), "someone-else", "hello"); !errors.Is(err, ErrUnknownRecipient) {
			t.Errorf("expected ErrUnknownRecipient, got %v", err)
		}
	})
}

func TestTransport_Stop(t *testing.T) {
	reader := &scriptedReader{}
	tr := New(pkgLog.NewNop(), Config{Reader: reader, Out: io.Discard, Sender: "local"})
	if err := tr.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitDone(t, tr)

	tr.Stop()
	tr.Stop()

	if _, ok := <-tr.Messages(); ok {
		t.Error("expected closed channel")
	}
	if tr.emit(model.InboundMessage{From: "local", Body: "late"}) {
		t.Error("emit after stop must fail")
	}
	reader.mu.Lock()
	defer reader.mu.Unlock()
	if !reader.closed {
		t.Error("expected reader to be closed")
	}
}
