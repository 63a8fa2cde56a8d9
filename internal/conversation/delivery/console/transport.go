package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"relay-bot/internal/conversation"
	"relay-bot/internal/model"
)

var _ conversation.Transport = (*Transport)(nil)

func (t *Transport) Name() string { return Name }

// Start opens the terminal and begins reading lines in the background.
func (t *Transport) Start(ctx context.Context) error {
	reader := t.cfg.Reader
	out := t.cfg.Out

	if reader == nil {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          t.cfg.Prompt,
			HistoryFile:     t.cfg.HistoryFile,
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return fmt.Errorf("console: open terminal: %w", err)
		}
		reader = rl
		if out == nil {
			out = rl.Stdout()
		}
	}
	if out == nil {
		out = io.Discard
	}

	t.mu.Lock()
	t.reader = reader
	t.out = out
	t.connected = true
	t.mu.Unlock()

	go t.readLoop(ctx, reader)
	return nil
}

func (t *Transport) readLoop(ctx context.Context, reader LineReader) {
	defer t.finish()

	for {
		line, err := reader.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				t.l.Infof(ctx, "console: input closed")
			} else {
				t.l.Errorf(ctx, "console: read line: %v", err)
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return
		}

		msg := model.InboundMessage{
			ID:         uuid.NewString(),
			Transport:  Name,
			From:       t.cfg.Sender,
			Body:       line,
			ReceivedAt: time.Now(),
		}
		if !t.emit(msg) {
			t.l.Warnf(ctx, "console: inbound queue full, dropping %q", line)
		}
	}
}

func (t *Transport) finish() {
	t.mu.Lock()
	t.connected = false
	t.mu.Unlock()
	t.doneOnce.Do(func() { close(t.done) })
}

// Done is closed once the user ends the session (EOF, ^C or /quit).
func (t *Transport) Done() <-chan struct{} {
	return t.done
}

func (t *Transport) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.connected = false
	if t.reader != nil {
		t.reader.Close()
	}
	if !t.closed {
		t.closed = true
		close(t.messages)
	}
}

func (t *Transport) Messages() <-chan model.InboundMessage {
	return t.messages
}

func (t *Transport) Connected() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.connected
}

// SendMessage prints the reply. Only the configured sender can be addressed.
func (t *Transport) SendMessage(ctx context.Context, to model.SenderID, text string) error {
	if to != t.cfg.Sender {
		return fmt.Errorf("%w: %s", ErrUnknownRecipient, to)
	}

	t.mu.RLock()
	out := t.out
	t.mu.RUnlock()
	if out == nil {
		return ErrNotStarted
	}

	_, err := fmt.Fprintf(out, "%s%s\n", t.cfg.ReplyPrefix, text)
	return err
}

func (t *Transport) emit(msg model.InboundMessage) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return false
	}
	select {
	case t.messages <- msg:
		return true
	default:
		return false
	}
}
