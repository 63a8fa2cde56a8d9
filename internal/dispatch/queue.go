package dispatch

import (
	"context"

	"relay-bot/internal/model"
	pkgLog "relay-bot/pkg/log"
)

const DefaultQueueSize = 256

// Queue is a Dispatcher that buffers replies on a channel drained by Run.
// Deliver never blocks; a full queue drops the reply.
type Queue struct {
	l    pkgLog.Logger
	next Dispatcher
	ch   chan model.OutboundMessage
}

// NewQueue buffers up to size replies in front of next.
func NewQueue(l pkgLog.Logger, next Dispatcher, size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{l: l, next: next, ch: make(chan model.OutboundMessage, size)}
}

func (q *Queue) Deliver(ctx context.Context, msg model.OutboundMessage) {
	select {
	case q.ch <- msg:
	default:
		q.l.Warnf(ctx, "dispatch: outbound queue full, dropping reply to %s", msg.To)
	}
}

// Run sends queued replies until ctx is cancelled, then flushes what is already buffered.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case msg := <-q.ch:
			q.next.Deliver(ctx, msg)
		case <-ctx.Done():
			q.drain()
			return
		}
	}
}

// Pending returns the number of buffered replies.
func (q *Queue) Pending() int {
	return len(q.ch)
}

func (q *Queue) drain() {
	ctx := context.Background()
	for {
		select {
		case msg := <-q.ch:
			q.next.Deliver(ctx, msg)
		default:
			return
		}
	}
}
