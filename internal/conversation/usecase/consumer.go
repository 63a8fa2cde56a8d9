package usecase

import (
	"context"
	"hash/fnv"
	"sync"

	"relay-bot/internal/conversation"
	"relay-bot/internal/model"
	pkgLog "relay-bot/pkg/log"
)

const (
	DefaultWorkers     = 4
	DefaultWorkerQueue = 16
)

// Consumer drains an inbound channel into a UseCase. Messages from one sender are handled in
// arrival order by the same worker; different senders run in parallel.
type Consumer struct {
	l       pkgLog.Logger
	uc      conversation.UseCase
	workers int
	queue   int
}

// NewConsumer creates a Consumer with the given number of workers.
func NewConsumer(l pkgLog.Logger, uc conversation.UseCase, workers, queue int) *Consumer {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queue <= 0 {
		queue = DefaultWorkerQueue
	}
	return &Consumer{l: l, uc: uc, workers: workers, queue: queue}
}

// Run blocks until ctx is cancelled or in is closed, then waits for in-flight messages.
func (c *Consumer) Run(ctx context.Context, in <-chan model.InboundMessage) {
	lanes := make([]chan model.InboundMessage, c.workers)
	var wg sync.WaitGroup
	for i := range lanes {
		lanes[i] = make(chan model.InboundMessage, c.queue)
		wg.Add(1)
		go func(lane <-chan model.InboundMessage) {
			defer wg.Done()
			for msg := range lane {
				c.handle(ctx, msg)
			}
		}(lanes[i])
	}

	defer func() {
		for _, lane := range lanes {
			close(lane)
		}
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			select {
			case lanes[c.lane(msg.From)] <- msg:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (c *Consumer) lane(sender model.SenderID) int {
	h := fnv.New32a()
	h.Write([]byte(sender))
	return int(h.Sum32() % uint32(c.workers))
}

func (c *Consumer) handle(ctx context.Context, msg model.InboundMessage) {
	defer func() {
		if r := recover(); r != nil {
			c.l.Errorf(ctx, "conversation: panic handling message %s from %s: %v", msg.ID, msg.From, r)
		}
	}()

	if err := c.uc.HandleMessage(ctx, msg); err != nil {
		c.l.Warnf(ctx, "conversation: message %s dropped: %v", msg.ID, err)
	}
}
