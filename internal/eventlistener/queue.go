// internal/eventlistener/queue.go
package eventlistener

import (
	"context"
	"sync/atomic"

	"github.com/rovshanmuradov/pumpfun-sdk/internal/dex/pumpfun"
	"go.uber.org/zap"
)

type delivery struct {
	signature string
	line      int
	event     pumpfun.Event
	err       error
	raw       *LogBatch
}

// deliveryQueue is a bounded FIFO between a single producer and a single consumer.
// When full, the newest item is dropped.
type deliveryQueue struct {
	items   chan delivery
	dropped atomic.Uint64
	logger  *zap.Logger
}

func newDeliveryQueue(size int, logger *zap.Logger) *deliveryQueue {
	return &deliveryQueue{
		items:  make(chan delivery, size),
		logger: logger,
	}
}

// offer enqueues d without blocking and reports whether it was accepted.
// Only the producer may call offer or close.
func (q *deliveryQueue) offer(d delivery) bool {
	select {
	case q.items <- d:
		return true
	default:
		n := q.dropped.Add(1)
		q.logger.Warn("Delivery queue full, dropping event",
			zap.String("signature", d.signature),
			zap.Int("capacity", cap(q.items)),
			zap.Uint64("dropped_total", n))
		return false
	}
}

func (q *deliveryQueue) close() {
	close(q.items)
}

// run hands items to deliver in order until the queue is closed and drained
// or ctx is cancelled.
func (q *deliveryQueue) run(ctx context.Context, deliver func(delivery)) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-q.items:
			if !ok {
				return
			}
			// a cancelled subscription delivers nothing further
			if ctx.Err() != nil {
				return
			}
			deliver(d)
		}
	}
}
