// =============================
// File: internal/eventlistener/subscriber.go
// =============================
package eventlistener

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/dex/pumpfun"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Subscription is a running log subscription. It reads batches on one
// goroutine and calls the handler on another, joined by a bounded queue.
type Subscription struct {
	id      string
	stream  LogStream
	handler IndexedHandler
	queue   *deliveryQueue
	logger  *zap.Logger

	cancel     context.CancelFunc
	stopParent func() bool
	closeOnce  sync.Once
	done       chan struct{}

	// onStop runs after both goroutines have exited.
	onStop func()
}

// Subscribe opens a subscription on source and starts delivering to handler.
// Failure to subscribe is returned as *SubscribeError and nothing keeps running.
// Cancelling ctx has the same effect as Close.
func Subscribe(ctx context.Context, source LogSource, opts Options, handler Handler, logger *zap.Logger) (*Subscription, error) {
	if handler == nil {
		return nil, errHandlerRequired
	}
	return subscribe(ctx, source, opts, handler.indexed(), logger, nil)
}

// SubscribeIndexed is Subscribe with a handler that receives line positions.
func SubscribeIndexed(ctx context.Context, source LogSource, opts Options, handler IndexedHandler, logger *zap.Logger) (*Subscription, error) {
	return subscribe(ctx, source, opts, handler, logger, nil)
}

var errHandlerRequired = errors.New("handler is required")

func (h Handler) indexed() IndexedHandler {
	return func(signature string, _ int, event pumpfun.Event, err error, raw *LogBatch) {
		h(signature, event, err, raw)
	}
}

func subscribe(ctx context.Context, source LogSource, opts Options, handler IndexedHandler, logger *zap.Logger, onStop func()) (*Subscription, error) {
	if handler == nil {
		return nil, errHandlerRequired
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubscriptionClosed, err)
	}
	opts = opts.withDefaults()

	stream, err := source.SubscribeLogs(ctx, opts.Mentions, opts.Commitment)
	if err != nil {
		return nil, &SubscribeError{Stage: "subscribe", Err: err}
	}

	id := uuid.NewString()
	logger = logger.Named("subscriber").With(
		zap.String("subscription_id", id),
		zap.String("mentions", opts.Mentions.String()),
		zap.String("commitment", string(opts.Commitment)),
	)

	runCtx, cancel := context.WithCancel(context.Background())
	s := &Subscription{
		id:      id,
		stream:  stream,
		handler: handler,
		queue:   newDeliveryQueue(opts.QueueSize, logger),
		logger:  logger,
		cancel:  cancel,
		done:    make(chan struct{}),
		onStop:  onStop,
	}
	s.stopParent = context.AfterFunc(ctx, s.Close)

	var g errgroup.Group
	g.Go(func() error {
		s.read(runCtx)
		return nil
	})
	g.Go(func() error {
		s.queue.run(runCtx, s.deliver)
		return nil
	})
	go func() {
		_ = g.Wait()
		s.stopParent()
		if s.onStop != nil {
			s.onStop()
		}
		logger.Debug("Subscription stopped")
		close(s.done)
	}()

	logger.Info("Subscribed to program logs", zap.Int("queue_size", opts.QueueSize))
	return s, nil
}

// read is the only producer of the queue and closes it on return.
func (s *Subscription) read(ctx context.Context) {
	defer s.queue.close()

	for {
		batch, err := s.stream.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn("Log stream terminated", zap.Error(err))
			s.queue.offer(delivery{line: -1, err: fmt.Errorf("%w: %w", ErrStreamClosed, err)})
			return
		}
		if batch == nil {
			continue
		}
		s.dispatch(batch)
	}
}

func (s *Subscription) dispatch(batch *LogBatch) {
	line := 0
	for _, text := range batch.Logs {
		payload, ok := pumpfun.ProgramDataPayload(text)
		if !ok {
			continue
		}
		ev, err := pumpfun.ParseEvent(batch.Signature, payload)
		if err != nil {
			s.logger.Debug("Failed to decode program data",
				zap.String("signature", batch.Signature),
				zap.Error(err))
		}
		s.queue.offer(delivery{
			signature: batch.Signature,
			line:      line,
			event:     ev,
			err:       err,
			raw:       batch,
		})
		line++
	}
}

func (s *Subscription) deliver(d delivery) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Event handler panicked",
				zap.String("signature", d.signature),
				zap.Any("panic", r))
		}
	}()
	s.handler(d.signature, d.line, d.event, d.err, d.raw)
}

// Close unsubscribes and stops both goroutines. It is safe to call any
// number of times; only the first call unsubscribes. Close does not wait
// for a handler call in progress, use Done for that.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.stream.Unsubscribe()
		s.logger.Info("Subscription closed", zap.Uint64("dropped", s.Dropped()))
	})
}

// Done is closed once the reader and delivery goroutines have exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Dropped returns how many items were discarded because the queue was full.
func (s *Subscription) Dropped() uint64 {
	return s.queue.dropped.Load()
}

// ID identifies the subscription in logs.
func (s *Subscription) ID() string {
	return s.id
}
