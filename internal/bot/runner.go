// internal/bot/runner.go
package bot

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rovshanmuradov/pumpfun-sdk/internal/config"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/dex/pumpfun"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/eventlistener"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/storage"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/utils/metrics"
	"go.uber.org/zap"
)

// Runner streams program events into a sink until cancelled.
type Runner struct {
	logger   *zap.Logger
	config   *config.Config
	sink     storage.EventSink
	source   eventlistener.LogSource
	metrics  *metrics.Collector
	shutdown *ShutdownHandler
	sub      atomic.Pointer[eventlistener.Subscription]

	// handler goroutine only
	streamErr error

	events       atomic.Uint64
	decodeErrors atomic.Uint64
	sinkErrors   atomic.Uint64
}

// RunnerStats counts what a Runner has processed.
type RunnerStats struct {
	Events       uint64
	DecodeErrors uint64
	SinkErrors   uint64
	Dropped      uint64
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogSource subscribes through source instead of dialing the configured cluster.
func WithLogSource(source eventlistener.LogSource) RunnerOption {
	return func(r *Runner) { r.source = source }
}

// WithMetrics records event, decode, sink and drop counts in c.
func WithMetrics(c *metrics.Collector) RunnerOption {
	return func(r *Runner) { r.metrics = c }
}

// NewRunner: принимает cfg, sink и logger
func NewRunner(cfg *config.Config, sink storage.EventSink, logger *zap.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		logger:   logger.Named("runner"),
		config:   cfg,
		sink:     sink,
		shutdown: NewShutdownHandler(logger.Named("shutdown"), 10*time.Second),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run blocks until ctx is cancelled or the log stream breaks. A broken
// stream is returned as an error wrapping eventlistener.ErrStreamClosed.
func (r *Runner) Run(ctx context.Context) (RunnerStats, error) {
	cluster, err := r.config.Cluster()
	if err != nil {
		return RunnerStats{}, err
	}
	mentions, err := r.config.MentionsKey()
	if err != nil {
		return RunnerStats{}, err
	}
	opts := eventlistener.Options{
		Mentions:   mentions,
		Commitment: cluster.Commitment,
		QueueSize:  r.config.QueueSize,
	}

	r.shutdown.Add("sink", r.sink)

	var sub *eventlistener.Subscription
	if r.source != nil {
		sub, err = eventlistener.SubscribeIndexed(ctx, r.source, opts, r.handle, r.logger)
	} else {
		sub, err = eventlistener.ConnectIndexed(ctx, cluster, opts, r.handle, r.logger)
	}
	if err != nil {
		_ = r.shutdown.Shutdown(context.Background())
		return RunnerStats{}, fmt.Errorf("failed to subscribe: %w", err)
	}
	r.sub.Store(sub)
	r.shutdown.AddFunc("subscription", func() error {
		sub.Close()
		<-sub.Done()
		return nil
	})

	r.logger.Info("🚀 Streaming pump.fun events",
		zap.String("cluster", cluster.Name),
		zap.String("subscription_id", sub.ID()))

	select {
	case <-ctx.Done():
		r.logger.Info("📡 Stop requested")
	case <-sub.Done():
	}

	shutdownErr := r.shutdown.Shutdown(context.Background())
	stats := r.stats(sub)
	if r.metrics != nil {
		r.metrics.SetDropped(stats.Dropped)
	}
	r.logger.Info("✅ Event stream finished",
		zap.Uint64("events", stats.Events),
		zap.Uint64("decode_errors", stats.DecodeErrors),
		zap.Uint64("sink_errors", stats.SinkErrors),
		zap.Uint64("dropped", stats.Dropped))

	// sub.Done is closed, the handler has returned
	if r.streamErr != nil {
		return stats, r.streamErr
	}
	return stats, shutdownErr
}

func (r *Runner) handle(signature string, line int, ev pumpfun.Event, err error, raw *eventlistener.LogBatch) {
	if errors.Is(err, eventlistener.ErrStreamClosed) {
		r.streamErr = err
		r.logger.Error("💥 Log stream closed", zap.Error(err))
		return
	}

	if err != nil {
		r.decodeErrors.Add(1)
		if r.metrics != nil {
			r.metrics.RecordDecodeError()
		}
		r.logger.Warn("Failed to decode event", zap.String("signature", signature), zap.Error(err))
		return
	}
	r.events.Add(1)

	rec := storage.NewRecord(signature, raw.Slot, line, ev, raw.Err, time.Now())
	r.logger.Info("Event",
		zap.String("kind", rec.Kind),
		zap.String("signature", signature),
		zap.String("mint", rec.Mint),
		zap.Uint64("slot", rec.Slot))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	start := time.Now()
	err = r.sink.Write(ctx, rec)
	if r.metrics != nil {
		r.metrics.RecordEvent(rec.Kind)
		r.metrics.RecordSinkWrite(time.Since(start), err)
		if sub := r.sub.Load(); sub != nil {
			r.metrics.SetDropped(sub.Dropped())
		}
	}
	if err != nil {
		r.sinkErrors.Add(1)
		r.logger.Error("Failed to persist event", zap.String("signature", signature), zap.Error(err))
	}
}

func (r *Runner) stats(sub *eventlistener.Subscription) RunnerStats {
	return RunnerStats{
		Events:       r.events.Load(),
		DecodeErrors: r.decodeErrors.Load(),
		SinkErrors:   r.sinkErrors.Load(),
		Dropped:      sub.Dropped(),
	}
}
