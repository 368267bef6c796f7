// internal/utils/metrics/metrics.go
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "pumpfun"

// Collector владеет собственным registry, поэтому несколько экземпляров
// (например, в тестах) не конфликтуют при регистрации.
type Collector struct {
	registry *prometheus.Registry

	events       *prometheus.CounterVec
	decodeErrors prometheus.Counter
	sinkWrites   *prometheus.CounterVec
	sinkDuration prometheus.Histogram
	dropped      prometheus.Gauge
}

// NewCollector создает коллектор и регистрирует метрики процесса и Go runtime.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Decoded program events by kind",
		}, []string{"kind"}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Program data lines that failed to decode",
		}),
		sinkWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_writes_total",
			Help:      "Event sink writes by status",
		}, []string{"status"}),
		sinkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sink_write_duration_seconds",
			Help:      "Duration of a single event sink write",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		dropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dropped_events",
			Help:      "Events discarded by the current subscription because its queue was full",
		}),
	}

	c.registry.MustRegister(
		c.events,
		c.decodeErrors,
		c.sinkWrites,
		c.sinkDuration,
		c.dropped,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry exposes the underlying registry, mostly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) RecordEvent(kind string) {
	c.events.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordDecodeError() {
	c.decodeErrors.Inc()
}

// RecordSinkWrite записывает результат и длительность записи в sink.
func (c *Collector) RecordSinkWrite(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	c.sinkWrites.WithLabelValues(status).Inc()
	c.sinkDuration.Observe(duration.Seconds())
}

func (c *Collector) SetDropped(n uint64) {
	c.dropped.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})
	defer stop()

	logger.Info("Serving metrics", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
