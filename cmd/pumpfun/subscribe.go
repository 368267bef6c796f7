package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pumpfun-sdk/internal/bot"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/storage"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/storage/postgres"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/utils/metrics"
)

func newSubscribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscribe",
		Short: "Stream decoded program events",
		Args:  cobra.NoArgs,
		RunE:  runSubscribe,
	}
	f := cmd.Flags()
	f.String("mentions", "", "address filter, defaults to the pump.fun program")
	f.Int("queue-size", 0, "delivery queue capacity")
	f.String("jsonl", "", "append events to a JSONL file (- for stdout)")
	f.String("postgres", "", "Postgres DSN for the pumpfun_events table")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}

func runSubscribe(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	sink, err := openSinks(e)
	if err != nil {
		return err
	}

	var opts []bot.RunnerOption
	if addr := e.cfg.MetricsAddr; addr != "" {
		collector := metrics.NewCollector()
		opts = append(opts, bot.WithMetrics(collector))
		go func() {
			if err := collector.Serve(e.ctx, addr, e.log.Logger); err != nil {
				e.log.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	runner := bot.NewRunner(e.cfg, sink, e.log.Logger, opts...)
	stats, err := runner.Run(e.ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "events=%d decode_errors=%d dropped=%d\n", stats.Events, stats.DecodeErrors, stats.Dropped)
	return nil
}

func openSinks(e *env) (storage.EventSink, error) {
	var sinks storage.MultiSink

	if path := e.cfg.Sink.JSONL; path != "" {
		jsonl, err := storage.NewJSONLSink(path)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, jsonl)
	}

	if dsn := e.cfg.Sink.PostgresDSN; dsn != "" {
		store, err := postgres.NewStore(e.ctx, dsn, postgres.DefaultBatchSize, e.log.Logger)
		if err != nil {
			_ = sinks.Close()
			return nil, err
		}
		if err := store.EnsureSchema(e.ctx); err != nil {
			_ = store.Close()
			_ = sinks.Close()
			return nil, err
		}
		sinks = append(sinks, store)
	}

	e.log.Info("Sinks configured", zap.Int("count", len(sinks)))
	return sinks, nil
}
