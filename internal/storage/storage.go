// internal/storage/storage.go
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/rovshanmuradov/pumpfun-sdk/internal/dex/pumpfun"
)

// Record is one decoded program event as persisted by a sink.
type Record struct {
	Signature  string        `json:"signature"`
	Slot       uint64        `json:"slot"`
	Index      int           `json:"index"`
	Kind       string        `json:"kind"`
	Mint       string        `json:"mint,omitempty"`
	TxFailed   bool          `json:"tx_failed,omitempty"`
	Event      pumpfun.Event `json:"event"`
	ReceivedAt time.Time     `json:"received_at"`
}

// NewRecord builds a Record for ev, the index-th event of its transaction.
// txErr is the transaction error reported alongside the logs, nil on success.
func NewRecord(signature string, slot uint64, index int, ev pumpfun.Event, txErr interface{}, receivedAt time.Time) Record {
	rec := Record{
		Signature:  signature,
		Slot:       slot,
		Index:      index,
		Kind:       ev.Kind().String(),
		TxFailed:   txErr != nil,
		Event:      ev,
		ReceivedAt: receivedAt.UTC(),
	}
	if mint, ok := pumpfun.EventMint(ev); ok {
		rec.Mint = mint.String()
	}
	return rec
}

// EventSink persists event records.
type EventSink interface {
	Write(ctx context.Context, rec Record) error
	Close() error
}

// MultiSink writes every record to all of its sinks.
type MultiSink []EventSink

func (m MultiSink) Write(ctx context.Context, rec Record) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Write(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiSink) Close() error {
	var errs []error
	for _, sink := range m {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
