// internal/storage/postgres/store.go
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/storage"
	"go.uber.org/zap"
)

// DefaultBatchSize is the number of records buffered before a flush.
const DefaultBatchSize = 100

const schema = `
CREATE TABLE IF NOT EXISTS pumpfun_events (
	signature   TEXT        NOT NULL,
	event_index INTEGER     NOT NULL,
	slot        BIGINT      NOT NULL,
	kind        TEXT        NOT NULL,
	mint        TEXT,
	tx_failed   BOOLEAN     NOT NULL DEFAULT FALSE,
	payload     JSONB       NOT NULL,
	received_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (signature, event_index)
);
CREATE INDEX IF NOT EXISTS pumpfun_events_mint_idx ON pumpfun_events (mint);
CREATE INDEX IF NOT EXISTS pumpfun_events_kind_slot_idx ON pumpfun_events (kind, slot);
`

const insertEvent = `
INSERT INTO pumpfun_events (
	signature, event_index, slot, kind, mint, tx_failed, payload, received_at
) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7::jsonb, $8)
ON CONFLICT (signature, event_index) DO NOTHING`

// Store persists event records to Postgres in batches.
type Store struct {
	pool      *pgxpool.Pool
	logger    *zap.Logger
	batchSize int

	mu      sync.Mutex
	pending []storage.Record
}

// NewStore opens a connection pool. batchSize <= 0 selects DefaultBatchSize.
func NewStore(ctx context.Context, dsn string, batchSize int, logger *zap.Logger) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Store{
		pool:      pool,
		logger:    logger.Named("postgres"),
		batchSize: batchSize,
	}, nil
}

// EnsureSchema creates the events table and its indexes if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Write buffers rec and flushes once the batch is full.
func (s *Store) Write(ctx context.Context, rec storage.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = append(s.pending, rec)
	if len(s.pending) < s.batchSize {
		return nil
	}
	return s.flushLocked(ctx)
}

// Flush inserts all buffered records.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked(ctx)
}

func (s *Store) flushLocked(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := s.InsertEvents(ctx, s.pending); err != nil {
		return err
	}
	s.logger.Debug("Flushed events", zap.Int("count", len(s.pending)))
	s.pending = s.pending[:0]
	return nil
}

// InsertEvents writes records in one round trip. Records already stored are skipped.
func (s *Store) InsertEvents(ctx context.Context, recs []storage.Record) error {
	if len(recs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range recs {
		payload, err := json.Marshal(rec.Event)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", rec.Kind, err)
		}
		batch.Queue(insertEvent,
			rec.Signature,
			rec.Index,
			int64(rec.Slot),
			rec.Kind,
			rec.Mint,
			rec.TxFailed,
			string(payload),
			rec.ReceivedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range recs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}
	return nil
}

// CountBySignature returns how many events are stored for signature.
func (s *Store) CountBySignature(ctx context.Context, signature string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM pumpfun_events WHERE signature = $1`, signature).Scan(&n)
	return n, err
}

// Close flushes buffered records and closes the pool.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.Flush(ctx)
	if err != nil {
		s.logger.Error("Failed to flush events on close", zap.Error(err))
	}
	s.pool.Close()
	return err
}
