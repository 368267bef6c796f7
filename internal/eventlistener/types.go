// internal/eventlistener/types.go
package eventlistener

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/dex/pumpfun"
)

// DefaultQueueSize is the number of decoded items buffered between the
// stream reader and the handler.
const DefaultQueueSize = 1000

var (
	// ErrSubscriptionClosed is returned by Subscribe when ctx is already done.
	ErrSubscriptionClosed = errors.New("subscription closed")

	// ErrStreamClosed is delivered once when the log stream breaks.
	ErrStreamClosed = errors.New("log stream closed")
)

// LogBatch is one notification from the log source: the logs of a single transaction.
type LogBatch struct {
	Signature string
	Slot      uint64
	Err       interface{} // transaction error, nil on success
	Logs      []string
}

// LogStream yields log batches for one subscription.
type LogStream interface {
	// Recv blocks until the next batch, a stream failure or ctx cancellation.
	Recv(ctx context.Context) (*LogBatch, error)
	// Unsubscribe tells the source to stop sending.
	Unsubscribe()
}

// LogSource opens log subscriptions filtered by a mentioned address.
type LogSource interface {
	SubscribeLogs(ctx context.Context, mentions solana.PublicKey, commitment rpc.CommitmentType) (LogStream, error)
}

// Handler receives every program data line of a subscription, in arrival order.
// Exactly one of event and err is non-nil. raw is the batch the line came from
// and is nil only for the final ErrStreamClosed item.
type Handler func(signature string, event pumpfun.Event, err error, raw *LogBatch)

// IndexedHandler is a Handler that also receives the position of the line
// among the batch's program data lines. The position is taken before the
// queue, so it stays stable when other lines of the batch are dropped.
// It is -1 for the final ErrStreamClosed item.
type IndexedHandler func(signature string, line int, event pumpfun.Event, err error, raw *LogBatch)

// Options configures a subscription. Zero values select the defaults.
type Options struct {
	Mentions   solana.PublicKey   // default: the Pump.fun program
	Commitment rpc.CommitmentType // default: confirmed
	QueueSize  int                // default: DefaultQueueSize
}

func (o Options) withDefaults() Options {
	if o.Mentions.IsZero() {
		o.Mentions = pumpfun.PumpFunProgramID
	}
	if o.Commitment == "" {
		o.Commitment = rpc.CommitmentConfirmed
	}
	if o.QueueSize <= 0 {
		o.QueueSize = DefaultQueueSize
	}
	return o
}

// SubscribeError reports a failure to establish a subscription.
type SubscribeError struct {
	Stage string // "connect" or "subscribe"
	Err   error
}

func (e *SubscribeError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Stage, e.Err)
}

func (e *SubscribeError) Unwrap() error {
	return e.Err
}
