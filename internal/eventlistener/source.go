// internal/eventlistener/source.go
package eventlistener

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/blockchain"
	"go.uber.org/zap"
)

// WSSource is a LogSource over a Solana pubsub websocket.
type WSSource struct {
	client *ws.Client
}

// Dial connects to a Solana pubsub endpoint.
func Dial(ctx context.Context, wsURL string) (*WSSource, error) {
	client, err := ws.Connect(ctx, wsURL)
	if err != nil {
		return nil, &SubscribeError{Stage: "connect", Err: err}
	}
	return &WSSource{client: client}, nil
}

// SubscribeLogs issues logsSubscribe with a mentions filter.
func (s *WSSource) SubscribeLogs(_ context.Context, mentions solana.PublicKey, commitment rpc.CommitmentType) (LogStream, error) {
	sub, err := s.client.LogsSubscribeMentions(mentions, commitment)
	if err != nil {
		return nil, err
	}
	return &wsLogStream{sub: sub}, nil
}

// Close closes the underlying connection and every stream on it.
func (s *WSSource) Close() {
	s.client.Close()
}

type wsLogStream struct {
	sub *ws.LogSubscription
}

func (w *wsLogStream) Recv(ctx context.Context) (*LogBatch, error) {
	res, err := w.sub.Recv(ctx)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}
	return &LogBatch{
		Signature: res.Value.Signature.String(),
		Slot:      res.Context.Slot,
		Err:       res.Value.Err,
		Logs:      res.Value.Logs,
	}, nil
}

func (w *wsLogStream) Unsubscribe() {
	w.sub.Unsubscribe()
}

// Connect dials cluster's websocket endpoint and subscribes. The returned
// subscription owns the connection and closes it once stopped.
// An empty opts.Commitment takes the cluster's commitment.
func Connect(ctx context.Context, cluster blockchain.Cluster, opts Options, handler Handler, logger *zap.Logger) (*Subscription, error) {
	if handler == nil {
		return nil, errHandlerRequired
	}
	return ConnectIndexed(ctx, cluster, opts, handler.indexed(), logger)
}

// ConnectIndexed is Connect with a handler that receives line positions.
func ConnectIndexed(ctx context.Context, cluster blockchain.Cluster, opts Options, handler IndexedHandler, logger *zap.Logger) (*Subscription, error) {
	if handler == nil {
		return nil, errHandlerRequired
	}
	if opts.Commitment == "" {
		opts.Commitment = cluster.Commitment
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	source, err := Dial(ctx, cluster.RPC.WS)
	if err != nil {
		return nil, err
	}
	logger.Debug("Connected to log source",
		zap.String("cluster", cluster.Name),
		zap.String("ws_url", cluster.RPC.WS))

	sub, err := subscribe(ctx, source, opts, handler, logger, source.Close)
	if err != nil {
		source.Close()
		return nil, err
	}
	return sub, nil
}
