// ====================================
// File: cmd/pumpfun/main.go
// ====================================
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pumpfun-sdk/internal/blockchain"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/blockchain/solbc"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/config"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/dex/pumpfun"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/utils/logger"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/wallet"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "pumpfun",
		Short:        "pump.fun bonding curve trading and event streaming",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file path")
	pf.String("cluster", "", "cluster preset (mainnet, devnet, testnet, localnet, custom)")
	pf.String("rpc-url", "", "RPC HTTP endpoint, overrides the preset")
	pf.String("ws-url", "", "RPC websocket endpoint, overrides the preset")
	pf.String("commitment", "", "commitment level (processed, confirmed, finalized)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-file", "", "rotating JSON log file")

	root.AddCommand(newSubscribeCmd(), newQuoteCmd(), newStateCmd(), newPnLCmd(),
		newBuyCmd(), newSellCmd(), newCreateCmd())
	return root
}

// env is what every command needs: configuration, a logger and a signal-aware context.
type env struct {
	cfg     *config.Config
	cluster blockchain.Cluster
	log     *logger.Logger
	ctx     context.Context
	stop    context.CancelFunc
}

func setup(cmd *cobra.Command) (*env, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	cluster, err := cfg.Cluster()
	if err != nil {
		return nil, err
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.LogFile = cfg.Log.File
	logCfg.Development = cfg.Log.Development
	if cfg.Sink.JSONL == "-" {
		// stdout is reserved for the event stream
		logCfg.Console = os.Stderr
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	return &env{cfg: cfg, cluster: cluster, log: log, ctx: ctx, stop: stop}, nil
}

func (e *env) close() {
	e.stop()
	_ = e.log.Sync()
}

func (e *env) rpcClient() *solbc.Client {
	return solbc.NewClient(e.cluster.RPC.HTTP, e.cluster.Commitment, e.log.WithComponent("solbc-client"))
}

// tradingClient loads the configured keypair and builds a pumpfun client.
func (e *env) tradingClient() (*pumpfun.Client, error) {
	if e.cfg.Keypair == "" {
		return nil, fmt.Errorf("keypair is required (--keypair or PUMPFUN_KEYPAIR)")
	}
	payer, err := wallet.Load(e.cfg.Keypair)
	if err != nil {
		return nil, fmt.Errorf("failed to load keypair: %w", err)
	}
	e.log.Info("Wallet loaded", zap.String("address", payer.String()))

	return pumpfun.NewClient(payer, e.rpcClient(), e.cluster, e.log.Logger,
		pumpfun.WithCreateATA(e.cfg.CreateATA),
		pumpfun.WithCloseATA(e.cfg.CloseATA),
	), nil
}

func (e *env) tradeOptions() pumpfun.TradeOptions {
	bps := e.cfg.SlippageBps
	return pumpfun.TradeOptions{SlippageBasisPoints: &bps}
}

func addTradeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("keypair", "", "keypair file (solana-keygen JSON or base58)")
	f.Uint64("slippage-bps", 0, "slippage tolerance in basis points")
	f.Uint32("unit-limit", 0, "compute unit limit")
	f.Uint64("unit-price", 0, "compute unit price in micro-lamports")
}
