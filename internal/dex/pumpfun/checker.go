// ==============================================
// File: internal/dex/pumpfun/checker.go
// ==============================================
package pumpfun

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/blockchain/solbc"
	"go.uber.org/zap"
)

// DefaultCheckerTimeout bounds a single CheckProgramState call.
const DefaultCheckerTimeout = 30 * time.Second

// ProgramState summarizes the Pump.fun accounts a trade depends on.
type ProgramState struct {
	GlobalAccount           string
	GlobalInitialized       bool
	GlobalOwner             string
	FeeBasisPoints          uint64
	Mint                    string
	BondingCurve            string
	BondingCurveInitialized bool
	Complete                bool
	Error                   string
}

// IsReady reports whether the mint can be traded on its curve. Without a
// mint only the global account is considered.
func (s *ProgramState) IsReady() bool {
	if !s.GlobalInitialized {
		return false
	}
	if s.Mint == "" {
		return true
	}
	return s.BondingCurveInitialized && !s.Complete
}

// ProgramStateChecker provides utilities for checking Pump.fun program state
type ProgramStateChecker struct {
	client  AccountReader
	logger  *zap.Logger
	timeout time.Duration
}

// NewProgramStateChecker creates a new PumpFun program state checker
func NewProgramStateChecker(client AccountReader, logger *zap.Logger) *ProgramStateChecker {
	return &ProgramStateChecker{
		client:  client,
		logger:  logger.Named("checker"),
		timeout: DefaultCheckerTimeout,
	}
}

// CheckProgramState loads the global account and, for a non-zero mint, its
// bonding curve. Missing or foreign-owned accounts are reported in the state,
// only RPC failures are returned as errors.
func (p *ProgramStateChecker) CheckProgramState(ctx context.Context, mint solana.PublicKey) (*ProgramState, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	globalAddr := GetGlobalPDA()
	state := &ProgramState{GlobalAccount: globalAddr.String()}

	data, owner, err := p.client.GetAccountData(ctx, globalAddr)
	switch {
	case errors.Is(err, solbc.ErrAccountNotFound):
		state.Error = "global account not initialized"
		return state, nil
	case err != nil:
		return nil, fmt.Errorf("failed to get global account info: %w", err)
	}

	state.GlobalOwner = owner.String()
	if !owner.Equals(PumpFunProgramID) {
		state.Error = fmt.Sprintf("global account not initialized by program (owner: %s)", state.GlobalOwner)
		return state, nil
	}
	global, err := DecodeGlobalAccount(data)
	if err != nil {
		return nil, err
	}
	state.GlobalInitialized = global.Initialized
	state.FeeBasisPoints = global.FeeBasisPoints
	if !global.Initialized {
		state.Error = "global account not initialized"
	}

	if mint.IsZero() {
		return state, nil
	}

	state.Mint = mint.String()
	state.BondingCurve = GetBondingCurvePDA(mint).String()
	curve, err := FetchBondingCurveAccount(ctx, p.client, mint, p.logger)
	switch {
	case errors.Is(err, ErrBondingCurveNotFound):
		if state.Error == "" {
			state.Error = "bonding curve not created"
		}
	case err != nil:
		return nil, err
	default:
		state.BondingCurveInitialized = true
		state.Complete = curve.Complete
		if curve.Complete && state.Error == "" {
			state.Error = ErrBondingCurveComplete.Error()
		}
	}

	p.logger.Debug("Program state checked",
		zap.String("mint", state.Mint),
		zap.Bool("ready", state.IsReady()))
	return state, nil
}
