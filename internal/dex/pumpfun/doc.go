// Package pumpfun implements a client for the Pump.fun bonding-curve program on Solana.
//
// This package provides:
//   - Pricing: initial buy price from the global account, bonding-curve buy/sell prices,
//     market cap and slippage bounds, all with 128-bit intermediates.
//   - Event decoding: program-data log payloads dispatched on their 8-byte discriminator into
//     CreateEvent, TradeEvent, CompleteEvent, SetParamsEvent, UnhandledEvent or UnknownEvent.
//   - Accounts and addresses: GlobalAccount and BondingCurveAccount layouts and the program PDAs.
//   - Trading: buy, sell and create instructions, and a Client that signs and sends them.
//
// Detailed information about each part can be found in their respective source files:
//   - global_account.go: GlobalAccount layout and GetInitialBuyPrice.
//   - bonding_curve.go: BondingCurveAccount layout and curve pricing.
//   - slippage.go: CalculateWithSlippageBuy, CalculateWithSlippageSell.
//   - events.go, event_codec.go: event types, DecodeEvent, ParseEvent, EncodeEvent.
//   - pda.go: program derived addresses.
//   - instructions.go: instruction data and account lists.
//   - metadata.go: IPFS metadata upload used by Create.
//   - pumpfun.go: Client (Buy, Sell, Create, CreateAndBuy).
//   - pnl.go: position valuation against the current curve.
//   - checker.go: ProgramStateChecker, a readiness check of the global account and a mint's curve.
//
// Usage example:
//
//	chain := solbc.NewClient(cluster.RPC.HTTP, cluster.Commitment, logger)
//	client := pumpfun.NewClient(payer, chain, cluster, logger)
//
//	sig, err := client.Buy(ctx, mint, 10_000_000, pumpfun.TradeOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
package pumpfun
