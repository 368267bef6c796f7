package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pumpfun-sdk/internal/dex/pumpfun"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/wallet"
)

func parseMintAndAmount(args []string) (solana.PublicKey, *uint64, error) {
	mint, err := solana.PublicKeyFromBase58(args[0])
	if err != nil {
		return solana.PublicKey{}, nil, fmt.Errorf("invalid mint: %w", err)
	}
	if len(args) < 2 {
		return mint, nil, nil
	}
	amount, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return solana.PublicKey{}, nil, fmt.Errorf("invalid amount %q: %w", args[1], err)
	}
	return mint, &amount, nil
}

func newQuoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote <mint> <lamports>",
		Short: "Price a buy against the mint's bonding curve",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, lamports, err := parseMintAndAmount(args)
			if err != nil {
				return err
			}
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()
			defer e.log.TrackPerformance("quote")()

			client := e.rpcClient()
			global, err := pumpfun.FetchGlobalAccount(e.ctx, client, e.log.Logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "initial buy:     %d tokens\n", global.GetInitialBuyPrice(*lamports))
			fmt.Fprintf(out, "max sol cost:    %d lamports (%d bps)\n",
				pumpfun.CalculateWithSlippageBuy(*lamports, e.cfg.SlippageBps), e.cfg.SlippageBps)

			curve, err := pumpfun.FetchBondingCurveAccount(e.ctx, client, mint, e.log.Logger)
			if errors.Is(err, pumpfun.ErrBondingCurveNotFound) {
				fmt.Fprintln(out, "bonding curve:   not created")
				return nil
			}
			if err != nil {
				return err
			}
			tokens, err := curve.GetBuyPrice(*lamports)
			if err != nil {
				fmt.Fprintf(out, "bonding curve:   %v\n", err)
				return nil
			}
			fmt.Fprintf(out, "curve buy:       %d tokens\n", tokens)
			fmt.Fprintf(out, "market cap:      %d lamports\n", curve.GetMarketCapSol())
			fmt.Fprintf(out, "spot price:      %.12f SOL/token\n", curve.SpotPriceSol())
			return nil
		},
	}
}

func newBuyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buy <mint> <lamports>",
		Short: "Buy tokens on the bonding curve",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, lamports, err := parseMintAndAmount(args)
			if err != nil {
				return err
			}
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			client, err := e.tradingClient()
			if err != nil {
				return err
			}
			sig, err := client.Buy(e.ctx, mint, *lamports, e.tradeOptions())
			if err != nil {
				return err
			}
			e.log.WithTransaction(sig.String()).Info("Buy confirmed", zap.String("mint", mint.String()))
			fmt.Fprintln(cmd.OutOrStdout(), sig.String())
			return nil
		},
	}
	addTradeFlags(cmd)
	cmd.Flags().Bool("create-ata", true, "create the token account if missing")
	return cmd
}

func newSellCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sell <mint> [tokens]",
		Short: "Sell tokens back to the bonding curve, all of them when no amount is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, amount, err := parseMintAndAmount(args)
			if err != nil {
				return err
			}
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			client, err := e.tradingClient()
			if err != nil {
				return err
			}
			sig, err := client.Sell(e.ctx, mint, amount, e.tradeOptions())
			if err != nil {
				return err
			}
			e.log.WithTransaction(sig.String()).Info("Sell confirmed", zap.String("mint", mint.String()))
			fmt.Fprintln(cmd.OutOrStdout(), sig.String())
			return nil
		},
	}
	addTradeFlags(cmd)
	cmd.Flags().Bool("close-ata", false, "close the token account when selling everything")
	return cmd
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a token and its bonding curve, optionally buying in the same transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			meta := pumpfun.CreateTokenMetadata{}
			meta.Name, _ = f.GetString("name")
			meta.Symbol, _ = f.GetString("symbol")
			meta.Description, _ = f.GetString("description")
			meta.File, _ = f.GetString("image")
			meta.Twitter, _ = f.GetString("twitter")
			meta.Telegram, _ = f.GetString("telegram")
			meta.Website, _ = f.GetString("website")
			buyLamports, _ := f.GetUint64("buy")

			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			client, err := e.tradingClient()
			if err != nil {
				return err
			}
			mint, err := wallet.Generate()
			if err != nil {
				return err
			}
			e.log.Info("Creating token", zap.String("mint", mint.String()), zap.String("symbol", meta.Symbol))

			var sig solana.Signature
			if buyLamports > 0 {
				sig, err = client.CreateAndBuy(e.ctx, mint, meta, buyLamports, e.tradeOptions())
			} else {
				sig, err = client.Create(e.ctx, mint, meta, e.tradeOptions())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mint=%s signature=%s\n", mint.String(), sig.String())
			return nil
		},
	}
	addTradeFlags(cmd)
	f := cmd.Flags()
	f.String("name", "", "token name")
	f.String("symbol", "", "token symbol")
	f.String("description", "", "token description")
	f.String("image", "", "path to the token image")
	f.String("twitter", "", "twitter link")
	f.String("telegram", "", "telegram link")
	f.String("website", "", "website link")
	f.Uint64("buy", 0, "lamports to spend in the create transaction")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("symbol")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state [mint]",
		Short: "Check the global account and, optionally, a mint's bonding curve",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var mint solana.PublicKey
			if len(args) == 1 {
				m, _, err := parseMintAndAmount(args)
				if err != nil {
					return err
				}
				mint = m
			}
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			state, err := pumpfun.NewProgramStateChecker(e.rpcClient(), e.log.Logger).CheckProgramState(e.ctx, mint)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "global:          %s (initialized=%t, fee=%d bps)\n",
				state.GlobalAccount, state.GlobalInitialized, state.FeeBasisPoints)
			if state.Mint != "" {
				fmt.Fprintf(out, "bonding curve:   %s (initialized=%t, complete=%t)\n",
					state.BondingCurve, state.BondingCurveInitialized, state.Complete)
			}
			if state.Error != "" {
				fmt.Fprintf(out, "problem:         %s\n", state.Error)
			}
			fmt.Fprintf(out, "ready:           %t\n", state.IsReady())
			return nil
		},
	}
}

func newPnLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pnl <mint> <cost-lamports>",
		Short: "Value the wallet's position in a mint against what was paid for it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, cost, err := parseMintAndAmount(args)
			if err != nil {
				return err
			}
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			client, err := e.tradingClient()
			if err != nil {
				return err
			}
			pnl, err := client.PositionPnL(e.ctx, mint, *cost)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tokens:          %d\n", pnl.TokenAmount)
			fmt.Fprintf(out, "sell estimate:   %d lamports\n", pnl.SellEstimate)
			fmt.Fprintf(out, "net:             %d lamports (%.2f%%)\n", pnl.NetPnL, pnl.PnLPercentage)
			return nil
		},
	}
	cmd.Flags().String("keypair", "", "keypair file (solana-keygen JSON or base58)")
	return cmd
}
