package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dammv2-quote",
		Short:        "Offline exact-in quotes for Meteora DAMM v2 pools",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "json", "log format (json, console)")
	root.PersistentFlags().Bool("metrics", false, "print quote metrics to stderr on exit")
	root.PersistentFlags().String("pool", "", "pool snapshot JSON file")

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote an exact-in swap against a pool snapshot",
		RunE:  runQuote,
	}
	quoteCmd.Flags().Uint64("amount", 0, "input amount in raw units, transfer fee included")
	quoteCmd.Flags().String("input-mint", "", "input mint; defaults to token A")
	quoteCmd.Flags().Bool("b-to-a", false, "swap token B for token A when --input-mint is unset")
	quoteCmd.Flags().Uint16("slippage-bps", 50, "slippage tolerance for the minimum output")
	quoteCmd.Flags().Bool("referral", false, "quote with a referral account")
	quoteCmd.Flags().Uint64("timestamp", 0, "current unix timestamp")
	quoteCmd.Flags().Uint64("slot", 0, "current slot")
	quoteCmd.Flags().Uint64("epoch", 0, "current epoch for token-2022 transfer fees")
	for _, token := range []string{"token-a", "token-b"} {
		quoteCmd.Flags().Uint8(token+"-decimals", 9, "mint decimals")
		quoteCmd.Flags().Uint16(token+"-transfer-fee-bps", 0, "flat token-2022 transfer fee in bps")
		quoteCmd.Flags().Uint64(token+"-transfer-fee-max", 0, "token-2022 transfer fee cap")
		quoteCmd.Flags().String(token+"-mint-file", "", "mint account snapshot JSON file")
	}
	root.AddCommand(quoteCmd)

	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Replay an emitted EvtSwap against the pre-swap snapshot",
		RunE:  runAudit,
	}
	auditCmd.Flags().String("event", "", "base64 EvtSwap payload from a 'Program data:' log line")
	auditCmd.Flags().Uint64("slot", 0, "slot of the swap, for slot-activated pools")
	root.AddCommand(auditCmd)

	initCmd := &cobra.Command{
		Use:   "init-amounts",
		Short: "Token amounts backing the snapshot's liquidity at its current price",
		RunE:  runInitAmounts,
	}
	root.AddCommand(initCmd)

	return root
}

func newLogger(level, format string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
