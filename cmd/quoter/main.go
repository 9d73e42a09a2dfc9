package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "quoter",
		Short:        "Weighted pool swap quoter",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a single swap against a weighted pool",
		RunE:  runQuote,
	}

	quoteCmd.Flags().String("rpc", "", "Solana RPC URL")
	quoteCmd.Flags().String("commitment", "confirmed", "RPC commitment (processed, confirmed, finalized)")
	quoteCmd.Flags().String("accounts", "", "read pool state from an account JSONL file instead of RPC")
	quoteCmd.Flags().String("pool", "", "pool account address")
	quoteCmd.Flags().String("from", "", "source mint")
	quoteCmd.Flags().String("to", "", "destination mint")
	quoteCmd.Flags().Float64("amount", 0, "amount of the source mint to sell")
	quoteCmd.Flags().Int("max-retries", 3, "maximum retry attempts")
	quoteCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	quoteCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(quoteCmd)

	decodeCmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode raw pool accounts into pool snapshots",
		RunE:  runDecode,
	}

	decodeCmd.Flags().String("in", "", "input account records JSONL")
	decodeCmd.Flags().String("out", "./data/pools.jsonl", "output pool snapshots JSONL")
	decodeCmd.Flags().String("errors", "./data/decode_errors.jsonl", "decode errors JSONL")
	decodeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(decodeCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep pool snapshots in sync with the chain",
		RunE:  runWatch,
	}

	watchCmd.Flags().String("name", "watch", "checkpoint state name")
	watchCmd.Flags().String("rpc", "", "Solana RPC URL")
	watchCmd.Flags().String("commitment", "confirmed", "RPC commitment (processed, confirmed, finalized)")
	watchCmd.Flags().StringSlice("pool", nil, "pool account addresses (comma-separated)")
	watchCmd.Flags().Duration("interval", 5*time.Second, "refresh interval, 0 refreshes once")
	watchCmd.Flags().Int("batch-size", 100, "accounts per RPC request")
	watchCmd.Flags().String("out", "./data/accounts.jsonl", "output account records JSONL, empty disables")
	watchCmd.Flags().String("snapshots-out", "", "output pool snapshots JSONL")
	watchCmd.Flags().String("pg-dsn", "", "Postgres DSN for snapshots and slot state")
	watchCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	watchCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	watchCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	watchCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	watchCmd.Flags().Duration("max-backoff", 10*time.Second, "maximum retry backoff")
	watchCmd.Flags().String("probe-from", "", "source mint of a quote logged after each refresh")
	watchCmd.Flags().String("probe-to", "", "destination mint of the probe quote")
	watchCmd.Flags().Float64("probe-amount", 1, "amount of the probe quote")
	watchCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(watchCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
