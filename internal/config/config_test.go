package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadWatchDefaults(t *testing.T) {
	cfg, err := LoadWatch(writeConfig(t, "log-level: info\n"), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Interval != 5*time.Second || cfg.BatchSize != 100 || !cfg.CheckpointEnabled {
		t.Fatalf("defaults mismatch: %+v", cfg)
	}
	if cfg.Commitment != "confirmed" || cfg.Name != "watch" {
		t.Fatalf("defaults mismatch: %+v", cfg)
	}
}

func TestLoadWatchPrecedence(t *testing.T) {
	path := writeConfig(t, "rpc: http://file\npool:\n  - PoolA\n  - PoolB\ninterval: 2s\n")
	t.Setenv("QUOTER_RPC", "http://env")
	t.Setenv("QUOTER_MAX_RETRIES", "9")

	flags := pflag.NewFlagSet("watch", pflag.ContinueOnError)
	flags.String("pg-dsn", "", "")
	flags.Int("batch-size", 100, "")
	if err := flags.Parse([]string{"--pg-dsn", "postgres://db", "--batch-size", "25"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := LoadWatch(path, flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RPCURL != "http://env" {
		t.Fatalf("env should override file: %s", cfg.RPCURL)
	}
	if cfg.MaxRetries != 9 {
		t.Fatalf("env max retries: %d", cfg.MaxRetries)
	}
	if cfg.PGDSN != "postgres://db" || cfg.BatchSize != 25 {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if len(cfg.Pools) != 2 || cfg.Pools[1] != "PoolB" {
		t.Fatalf("pools mismatch: %v", cfg.Pools)
	}
	if cfg.Interval != 2*time.Second {
		t.Fatalf("interval mismatch: %s", cfg.Interval)
	}
}

func TestLoadQuoteFlags(t *testing.T) {
	flags := pflag.NewFlagSet("quote", pflag.ContinueOnError)
	flags.String("pool", "", "")
	flags.Float64("amount", 0, "")
	if err := flags.Parse([]string{"--pool", "PoolA", "--amount", "1.25"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := LoadQuote(writeConfig(t, "accounts: ./accounts.jsonl\n"), flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Pool != "PoolA" || cfg.Amount != 1.25 || cfg.Accounts != "./accounts.jsonl" {
		t.Fatalf("quote config mismatch: %+v", cfg)
	}
}

func TestLoadDecodeMissingFile(t *testing.T) {
	if _, err := LoadDecode(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestSplitAndClean(t *testing.T) {
	got := splitAndClean(" a, ,b ,")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("split mismatch: %v", got)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
