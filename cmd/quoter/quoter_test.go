package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"weightedQuote/internal/config"
	"weightedQuote/internal/dex"
	"weightedQuote/internal/model"
	"weightedQuote/internal/storage"
)

var (
	testPool = solana.PublicKeyFromBytes(bytes.Repeat([]byte{7}, 32))
	mintA    = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	mintB    = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
)

func writeAccounts(t *testing.T) string {
	t.Helper()
	data, err := dex.EncodePool(dex.PoolLayout{
		Mints:      []solana.PublicKey{mintA, mintB},
		Actions:    []dex.MintAction{dex.MintActionActive, dex.MintActionActive},
		Treasuries: []solana.PublicKey{mintA, mintB},
		Reserves:   []uint64{1_000_000_000_000, 1_000_000_000_000},
		Weights:    []uint64{1_000_000_000, 1_000_000_000},
		State:      uint8(model.PoolStatusInitialized),
	})
	if err != nil {
		t.Fatalf("encode pool: %v", err)
	}

	path := filepath.Join(t.TempDir(), "accounts.jsonl")
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	err = storage.NewJsonlStorage(path).PutAccountBatch([]model.AccountRecord{
		model.NewAccountRecord(testPool.String(), dex.BalansolProgramID, 7, 1, data, now),
		model.NewAccountRecord(mintA.String(), "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", 7, 1, []byte{1, 2, 3}, now),
	})
	if err != nil {
		t.Fatalf("write accounts: %v", err)
	}
	return path
}

func TestQuoteFromAccountsFile(t *testing.T) {
	path := writeAccounts(t)

	pool, req, err := parseQuoteRequest(config.QuoteConfig{
		Accounts: path,
		Pool:     testPool.String(),
		From:     mintA.String(),
		To:       mintB.String(),
		Amount:   100,
	})
	if err != nil {
		t.Fatalf("parse request: %v", err)
	}

	amm, err := ammFromAccounts(path, pool, zap.NewNop())
	if err != nil {
		t.Fatalf("load amm: %v", err)
	}

	var out bytes.Buffer
	if err := writeQuote(&out, amm, req); err != nil {
		t.Fatalf("quote: %v", err)
	}

	var record model.QuoteRecord
	if err := json.Unmarshal(out.Bytes(), &record); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if record.Label != "Balansol" || record.Pool != testPool.String() {
		t.Fatalf("record header mismatch: %+v", record)
	}
	if !strings.HasPrefix(record.OutAmount, "90.90909090") {
		t.Fatalf("out amount mismatch: %s", record.OutAmount)
	}
	if record.FeeMint != mintB.String() {
		t.Fatalf("fee mint mismatch: %s", record.FeeMint)
	}
}

func TestQuoteFromAccountsMissingPool(t *testing.T) {
	path := writeAccounts(t)
	_, err := ammFromAccounts(path, mintB, zap.NewNop())
	if !errors.Is(err, dex.ErrMissingAccountData) {
		t.Fatalf("expected ErrMissingAccountData, got %v", err)
	}
}

func TestParseQuoteRequestValidation(t *testing.T) {
	base := config.QuoteConfig{
		RPCURL: "http://localhost:8899",
		Pool:   testPool.String(),
		From:   mintA.String(),
		To:     mintB.String(),
		Amount: 1,
	}

	noSource := base
	noSource.From = ""
	noBackend := base
	noBackend.RPCURL = ""
	zeroAmount := base
	zeroAmount.Amount = 0
	badKey := base
	badKey.To = "not-a-key"

	for name, cfg := range map[string]config.QuoteConfig{
		"missing source":  noSource,
		"missing backend": noBackend,
		"zero amount":     zeroAmount,
		"bad key":         badKey,
	} {
		if _, _, err := parseQuoteRequest(cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, _, err := parseQuoteRequest(zeroAmount); !errors.Is(err, dex.ErrInvalidAmount) {
		t.Fatalf("zero amount should be ErrInvalidAmount, got %v", err)
	}
}

func TestDecodeAccounts(t *testing.T) {
	input, err := os.ReadFile(writeAccounts(t))
	if err != nil {
		t.Fatalf("read accounts: %v", err)
	}
	input = append(input, []byte("not json\n")...)

	dir := t.TempDir()
	outWriter, err := newJSONLWriter(filepath.Join(dir, "pools.jsonl"), false)
	if err != nil {
		t.Fatalf("out writer: %v", err)
	}
	errWriter, err := newJSONLWriter(filepath.Join(dir, "errors.jsonl"), false)
	if err != nil {
		t.Fatalf("err writer: %v", err)
	}

	stats, err := decodeAccounts(bytes.NewReader(input), dex.NewBalansolDecoder(), outWriter, errWriter)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := outWriter.Close(); err != nil {
		t.Fatalf("close out: %v", err)
	}
	if err := errWriter.Close(); err != nil {
		t.Fatalf("close errors: %v", err)
	}

	if stats.total != 3 || stats.decoded != 1 || stats.skipped != 1 || stats.failed != 1 {
		t.Fatalf("stats mismatch: %+v", stats)
	}

	pools, err := os.ReadFile(filepath.Join(dir, "pools.jsonl"))
	if err != nil {
		t.Fatalf("read pools: %v", err)
	}
	var snapshot model.PoolSnapshot
	if err := json.Unmarshal(bytes.TrimSpace(pools), &snapshot); err != nil {
		t.Fatalf("parse snapshot: %v", err)
	}
	if snapshot.Address != testPool.String() || snapshot.Slot != 7 || len(snapshot.Mints) != 2 {
		t.Fatalf("snapshot mismatch: %+v", snapshot)
	}
}

func TestParseProbe(t *testing.T) {
	probe, err := parseProbe(config.WatchConfig{})
	if err != nil || probe != nil {
		t.Fatalf("no probe flags should give nil probe, got %v, %v", probe, err)
	}

	cfg := config.WatchConfig{ProbeFrom: mintA.String(), ProbeTo: mintB.String(), ProbeAmount: 2.5}
	probe, err = parseProbe(cfg)
	if err != nil {
		t.Fatalf("parse probe: %v", err)
	}
	if probe.SourceMint != mintA || probe.DestinationMint != mintB || probe.Amount != 2.5 {
		t.Fatalf("probe mismatch: %+v", probe)
	}

	for _, amount := range []float64{0, -1} {
		cfg.ProbeAmount = amount
		if _, err := parseProbe(cfg); !errors.Is(err, dex.ErrInvalidAmount) {
			t.Fatalf("amount %v should be ErrInvalidAmount, got %v", amount, err)
		}
	}

	if _, err := parseProbe(config.WatchConfig{ProbeFrom: mintA.String(), ProbeAmount: 1}); err == nil {
		t.Fatalf("expected error for probe-from without probe-to")
	}
}
