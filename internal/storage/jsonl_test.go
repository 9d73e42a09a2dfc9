package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"weightedQuote/internal/model"
)

func TestJsonlAccountRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "accounts.jsonl")
	store := NewJsonlStorage(path)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first := []model.AccountRecord{
		model.NewAccountRecord("pool-a", "owner", 10, 1, []byte{1, 2}, now),
		model.NewAccountRecord("pool-b", "owner", 10, 1, []byte{3}, now),
	}
	second := []model.AccountRecord{
		model.NewAccountRecord("pool-a", "owner", 12, 1, []byte{4}, now),
	}
	if err := store.PutAccountBatch(first); err != nil {
		t.Fatalf("put first: %v", err)
	}
	if err := store.PutAccountBatch(second); err != nil {
		t.Fatalf("put second: %v", err)
	}
	if err := store.PutAccountBatch(nil); err != nil {
		t.Fatalf("put empty: %v", err)
	}

	records, err := ReadAccountRecords(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[2].Data != "0x04" || records[2].Slot != 12 {
		t.Fatalf("record mismatch: %+v", records[2])
	}

	latest := LatestAccounts(records)
	if len(latest) != 2 || latest["pool-a"].Slot != 12 || latest["pool-b"].Data != "0x03" {
		t.Fatalf("latest mismatch: %+v", latest)
	}
}

func TestReadAccountRecordsErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadAccountRecords(filepath.Join(dir, "missing.jsonl")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.jsonl")
	if err := os.WriteFile(bad, []byte("{\"address\":\"a\"}\n\nnot json\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadAccountRecords(bad); err == nil {
		t.Fatalf("expected parse error")
	}
}
