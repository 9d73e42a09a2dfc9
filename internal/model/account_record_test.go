package model

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestAccountRecordJSONRoundTrip(t *testing.T) {
	raw := []byte{0xf1, 0x9a, 0x6d, 0x04, 0x11, 0xb1, 0x6d, 0xbc, 0x00, 0x01}
	original := NewAccountRecord(
		"D3BBjqUdCYuP18fNvvMbPAZ8DpcRi4io2EsYHQawJDag",
		"D3BBjqUdCYuP18fNvvMbPAZ8DpcRi4io2EsYHQawJDag",
		250_000_000,
		2_039_280,
		raw,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	)

	if original.Data != "0xf19a6d0411b16dbc0001" {
		t.Fatalf("unexpected hex data: %s", original.Data)
	}
	if original.FetchedAt != "2024-01-01T00:00:00Z" {
		t.Fatalf("unexpected fetched_at: %s", original.FetchedAt)
	}

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded AccountRecord
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", original, decoded)
	}

	data, err := decoded.Bytes()
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	if !bytes.Equal(data, raw) {
		t.Fatalf("bytes mismatch: %x != %x", data, raw)
	}
}

func TestAccountRecordBadHex(t *testing.T) {
	rec := AccountRecord{Address: "x", Data: "not-hex"}
	if _, err := rec.Bytes(); err == nil {
		t.Fatalf("expected error for invalid hex")
	}
}
