package chain

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

func TestParseCommitment(t *testing.T) {
	cases := map[string]rpc.CommitmentType{
		"":           rpc.CommitmentConfirmed,
		"confirmed":  rpc.CommitmentConfirmed,
		"Finalized":  rpc.CommitmentFinalized,
		" processed": rpc.CommitmentProcessed,
	}
	for input, want := range cases {
		got, err := ParseCommitment(input)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", input, err)
		}
		if got != want {
			t.Fatalf("%q: got %s want %s", input, got, want)
		}
	}
	if _, err := ParseCommitment("max"); err == nil {
		t.Fatalf("expected error for unknown commitment")
	}
}

func TestNewClientRequiresURL(t *testing.T) {
	if _, err := NewClient(" ", "confirmed"); err == nil {
		t.Fatalf("expected error for empty rpc url")
	}
}

func TestGetAccountsLimits(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:0", "confirmed")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	got, slot, err := client.GetAccounts(context.Background(), nil)
	if err != nil || len(got) != 0 || slot != 0 {
		t.Fatalf("empty request: %v %v %d", got, err, slot)
	}

	keys := make([]solana.PublicKey, MaxAccountsPerRequest+1)
	if _, _, err := client.GetAccounts(context.Background(), keys); err == nil {
		t.Fatalf("expected error for oversized request")
	}
}
