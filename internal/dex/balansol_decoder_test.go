package dex

import (
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"

	"weightedQuote/internal/model"
)

func testKey(b byte) solana.PublicKey {
	var key solana.PublicKey
	for i := range key {
		key[i] = b
	}
	return key
}

func testLayout() PoolLayout {
	return PoolLayout{
		Authority:  testKey(1),
		Fee:        2_500_000,
		TaxFee:     500_000,
		State:      uint8(model.PoolStatusInitialized),
		MintLpt:    testKey(2),
		TaxMan:     testKey(3),
		Mints:      []solana.PublicKey{testKey(10), testKey(11)},
		Actions:    []MintAction{MintActionActive, MintActionActive},
		Treasuries: []solana.PublicKey{testKey(20), testKey(21)},
		Reserves:   []uint64{1_000_000_000_000, 1_000_000_000_000},
		Weights:    []uint64{1_000_000_000, 1_000_000_000},
	}
}

func mustEncode(t *testing.T, layout PoolLayout) []byte {
	t.Helper()
	data, err := EncodePool(layout)
	if err != nil {
		t.Fatalf("encode pool: %v", err)
	}
	return data
}

func TestPoolDiscriminator(t *testing.T) {
	sum := sha256.Sum256([]byte("account:Pool"))
	if string(PoolDiscriminator[:]) != string(sum[:8]) {
		t.Fatalf("discriminator mismatch: %x", PoolDiscriminator)
	}
}

func TestBalansolDecoderRoundTrip(t *testing.T) {
	layout := testLayout()
	data := mustEncode(t, layout)

	decoder := NewBalansolDecoder()
	if !decoder.CanDecode(data) {
		t.Fatalf("decoder rejected pool account")
	}

	pool := testKey(99)
	state, err := decoder.Decode(pool, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if state.Address() != pool || state.Authority() != layout.Authority {
		t.Fatalf("address mismatch: %s %s", state.Address(), state.Authority())
	}
	if state.MintLpt() != layout.MintLpt || state.TaxMan() != layout.TaxMan {
		t.Fatalf("lpt/taxman mismatch")
	}
	if state.Status() != model.PoolStatusInitialized {
		t.Fatalf("status mismatch: %s", state.Status())
	}
	if state.Fee().String() != "2500000" || state.TaxFee().String() != "500000" {
		t.Fatalf("fee mismatch: %s %s", state.Fee(), state.TaxFee())
	}
	if state.Len() != 2 || state.Mints()[1] != testKey(11) {
		t.Fatalf("mints mismatch: %v", state.Mints())
	}
	if state.Reserve(0).String() != "1000000000000" || state.Weight(1).String() != "1000000000" {
		t.Fatalf("reserve/weight mismatch")
	}
	if len(state.Treasuries()) != 2 {
		t.Fatalf("treasuries mismatch: %v", state.Treasuries())
	}
}

func TestBalansolDecoderRejects(t *testing.T) {
	valid := mustEncode(t, testLayout())

	badDisc := append([]byte(nil), valid...)
	badDisc[0] ^= 0xff

	mismatched := testLayout()
	mismatched.Reserves = mismatched.Reserves[:1]

	cases := map[string][]byte{
		"empty":           nil,
		"short":           valid[:4],
		"discriminator":   badDisc,
		"truncated body":  valid[:len(valid)-3],
		"length mismatch": mustEncode(t, mismatched),
	}

	decoder := NewBalansolDecoder()
	for name, data := range cases {
		if _, err := decoder.Decode(testKey(99), data); !errors.Is(err, ErrInvalidAccountData) {
			t.Fatalf("%s: expected ErrInvalidAccountData, got %v", name, err)
		}
	}
	if decoder.CanDecode(badDisc) || decoder.CanDecode(valid[:4]) {
		t.Fatalf("CanDecode accepted foreign account")
	}
}

func TestMapAddressToAccountInfos(t *testing.T) {
	a, b := testKey(1), testKey(2)
	accounts := map[string][]byte{
		a.String(): {1},
		b.String(): {2},
	}

	infos, err := MapAddressToAccountInfos(accounts, []solana.PublicKey{b, a})
	if err != nil {
		t.Fatalf("map accounts: %v", err)
	}
	if infos[0][0] != 2 || infos[1][0] != 1 {
		t.Fatalf("order mismatch: %v", infos)
	}

	_, err = MapAddressToAccountInfos(accounts, []solana.PublicKey{a, testKey(3)})
	if !errors.Is(err, ErrMissingAccountData) {
		t.Fatalf("expected ErrMissingAccountData, got %v", err)
	}
}
