// Package fixedpoint converts between on-chain scaled integers and
// human-scale values without introducing floating error.
package fixedpoint

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// ScaledAmount is an integer magnitude with an implied decimal point position
// that is known by the caller. It is a value object: the wrapped integer is
// never exposed for mutation.
type ScaledAmount struct {
	v *big.Int
}

// NewScaledAmount copies value into a ScaledAmount. A nil value yields zero.
func NewScaledAmount(value *big.Int) ScaledAmount {
	if value == nil {
		return ScaledAmount{}
	}
	return ScaledAmount{v: new(big.Int).Set(value)}
}

// FromUint64 builds a ScaledAmount from a raw on-chain u64.
func FromUint64(value uint64) ScaledAmount {
	return ScaledAmount{v: new(big.Int).SetUint64(value)}
}

// FromInt64 builds a ScaledAmount from a signed integer.
func FromInt64(value int64) ScaledAmount {
	return ScaledAmount{v: big.NewInt(value)}
}

// Zero returns the zero amount.
func Zero() ScaledAmount {
	return ScaledAmount{}
}

// ParseScaledAmount parses a base-10 integer string.
func ParseScaledAmount(value string) (ScaledAmount, error) {
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return ScaledAmount{}, fmt.Errorf("%w: %q", ErrInvalidNumber, value)
	}
	return ScaledAmount{v: parsed}, nil
}

// BigInt returns a copy of the magnitude.
func (s ScaledAmount) BigInt() *big.Int {
	if s.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(s.v)
}

func (s ScaledAmount) Sign() int {
	if s.v == nil {
		return 0
	}
	return s.v.Sign()
}

func (s ScaledAmount) IsZero() bool {
	return s.Sign() == 0
}

// Add returns s + other as a new value.
func (s ScaledAmount) Add(other ScaledAmount) ScaledAmount {
	return ScaledAmount{v: new(big.Int).Add(s.BigInt(), other.BigInt())}
}

// Cmp compares magnitudes like big.Int.Cmp.
func (s ScaledAmount) Cmp(other ScaledAmount) int {
	return s.BigInt().Cmp(other.BigInt())
}

// String renders the raw integer magnitude.
func (s ScaledAmount) String() string {
	if s.v == nil {
		return "0"
	}
	return s.v.String()
}

// MarshalJSON encodes the magnitude as a decimal string to keep full precision.
func (s ScaledAmount) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the string form written by MarshalJSON.
func (s *ScaledAmount) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	if text == "" {
		*s = ScaledAmount{}
		return nil
	}
	parsed, err := ParseScaledAmount(text)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
