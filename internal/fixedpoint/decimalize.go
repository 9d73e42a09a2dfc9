package fixedpoint

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Decimalize shifts a human-scale literal by decimals digits into a scaled
// integer. Fractional digits beyond decimals are truncated, never rounded.
// An empty value yields zero.
func Decimalize(value string, decimals int) (ScaledAmount, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Zero(), nil
	}
	if decimals < 0 {
		return ScaledAmount{}, fmt.Errorf("%w: %d", ErrInvalidDecimals, decimals)
	}

	sign := ""
	unsigned := value
	if strings.HasPrefix(unsigned, "-") {
		sign = "-"
		unsigned = unsigned[1:]
	}

	parts := strings.Split(unsigned, ".")
	if len(parts) > 2 {
		return ScaledAmount{}, fmt.Errorf("%w: %q", ErrInvalidNumber, value)
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		return ScaledAmount{}, fmt.Errorf("%w: %q", ErrInvalidNumber, value)
	}
	if !isDigits(intPart) || !isDigits(fracPart) {
		return ScaledAmount{}, fmt.Errorf("%w: %q", ErrInvalidNumber, value)
	}

	if len(fracPart) >= decimals {
		fracPart = fracPart[:decimals]
	} else {
		fracPart += strings.Repeat("0", decimals-len(fracPart))
	}

	digits := intPart + fracPart
	if digits == "" {
		return Zero(), nil
	}
	magnitude, ok := new(big.Int).SetString(sign+digits, 10)
	if !ok {
		return ScaledAmount{}, fmt.Errorf("%w: %q", ErrInvalidNumber, value)
	}
	return ScaledAmount{v: magnitude}, nil
}

// DecimalizeFloat is Decimalize for a float64 input, using the shortest
// representation that round-trips the value.
func DecimalizeFloat(value float64, decimals int) (ScaledAmount, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ScaledAmount{}, fmt.Errorf("%w: %v", ErrInvalidNumber, value)
	}
	if value == 0 {
		return Zero(), nil
	}
	return Decimalize(strconv.FormatFloat(value, 'f', -1, 64), decimals)
}

// Undecimalize renders scaled as a human-scale decimal string. Trailing
// fractional zeros are stripped and no trailing point is emitted.
func Undecimalize(scaled ScaledAmount, decimals int) (string, error) {
	if decimals < 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidDecimals, decimals)
	}
	if scaled.IsZero() {
		return "0", nil
	}

	sign := ""
	digits := scaled.v.String()
	if strings.HasPrefix(digits, "-") {
		sign = "-"
		digits = digits[1:]
	}
	if decimals == 0 {
		return sign + digits, nil
	}

	integer := "0"
	var fraction string
	if len(digits) > decimals {
		integer = digits[:len(digits)-decimals]
		fraction = digits[len(digits)-decimals:]
	} else {
		fraction = strings.Repeat("0", decimals-len(digits)) + digits
	}

	fraction = strings.TrimRight(fraction, "0")
	if fraction == "" {
		return sign + integer, nil
	}
	return sign + integer + "." + fraction, nil
}

// ToNumber converts a scaled integer that carries no implied fractional
// digits to float64.
func ToNumber(scaled ScaledAmount) float64 {
	f, _ := ToFloat(scaled, 0)
	return f
}

// ToFloat converts scaled to the nearest float64 after removing decimals
// implied digits.
func ToFloat(scaled ScaledAmount, decimals int) (float64, error) {
	text, err := Undecimalize(scaled, decimals)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// ParseFloat only fails here on overflow; it still returns ±Inf.
		return f, fmt.Errorf("%w: %s", ErrInvalidNumber, err)
	}
	return f, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
