package util

import (
	"math/big"

	"github.com/pkg/errors"
)

const base10 = 10

// ParseBigInt parses a decimal string into a big.Int.
// Amounts travel as strings end to end to avoid precision loss.
func ParseBigInt(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, base10)
	if !ok {
		return nil, errors.Errorf("invalid integer value %q", s)
	}
	return v, nil
}

// ParseBigInts parses a slice of decimal strings.
func ParseBigInts(values []string) ([]*big.Int, error) {
	out := make([]*big.Int, 0, len(values))
	for _, s := range values {
		v, err := ParseBigInt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
