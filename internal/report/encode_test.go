package report_test

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github/gather/report-gateway/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goldenReport matches a fixture cross-checked against the canonical
// JavaScript ABI encoder output for the same values.
func goldenReport(t *testing.T) *report.Report {
	t.Helper()

	r, err := report.New(
		"linux-0000-0008",
		"abc8-ece8-acde-12de",
		big.NewInt(1700000000),
		[]*big.Int{
			big.NewInt(12), big.NewInt(270), big.NewInt(13),
			big.NewInt(633), big.NewInt(633), big.NewInt(71),
		},
		[]*big.Int{big.NewInt(0x437e3481), big.NewInt(0x15986dcc)},
	)
	require.NoError(t, err)
	return r
}

// word left-pads a hex value to one 32-byte slot.
func word(s string) string {
	return strings.Repeat("0", 64-len(s)) + s
}

// tail right-pads dynamic tail bytes to a 32-byte boundary.
func tail(s string) string {
	return s + strings.Repeat("0", 64-len(s))
}

func TestEncodeGoldenVector(t *testing.T) {
	r := goldenReport(t)

	encoded, err := r.Encode()
	require.NoError(t, err)

	// head: two string offsets, timestamp, six sensors, two location words
	// tail: length-prefixed, zero-padded string bytes
	expected := strings.Join([]string{
		word("160"),
		word("1a0"),
		word("6553f100"),
		word("c"),
		word("10e"),
		word("d"),
		word("279"),
		word("279"),
		word("47"),
		word("437e3481"),
		word("15986dcc"),
		word("f"),
		tail(hex.EncodeToString([]byte("linux-0000-0008"))),
		word("13"),
		tail(hex.EncodeToString([]byte("abc8-ece8-acde-12de"))),
	}, "")

	assert.Equal(t, expected, hex.EncodeToString(encoded))
	assert.Len(t, encoded, 480)
}

func TestEncodeIsDeterministic(t *testing.T) {
	r := goldenReport(t)

	first, err := r.Encode()
	require.NoError(t, err)
	second, err := r.Encode()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEncodeLengthIsWordAligned(t *testing.T) {
	r, err := report.New("s", "a longer user code that spills into a second word", big.NewInt(1),
		[]*big.Int{
			big.NewInt(0), big.NewInt(1), big.NewInt(2),
			big.NewInt(3), big.NewInt(4), big.NewInt(5),
		},
		[]*big.Int{big.NewInt(-1), big.NewInt(7)},
	)
	require.NoError(t, err)

	encoded, err := r.Encode()
	require.NoError(t, err)

	assert.Zero(t, len(encoded)%32)
}

func TestEncodeNegativeLocationTwosComplement(t *testing.T) {
	r, err := report.New("s", "u", big.NewInt(1),
		[]*big.Int{
			big.NewInt(0), big.NewInt(0), big.NewInt(0),
			big.NewInt(0), big.NewInt(0), big.NewInt(0),
		},
		[]*big.Int{big.NewInt(-1), big.NewInt(0)},
	)
	require.NoError(t, err)

	encoded, err := r.Encode()
	require.NoError(t, err)

	// location[0] sits in head slot 10 (zero-based 9); -1 is all ones
	slot := encoded[9*32 : 10*32]
	assert.Equal(t, strings.Repeat("ff", 32), hex.EncodeToString(slot))
}

func TestPayloadHashGoldenVector(t *testing.T) {
	r := goldenReport(t)

	hash, err := r.PayloadHash()
	require.NoError(t, err)

	assert.Equal(t, "0x3649f332fbfa3566d8f8b87b2e65d655b1cbcfba340f98e4f039493d55a1f4de", hash.Hex())
}
