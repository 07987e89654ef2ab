package util_test

import (
	"testing"

	"github/gather/report-gateway/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBigInt(t *testing.T) {
	v, err := util.ParseBigInt("1700000000")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), v.Int64())

	v, err = util.ParseBigInt("-42")
	require.NoError(t, err)
	assert.Equal(t, int64(-42), v.Int64())

	_, err = util.ParseBigInt("")
	require.Error(t, err)

	_, err = util.ParseBigInt("0x10")
	require.Error(t, err, "hex input is not accepted")

	_, err = util.ParseBigInt("12.5")
	require.Error(t, err)
}

func TestParseBigInts(t *testing.T) {
	values, err := util.ParseBigInts([]string{"1", "2", "3"})
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, int64(2), values[1].Int64())

	_, err = util.ParseBigInts([]string{"1", "oops"})
	require.Error(t, err)
}
