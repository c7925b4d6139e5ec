package fec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCyclicCoderRejectsBadParams(t *testing.T) {
	_, err := NewCyclicCoder(0, 0xB)
	require.Error(t, err)

	_, err = NewCyclicCoder(4, 0)
	require.Error(t, err)
}

func TestCyclicCoderDimensions(t *testing.T) {
	c, err := NewCyclicCoder(8, 0xB) // generator degree 3 -> r=3
	require.NoError(t, err)
	require.Equal(t, 8, c.K())
	require.Equal(t, 3, c.R())
	require.Equal(t, 11, c.N())
}

func TestCyclicEncodeDecodeRoundTrip(t *testing.T) {
	c, err := NewCyclicCoder(8, 0xB)
	require.NoError(t, err)

	for _, v := range []uint64{0, 1, 0b10110101, 0b11111111} {
		info := IntToBits(v, 8, false)
		encoded, err := c.Encode(info)
		require.NoError(t, err)
		require.Equal(t, c.N(), len(encoded))

		decoded, err := c.Decode(encoded)
		require.NoError(t, err)
		require.True(t, decoded.Equal(info))
	}
}

func TestCyclicCoderCorrectsSingleRemainderBitError(t *testing.T) {
	c, err := NewCyclicCoder(8, 0xB)
	require.NoError(t, err)

	info := IntToBits(0b10110101, 8, false)
	encoded, err := c.Encode(info)
	require.NoError(t, err)

	corrupted := encoded.Clone()
	corrupted[2] ^= 1

	decoded, err := c.Decode(corrupted)
	require.NoError(t, err)
	require.True(t, decoded.Equal(info))
}

func TestCyclicCoderTryNormalizePadsShortInput(t *testing.T) {
	c, err := NewCyclicCoder(5, 0xB)
	require.NoError(t, err)
	got := c.TryNormalize(Bits{1, 1})
	require.Equal(t, 5, len(got))
	require.Equal(t, Bits{1, 1, 0, 0, 0}, got)
}

func TestCyclicCoderDescribe(t *testing.T) {
	c, err := NewCyclicCoder(8, 0xB)
	require.NoError(t, err)
	d := c.Describe()
	require.Equal(t, "Cyclic", d.Name)
	require.Equal(t, 8, d.LengthInformation)
	require.Equal(t, 3, d.LengthAdditional)
	require.Equal(t, 11, d.LengthTotal)
	require.Len(t, d.Polynomial, 4)
}
