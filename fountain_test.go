package fec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFountainCoderRejectsBadParams(t *testing.T) {
	_, err := NewFountainCoder(0, 4, 8, 1)
	require.Error(t, err)

	_, err = NewFountainCoder(2, 4, 0, 1)
	require.Error(t, err)

	// countBlocks*blockSize (6) < k (8): not enough coded bits to cover
	// the payload, so n < k, which would make R negative.
	_, err = NewFountainCoder(2, 3, 8, 1)
	require.Error(t, err)
}

func TestNewFountainCoderAllowsMoreCodingBlocksThanDistinctMasks(t *testing.T) {
	// b = ceil(12/4) = 3, so only 2^3-1 = 7 distinct non-zero masks
	// exist; c=8 must still succeed by allowing a repeated mask.
	c, err := NewFountainCoder(4, 8, 12, 1)
	require.NoError(t, err)
	require.Equal(t, 12, c.K())
	require.Equal(t, 32, c.N())
}

func TestFountainCoderMandatoryScenario(t *testing.T) {
	// spec-mandated scenario: s=4, c=8, k=12.
	c, err := NewFountainCoder(4, 8, 12, 1)
	require.NoError(t, err)

	info := Bits{1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 1, 0}
	encoded, err := c.Encode(info)
	require.NoError(t, err)

	decoded, err := c.Decode(encoded)
	require.NoError(t, err)
	require.True(t, decoded.Equal(info))
}

func TestFountainCoderDecodeErasureUncorrectable(t *testing.T) {
	// Tight case: countBlocks == sourceBlocks (b=3, c=3), so there is no
	// redundancy at all; erasing any one block necessarily leaves the
	// mask matrix with rank < b, regardless of which masks were drawn.
	c, err := NewFountainCoder(3, 3, 9, 1)
	require.NoError(t, err)
	require.Equal(t, c.sourceBlocks, c.countBlocks)

	info := IntToBits(0b101101101, 9, false)
	encoded, err := c.Encode(info)
	require.NoError(t, err)

	_, err = c.DecodeErasure(encoded, []int{0})
	require.Error(t, err)
	ce, ok := AsCodingError(err)
	require.True(t, ok)
	require.Equal(t, int(StatusUncorrectable), ce.Status)
}

func TestFountainCoderDimensions(t *testing.T) {
	c, err := NewFountainCoder(3, 6, 10, 1)
	require.NoError(t, err)
	require.Equal(t, 10, c.K())
	require.Equal(t, 18, c.N())
}

func TestFountainEncodeDecodeRoundTrip(t *testing.T) {
	c, err := NewFountainCoder(3, 6, 10, 1)
	require.NoError(t, err)

	for v := uint64(0); v < 32; v++ {
		info := IntToBits(v, 10, false)
		encoded, err := c.Encode(info)
		require.NoError(t, err)
		require.Equal(t, c.N(), len(encoded))

		decoded, err := c.Decode(encoded)
		require.NoError(t, err)
		require.True(t, decoded.Equal(info))
	}
}

func TestFountainCoderDeterministicMasks(t *testing.T) {
	a, err := NewFountainCoder(3, 6, 10, 42)
	require.NoError(t, err)
	b, err := NewFountainCoder(3, 6, 10, 42)
	require.NoError(t, err)

	info := IntToBits(0b1011001101, 10, false)
	ea, err := a.Encode(info)
	require.NoError(t, err)
	eb, err := b.Encode(info)
	require.NoError(t, err)
	require.True(t, ea.Equal(eb), "same seed must produce the same mask set")
}

func TestFountainCoderDescribe(t *testing.T) {
	c, err := NewFountainCoder(3, 6, 10, 1)
	require.NoError(t, err)
	d := c.Describe()
	require.Equal(t, "Fountain", d.Name)
	require.Equal(t, 10, d.LengthInformation)
	require.Equal(t, 18, d.LengthTotal)
}

func TestFountainCoderWrongLengthDecodeErrors(t *testing.T) {
	c, err := NewFountainCoder(3, 6, 10, 1)
	require.NoError(t, err)
	_, err = c.Decode(Bits{1, 0, 1})
	require.Error(t, err)
}
