package fec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewHammingCoderRejectsBadK(t *testing.T) {
	_, err := NewHammingCoder(0)
	require.Error(t, err)
}

func TestHammingCoderChoosesMinimalRedundancy(t *testing.T) {
	// k=4 needs r=3 (2^3-3-1=4 >= 4); k=11 needs r=4 (2^4-4-1=11 >= 11).
	c, err := NewHammingCoder(4)
	require.NoError(t, err)
	require.Equal(t, 3, c.R())

	c, err = NewHammingCoder(11)
	require.NoError(t, err)
	require.Equal(t, 4, c.R())
}

func TestHammingEncodeDecodeRoundTrip(t *testing.T) {
	c, err := NewHammingCoder(4)
	require.NoError(t, err)

	for v := uint64(0); v < 16; v++ {
		info := IntToBits(v, 4, false)
		encoded, err := c.Encode(info)
		require.NoError(t, err)
		require.Equal(t, c.N(), len(encoded))

		decoded, err := c.Decode(encoded)
		require.NoError(t, err)
		require.True(t, decoded.Equal(info))
	}
}

func TestHammingCoderCorrectsSingleBitError(t *testing.T) {
	c, err := NewHammingCoder(4)
	require.NoError(t, err)

	info := IntToBits(0b1011, 4, false)
	encoded, err := c.Encode(info)
	require.NoError(t, err)

	for pos := 0; pos < c.N(); pos++ {
		corrupted := encoded.Clone()
		corrupted[pos] ^= 1

		decoded, err := c.Decode(corrupted)
		require.NoError(t, err)
		require.True(t, decoded.Equal(info), "flipping position %d should be correctable", pos)
	}
}

func TestHammingCoderDecodeOutOfRangeSyndromeIsUncorrectable(t *testing.T) {
	// k=5 chooses r=4 (2^4-4-1=11 >= 5), n=9, but 2^4-1=15: the minimal-r
	// construction leaves slack, so a multi-bit error can produce a
	// syndrome pointing past the end of the codeword. That must be
	// reported as uncorrectable rather than indexed into.
	c, err := NewHammingCoder(5)
	require.NoError(t, err)
	require.Equal(t, 4, c.R())
	require.Equal(t, 9, c.N())

	info := IntToBits(0b10110, 5, false)
	encoded, err := c.Encode(info)
	require.NoError(t, err)

	corrupted := encoded.Clone()
	corrupted[3] ^= 1
	corrupted[8] ^= 1

	_, err = c.Decode(corrupted)
	require.Error(t, err)
	ce, ok := AsCodingError(err)
	require.True(t, ok)
	require.Equal(t, int(StatusUncorrectable), ce.Status)
}

func TestHammingCoderDescribeMatrixShape(t *testing.T) {
	c, err := NewHammingCoder(4)
	require.NoError(t, err)
	d := c.Describe()
	require.Equal(t, "Hamming", d.Name)
	require.Len(t, d.MatrixOfGenerating, c.N())
	for _, row := range d.MatrixOfGenerating {
		require.Len(t, row, c.R())
	}
}
