package fec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// buildCoders returns one instance of every coder variant for a range of
// small parameters, used by the table-driven universal-invariant tests
// below.
func buildCoders(t *testing.T) []Coder {
	t.Helper()
	var out []Coder

	cyclic, err := NewCyclicCoder(8, 0xB)
	require.NoError(t, err)
	out = append(out, cyclic)

	hamming, err := NewHammingCoder(4)
	require.NoError(t, err)
	out = append(out, hamming)

	rm, err := NewReedMullerCoder(1, 3)
	require.NoError(t, err)
	out = append(out, rm)

	fountain, err := NewFountainCoder(2, 8, 12, 1)
	require.NoError(t, err)
	out = append(out, fountain)

	return out
}

func TestCoderCodewordLengthIsKPlusR(t *testing.T) {
	for _, c := range buildCoders(t) {
		require.Equal(t, c.K()+c.R(), c.N(), "%s", c.Describe().Name)
	}
}

func TestCoderSpeedPlusRedundancyIsOne(t *testing.T) {
	for _, c := range buildCoders(t) {
		require.InDelta(t, 1.0, c.Speed()+c.Redundancy(), 1e-9, "%s", c.Describe().Name)
	}
}

func TestCoderZeroNoiseRoundTrip(t *testing.T) {
	for _, c := range buildCoders(t) {
		info := make(Bits, c.K())
		for i := range info {
			info[i] = byte(i % 2)
		}
		normalized := c.TryNormalize(info)

		encoded, err := c.Encode(normalized)
		require.NoError(t, err)
		require.Equal(t, c.N(), len(encoded))

		decoded, err := c.Decode(encoded)
		require.NoError(t, err)
		require.True(t, decoded.Equal(normalized), "%s: round trip mismatch", c.Describe().Name)
	}
}

// TestCoderZeroNoiseRoundTripProperty exercises the same invariant across
// randomly generated cyclic and Hamming parameters and payloads, per the
// universal round-trip invariant.
func TestCoderZeroNoiseRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		k := rapid.IntRange(1, 16).Draw(rt, "k")
		payload := rapid.SliceOfN(rapid.IntRange(0, 1), 0, k).Draw(rt, "payload")

		info := make(Bits, len(payload))
		for i, v := range payload {
			info[i] = byte(v)
		}

		hamming, err := NewHammingCoder(k)
		require.NoError(t, err)
		roundTrip(t, hamming, info)

		gen := rapid.SampledFrom([]uint64{0xB, 0x13, 0x25}).Draw(rt, "gen")
		cyclic, err := NewCyclicCoder(k, gen)
		require.NoError(t, err)
		roundTrip(t, cyclic, info)
	})
}

func roundTrip(t *testing.T, c Coder, info Bits) {
	t.Helper()
	normalized := c.TryNormalize(info)
	encoded, err := c.Encode(info)
	require.NoError(t, err)
	require.Equal(t, c.N(), len(encoded))
	decoded, err := c.Decode(encoded)
	require.NoError(t, err)
	require.True(t, decoded.Equal(normalized))
}

func TestCodingErrorUnwraps(t *testing.T) {
	err := Uncorrectable("boom: %d", 3)
	ce, ok := AsCodingError(err)
	require.True(t, ok)
	require.Equal(t, "boom: 3", ce.Message)
	require.Equal(t, int(StatusUncorrectable), ce.Status)
}

func TestAsCodingErrorRejectsOtherErrors(t *testing.T) {
	_, ok := AsCodingError(errors.New("boom"))
	require.False(t, ok)
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "CLEAN", StatusClean.String())
	require.Equal(t, "CORRUPTED_REPAIRED", StatusCorruptedRepaired.String())
	require.Equal(t, "UNCORRECTABLE", StatusUncorrectable.String())
	require.Equal(t, "SILENT_ERROR", StatusSilentError.String())
}
