package fec

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewInterleaverRejectsBadLength(t *testing.T) {
	_, err := NewInterleaver(0, 1)
	require.Error(t, err)
}

func TestInterleaverIsAPermutation(t *testing.T) {
	il, err := NewInterleaver(32, 7)
	require.NoError(t, err)

	seen := make(map[int]bool, 32)
	for _, p := range il.perm {
		require.False(t, seen[p], "permutation must not repeat a destination index")
		seen[p] = true
	}
	require.Len(t, seen, 32)
}

func TestInterleaverShuffleReestablishRoundTrip(t *testing.T) {
	il, err := NewInterleaver(16, 99)
	require.NoError(t, err)

	original := make(Bits, 16)
	for i := range original {
		original[i] = byte(i % 2)
	}

	shuffled, err := il.Shuffle(original)
	require.NoError(t, err)
	require.Len(t, shuffled, 16)

	restored, err := il.Reestablish(shuffled)
	require.NoError(t, err)
	require.True(t, restored.Equal(original))
}

func TestInterleaverSameSeedIsDeterministic(t *testing.T) {
	a, err := NewInterleaver(20, 5)
	require.NoError(t, err)
	b, err := NewInterleaver(20, 5)
	require.NoError(t, err)
	require.Equal(t, a.perm, b.perm)
}

func TestInterleaverRejectsMismatchedLength(t *testing.T) {
	il, err := NewInterleaver(8, 1)
	require.NoError(t, err)
	_, err = il.Shuffle(Bits{1, 0, 1})
	require.Error(t, err)
	_, err = il.Reestablish(Bits{1, 0, 1})
	require.Error(t, err)
}

// TestInterleaverRoundTripProperty checks the Reestablish(Shuffle(x)) == x
// invariant across randomly generated lengths, seeds and bit sequences.
func TestInterleaverRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		length := rapid.IntRange(1, 64).Draw(rt, "length")
		seed := rapid.Int64().Draw(rt, "seed")
		payload := rapid.SliceOfN(rapid.IntRange(0, 1), length, length).Draw(rt, "payload")

		il, err := NewInterleaver(length, seed)
		require.NoError(t, err)

		bits := make(Bits, length)
		for i, v := range payload {
			bits[i] = byte(v)
		}

		shuffled, err := il.Shuffle(bits)
		require.NoError(t, err)
		restored, err := il.Reestablish(shuffled)
		require.NoError(t, err)
		require.True(t, restored.Equal(bits))
	})
}
