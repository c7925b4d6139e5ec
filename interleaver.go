package fec

import (
	"math/rand"

	"github.com/pkg/errors"
)

// Interleaver holds a deterministic permutation of bit positions, fixed at
// construction from a seed, together with its inverse. Shuffle moves
// bits[i] to position perm[i]; Reestablish undoes it.
type Interleaver struct {
	length  int
	perm    []int
	inverse []int
}

// NewInterleaver builds an interleaver over length positions, drawing its
// permutation from a Fisher-Yates shuffle of [0,length) seeded by seed so
// that repeated construction with the same seed reproduces the same
// permutation.
func NewInterleaver(length int, seed int64) (*Interleaver, error) {
	if length < 1 {
		return nil, errors.Errorf("fec: interleaver requires length >= 1, got %d", length)
	}

	perm := make([]int, length)
	for i := range perm {
		perm[i] = i
	}
	random := rand.New(NewMersenneTwister(seed))
	random.Shuffle(length, func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})

	inverse := make([]int, length)
	for i, p := range perm {
		inverse[p] = i
	}

	return &Interleaver{length: length, perm: perm, inverse: inverse}, nil
}

// Length returns the permutation's domain size L.
func (il *Interleaver) Length() int {
	return il.length
}

// Shuffle applies the permutation: the returned bits has result[perm[i]] ==
// bits[i] for every i.
func (il *Interleaver) Shuffle(bits Bits) (Bits, error) {
	if len(bits) != il.length {
		return nil, errors.Errorf("fec: interleaver shuffle expects %d bits, got %d", il.length, len(bits))
	}
	out := make(Bits, il.length)
	for i, p := range il.perm {
		out[p] = bits[i]
	}
	return out, nil
}

// Reestablish applies the inverse permutation. Reestablish(Shuffle(x)) == x
// for every x of length L.
func (il *Interleaver) Reestablish(bits Bits) (Bits, error) {
	if len(bits) != il.length {
		return nil, errors.Errorf("fec: interleaver reestablish expects %d bits, got %d", il.length, len(bits))
	}
	out := make(Bits, il.length)
	for i, p := range il.inverse {
		out[p] = bits[i]
	}
	return out, nil
}
