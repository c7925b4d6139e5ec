package fec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitsCloneIndependent(t *testing.T) {
	a := Bits{1, 0, 1, 1}
	b := a.Clone()
	b[0] = 0
	require.Equal(t, byte(1), a[0])
}

func TestBitsEqual(t *testing.T) {
	require.True(t, Bits{1, 0, 1}.Equal(Bits{1, 0, 1}))
	require.False(t, Bits{1, 0, 1}.Equal(Bits{1, 0, 0}))
	require.False(t, Bits{1, 0}.Equal(Bits{1, 0, 0}))
}

func TestBitsWeight(t *testing.T) {
	require.Equal(t, 0, Bits{0, 0, 0}.Weight())
	require.Equal(t, 3, Bits{1, 0, 1, 0, 1}.Weight())
}

func TestLeftPad(t *testing.T) {
	require.Equal(t, Bits{0, 0, 1, 1}, LeftPad(Bits{1, 1}, 4))
	require.Equal(t, Bits{1, 1, 1}, LeftPad(Bits{1, 1, 1}, 2))
}

func TestIntToBitsAndBack(t *testing.T) {
	b := IntToBits(0b1011, 4, false)
	require.Equal(t, Bits{1, 0, 1, 1}, b)
	require.Equal(t, uint64(0b1011), BitsToInt(b))

	rev := IntToBits(0b1011, 4, true)
	require.Equal(t, Bits{1, 1, 0, 1}, rev)
}

func TestXORAndAND(t *testing.T) {
	a := Bits{1, 1, 0, 0}
	b := Bits{1, 0, 1, 0}
	require.Equal(t, Bits{0, 1, 1, 0}, XOR(a, b))
	require.Equal(t, Bits{1, 0, 0, 0}, AND(a, b))
}

func TestXORMismatchedLengthPanics(t *testing.T) {
	require.Panics(t, func() {
		XOR(Bits{1, 0}, Bits{1, 0, 1})
	})
}

func TestNot(t *testing.T) {
	require.Equal(t, Bits{0, 1, 1}, Not(Bits{1, 0, 0}))
}

func TestInner(t *testing.T) {
	require.Equal(t, byte(0), Inner(Bits{1, 1, 0}, Bits{0, 0, 1}))
	require.Equal(t, byte(1), Inner(Bits{1, 1, 0}, Bits{1, 0, 1}))
}

func TestPopCount(t *testing.T) {
	require.Equal(t, 3, PopCount(0b1011))
}
