package fec

import (
	"math/bits"

	"github.com/pkg/errors"
)

// CyclicCoder implements a CRC-style binary cyclic code: encoding computes a
// polynomial remainder under a fixed generator polynomial g(x), decoding
// recomputes the syndrome and repairs bit errors it can locate.
//
// Orientation note: unlike the rest of this package, CyclicCoder's Bits
// parameters are ordered index-0-is-coefficient-of-x^0 (lowest order term
// first), the reversed convention the package's orientation rule explicitly
// allows a routine to request. This keeps the generator polynomial's
// arithmetic, and the "remainder bits followed by payload bits" codeword
// layout, aligned directly with their polynomial definitions instead of
// requiring a reversal at every call.
type CyclicCoder struct {
	baseRates
	gen Bits // generator polynomial, LSB first, length r+1, gen[r] == 1
}

// NewCyclicCoder constructs a cyclic coder consuming k information bits per
// codeword, using the generator polynomial encoded by the bits of genInt
// (e.g. 0xB == x^3+x+1). The redundancy r is the generator's degree
// (bit-length of genInt minus one).
func NewCyclicCoder(k int, genInt uint64) (*CyclicCoder, error) {
	if k < 1 {
		return nil, errors.Errorf("fec: cyclic coder requires k >= 1, got %d", k)
	}
	if genInt == 0 {
		return nil, errors.New("fec: cyclic coder generator polynomial must be non-zero")
	}
	r := bits.Len64(genInt) - 1
	gen := IntToBits(genInt, r+1, true)
	return &CyclicCoder{
		baseRates: baseRates{k: k, r: r},
		gen:       gen,
	}, nil
}

// TryNormalize zero-extends bits to length K, appending the padding zeros
// after the given bits (the "left pad" in conventional MSB terms becomes a
// right pad under this coder's reversed, low-order-first convention).
func (c *CyclicCoder) TryNormalize(b Bits) Bits {
	if len(b) >= c.k {
		return b
	}
	out := make(Bits, c.k)
	copy(out, b)
	return out
}

// Encode treats info as the coefficients of a degree-<k polynomial m(x),
// computes q(x) = (x^r * m(x)) mod g(x), and returns q(x) || m(x): the r
// remainder bits followed by the k payload bits.
func (c *CyclicCoder) Encode(info Bits) (Bits, error) {
	info = c.TryNormalize(info)
	if len(info) != c.k {
		return nil, errors.Errorf("fec: cyclic encode expects <= %d info bits, got %d", c.k, len(info))
	}

	shifted := make(Bits, c.k+c.r)
	copy(shifted[c.r:], info) // x^r * m(x): zeros in the low r degrees, info above them

	remainder := polyMod(shifted, c.gen)

	codeword := make(Bits, c.N())
	copy(codeword, remainder)
	copy(codeword[c.r:], info)
	return codeword, nil
}

// Decode recomputes the syndrome of word under g(x). If it is zero, word is
// a valid codeword and the payload (the top k bits, i.e. indices r..n-1) is
// returned directly. Otherwise it makes up to r correction passes: each
// pass XORs every bit position where the current syndrome is non-zero into
// the working word, then recomputes the syndrome. Because the syndrome has
// degree < r, one pass XORs it into the r remainder bits and always brings
// the syndrome to zero, so only errors confined to the remainder bits are
// repaired; errors in payload bits are returned as received. The caller
// detects those by comparing against its own expectations (the channel
// simulator does this via the SILENT_ERROR classification, spec §4.7).
func (c *CyclicCoder) Decode(word Bits) (Bits, error) {
	if len(word) != c.N() {
		return nil, errors.Errorf("fec: cyclic decode expects %d bits, got %d", c.N(), len(word))
	}
	work := word.Clone()

	for pass := 0; pass < c.r; pass++ {
		syndrome := polyMod(work, c.gen)
		if syndrome.Weight() == 0 {
			break
		}
		for i, bit := range syndrome {
			if bit != 0 {
				work[i] ^= 1
			}
		}
	}

	return work[c.r:], nil
}

func (c *CyclicCoder) Describe() Description {
	return Description{
		Name:              "Cyclic",
		LengthInformation: c.k,
		LengthAdditional:  c.r,
		LengthTotal:       c.N(),
		Speed:             c.Speed(),
		Polynomial:        c.gen.Clone(),
	}
}

// polyMod computes dividend mod gen over GF(2), where both are bit vectors
// index-0-is-low-order and gen's highest-index coefficient is 1. Returns the
// remainder as the trailing len(gen)-1 coefficients of the reduced buffer,
// via the standard shift-and-XOR long division technique operated directly
// on the bit buffer (spec §9's guidance against a general polynomial
// library): reduce the dividend from its highest-order bit down, XORing gen
// into the working buffer wherever the current leading bit is set.
func polyMod(dividend, gen Bits) Bits {
	r := len(gen) - 1
	work := dividend.Clone()
	for i := len(work) - 1; i >= r; i-- {
		if work[i] == 0 {
			continue
		}
		for j, g := range gen {
			work[i-r+j] ^= g
		}
	}
	return work[:r]
}
