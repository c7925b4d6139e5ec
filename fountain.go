package fec

import (
	"math/rand"

	"github.com/pkg/errors"
)

// FountainCoder implements a Luby-Transform (LT) rateless code fixed at a
// particular generation set: c non-zero b-bit masks (pairwise distinct as
// long as that many distinct masks exist), each describing which of the b
// source blocks (of s bits each) are XORed together to produce one of the
// c encoded blocks. Unlike a classic LT
// encoder, which samples a fresh degree and composition per requested
// block from a soliton distribution, this coder fixes its whole generation
// set once at construction (spec's Fountain module has no notion of an
// unbounded block stream) and is immutable afterward like every other
// coder in this package.
type FountainCoder struct {
	baseRates
	blockSize    int    // s
	countBlocks  int    // c
	sourceBlocks int    // b = ceil(k/s)
	paddedLen    int    // b*s
	masks        []Bits // c masks, each of length b
}

// NewFountainCoder constructs an LT coder with block size s, c coding
// blocks, and k information bits, drawing c non-zero b-bit masks from a
// PRNG seeded by seed. When c does not exceed 2^b-1 (the number of distinct
// non-zero b-bit masks that exist), the drawn masks are pairwise distinct,
// maximizing the generation set's chances of full rank; once c exceeds that
// bound, distinctness is no longer possible for every mask and draws are
// allowed to repeat.
func NewFountainCoder(blockSize, countBlocks, k int, seed int64) (*FountainCoder, error) {
	if blockSize < 1 {
		return nil, errors.Errorf("fec: fountain coder requires block_size >= 1, got %d", blockSize)
	}
	if k < 1 {
		return nil, errors.Errorf("fec: fountain coder requires k >= 1, got %d", k)
	}
	if countBlocks < 1 {
		return nil, errors.Errorf("fec: fountain coder requires count_coding_blocks >= 1, got %d", countBlocks)
	}
	if countBlocks*blockSize < k {
		return nil, errors.Errorf(
			"fec: fountain coder requires count_coding_blocks*block_size >= k (%d < %d)", countBlocks*blockSize, k)
	}
	b := (k + blockSize - 1) / blockSize

	if b >= 63 {
		return nil, errors.Errorf("fec: fountain coder source block count %d is too large to enumerate masks", b)
	}

	masks := drawNonZeroMasks(b, countBlocks, seed)

	return &FountainCoder{
		baseRates:    baseRates{k: k, r: countBlocks*blockSize - k},
		blockSize:    blockSize,
		countBlocks:  countBlocks,
		sourceBlocks: b,
		paddedLen:    b * blockSize,
		masks:        masks,
	}, nil
}

// drawNonZeroMasks draws count non-zero b-bit masks from a PRNG seeded by
// seed, using the package's Mersenne Twister source (so fountain
// construction shares the same per-trial-seedable PRNG family as the
// interleaver and channel noise model, per the concurrency model's
// disjoint-seed requirement). Masks are drawn pairwise distinct as long as
// distinct non-zero b-bit values remain; once count exceeds 2^b-1, the
// remaining masks are drawn with repeats allowed.
func drawNonZeroMasks(b, count int, seed int64) []Bits {
	random := rand.New(NewMersenneTwister(seed))
	limit := uint64(1) << uint(b)
	maxDistinct := limit - 1

	seen := make(map[uint64]bool, count)
	masks := make([]Bits, 0, count)
	for len(masks) < count {
		v := uint64(random.Int63()) % limit
		if v == 0 {
			continue
		}
		if int64(len(masks)) < int64(maxDistinct) && seen[v] {
			continue
		}
		seen[v] = true
		masks = append(masks, IntToBits(v, b, true))
	}
	return masks
}

func (c *FountainCoder) TryNormalize(b Bits) Bits {
	return LeftPad(b, c.k)
}

// Encode zero-pads info to exactly k bits, then further to b*s bits so
// the source splits evenly into b blocks of s bits, and XORs each mask's
// referenced source blocks together to produce the mask's encoded block.
// The codeword is the concatenation of all c encoded blocks.
func (c *FountainCoder) Encode(info Bits) (Bits, error) {
	info = c.TryNormalize(info)
	if len(info) != c.k {
		return nil, errors.Errorf("fec: fountain encode expects <= %d info bits, got %d", c.k, len(info))
	}

	padded := make(Bits, c.paddedLen)
	copy(padded, info)

	source := make([]Bits, c.sourceBlocks)
	for i := range source {
		source[i] = padded[i*c.blockSize : (i+1)*c.blockSize]
	}

	codeword := make(Bits, c.N())
	for j, mask := range c.masks {
		block := make(Bits, c.blockSize)
		for i, bit := range mask {
			if bit != 0 {
				block = XOR(block, source[i])
			}
		}
		copy(codeword[j*c.blockSize:(j+1)*c.blockSize], block)
	}
	return codeword, nil
}

// Decode represents every received encoded block as an XOR equation over
// the unknown source blocks (its mask's set bits) and its value, then runs
// symbol-level Gaussian elimination (not the classic degree-1 cascade
// heuristic) via a sparse triangular matrix until every source block is
// solved, or a full pass makes no further progress.
func (c *FountainCoder) Decode(word Bits) (Bits, error) {
	return c.decode(word, nil)
}

// DecodeErasure is Decode's erasure-channel counterpart: erasedBlocks names
// the (0-based) encoded block indices the receiver never got, so their
// equations are excluded from the mask matrix rather than contributing a
// (wrong) value. Fails with Uncorrectable whenever the remaining equations
// leave the matrix's rank below sourceBlocks, same as Decode.
func (c *FountainCoder) DecodeErasure(word Bits, erasedBlocks []int) (Bits, error) {
	return c.decode(word, erasedBlocks)
}

func (c *FountainCoder) decode(word Bits, erasedBlocks []int) (Bits, error) {
	if len(word) != c.N() {
		return nil, errors.Errorf("fec: fountain decode expects %d bits, got %d", c.N(), len(word))
	}

	erased := make(map[int]bool, len(erasedBlocks))
	for _, j := range erasedBlocks {
		erased[j] = true
	}

	m := newLTMatrix(c.sourceBlocks)
	for j, mask := range c.masks {
		if erased[j] {
			continue
		}
		indices := maskIndices(mask)
		value := word[j*c.blockSize : (j+1)*c.blockSize].Clone()
		m.addEquation(indices, value)
	}

	if !m.determined() {
		return nil, Uncorrectable("fountain: mask matrix has rank < %d source blocks, decode underdetermined", c.sourceBlocks)
	}

	m.reduce()

	padded := m.reconstruct(c.blockSize)
	return padded[:c.k], nil
}

func maskIndices(mask Bits) []int {
	var out []int
	for i, bit := range mask {
		if bit != 0 {
			out = append(out, i)
		}
	}
	return out
}

func (c *FountainCoder) Describe() Description {
	return Description{
		Name:              "Fountain",
		LengthInformation: c.k,
		LengthAdditional:  c.r,
		LengthTotal:       c.N(),
		Speed:             c.Speed(),
	}
}

// ltMatrix is the bit-level analogue of the classic LT sparse decode
// matrix (adapted from the byte-block sparse matrix of a degree-sampled
// LT codec): a sparse system of GF(2) XOR equations over b unknown
// s-bit source blocks, kept triangular as equations are added so that
// row i's leading coefficient is always i itself once that row is filled.
type ltMatrix struct {
	coeff [][]int
	v     []Bits
	s     int
}

func newLTMatrix(b int) *ltMatrix {
	return &ltMatrix{
		coeff: make([][]int, b),
		v:     make([]Bits, b),
	}
}

// xorRow reduces the candidate equation (indices, value) against matrix
// row `row` by XORing the values and taking the symmetric difference ("set
// XOR") of the two coefficient index lists. Both index lists must be
// sorted ascending.
func (m *ltMatrix) xorRow(row int, indices []int, value Bits) ([]int, Bits) {
	value = XOR(value, m.v[row])

	var merged []int
	coeffs := m.coeff[row]
	var i, j int
	for i < len(coeffs) && j < len(indices) {
		switch {
		case coeffs[i] == indices[j]:
			i++
			j++
		case coeffs[i] < indices[j]:
			merged = append(merged, coeffs[i])
			i++
		default:
			merged = append(merged, indices[j])
			j++
		}
	}
	merged = append(merged, coeffs[i:]...)
	merged = append(merged, indices[j:]...)
	return merged, value
}

// addEquation folds a new XOR equation into the matrix, reducing it
// against any already-occupied row it touches until it either settles
// into an empty row or is discarded as linearly dependent on rows already
// present.
func (m *ltMatrix) addEquation(indices []int, value Bits) {
	for len(indices) > 0 && len(m.coeff[indices[0]]) > 0 {
		row := indices[0]
		if len(indices) >= len(m.coeff[row]) {
			indices, value = m.xorRow(row, indices, value)
		} else {
			indices, m.coeff[row] = m.coeff[row], indices
			value, m.v[row] = m.v[row], value
		}
	}
	if len(indices) > 0 {
		row := indices[0]
		m.coeff[row] = indices
		m.v[row] = value
	}
}

// determined reports whether every source block has a settled equation.
func (m *ltMatrix) determined() bool {
	for _, row := range m.coeff {
		if len(row) == 0 {
			return false
		}
	}
	return true
}

// reduce performs back-substitution over the triangular matrix so that
// every row's value equals its source block's solved value directly.
func (m *ltMatrix) reduce() {
	for i := len(m.coeff) - 1; i >= 0; i-- {
		for j := 0; j < i; j++ {
			ci, cj := m.coeff[i], m.coeff[j]
			for k := 1; k < len(cj); k++ {
				if cj[k] == ci[0] {
					m.v[j] = XOR(m.v[j], m.v[i])
					break
				}
			}
		}
		m.coeff[i] = m.coeff[i][0:1]
	}
}

// reconstruct concatenates the solved source block values, each of width
// blockSize, in original block order.
func (m *ltMatrix) reconstruct(blockSize int) Bits {
	out := make(Bits, 0, len(m.v)*blockSize)
	for _, v := range m.v {
		out = append(out, v...)
	}
	return out
}
