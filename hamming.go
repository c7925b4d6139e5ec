package fec

import "github.com/pkg/errors"

// HammingCoder implements a single-error-correcting Hamming code. The
// parity-check matrix H has shape n x r; row i (0-indexed, i.e. 1-based
// position i+1) is the binary representation of (i+1), least-significant
// bit first across the r columns. Parity bits live at the 1-based positions
// that are powers of two; all other positions carry payload bits.
type HammingCoder struct {
	baseRates
	h               [][]byte // n x r, h[pos][col] = bit `col` of (pos+1)
	dataPositions   []int    // 0-based codeword indices carrying payload bits, ascending
	parityColOf2ToJ []int    // 0-based codeword index of the parity bit for column j (== 2^j - 1)
}

// NewHammingCoder constructs a Hamming coder for k information bits,
// choosing the minimal redundancy r such that 2^r - r - 1 >= k.
func NewHammingCoder(k int) (*HammingCoder, error) {
	if k < 1 {
		return nil, errors.Errorf("fec: hamming coder requires k >= 1, got %d", k)
	}

	r := 1
	for (1<<uint(r))-r-1 < k {
		r++
	}
	n := k + r

	h := make([][]byte, n)
	for i := 0; i < n; i++ {
		pos := i + 1
		row := make([]byte, r)
		for j := 0; j < r; j++ {
			row[j] = byte((pos >> uint(j)) & 1)
		}
		h[i] = row
	}

	isPowerOfTwo := func(pos int) bool {
		return pos&(pos-1) == 0
	}

	var dataPositions []int
	parityColOf2ToJ := make([]int, r)
	for j := 0; j < r; j++ {
		parityColOf2ToJ[j] = (1 << uint(j)) - 1
	}
	for i := 0; i < n; i++ {
		if !isPowerOfTwo(i + 1) {
			dataPositions = append(dataPositions, i)
		}
	}

	return &HammingCoder{
		baseRates:       baseRates{k: k, r: r},
		h:               h,
		dataPositions:   dataPositions,
		parityColOf2ToJ: parityColOf2ToJ,
	}, nil
}

// TryNormalize left-pads bits to length K.
func (c *HammingCoder) TryNormalize(b Bits) Bits {
	return LeftPad(b, c.k)
}

// columnParity computes (codeword . H)[j], the GF(2) inner product of the
// codeword with column j of H.
func (c *HammingCoder) columnParity(codeword Bits, j int) byte {
	var acc byte
	for i, bit := range codeword {
		acc ^= bit & c.h[i][j]
	}
	return acc
}

// Encode places info into the non-power-of-two positions of the codeword,
// then computes and writes the parity bits so that codeword . H == 0.
func (c *HammingCoder) Encode(info Bits) (Bits, error) {
	info = c.TryNormalize(info)
	if len(info) != c.k {
		return nil, errors.Errorf("fec: hamming encode expects <= %d info bits, got %d", c.k, len(info))
	}

	codeword := make(Bits, c.N())
	for idx, pos := range c.dataPositions {
		codeword[pos] = info[idx]
	}

	for j := 0; j < c.r; j++ {
		codeword[c.parityColOf2ToJ[j]] = c.columnParity(codeword, j)
	}

	return codeword, nil
}

// Decode computes the syndrome of word under H, interprets it
// least-significant-bit first as an error position, and repairs a single
// bit error. A syndrome that remains non-zero after the repair attempt
// indicates a detected but uncorrectable multi-bit error.
func (c *HammingCoder) Decode(word Bits) (Bits, error) {
	if len(word) != c.N() {
		return nil, errors.Errorf("fec: hamming decode expects %d bits, got %d", c.N(), len(word))
	}

	syndrome := func(buf Bits) int {
		e := 0
		for j := 0; j < c.r; j++ {
			if c.columnParity(buf, j) != 0 {
				e |= 1 << uint(j)
			}
		}
		return e
	}

	work := word.Clone()
	e := syndrome(work)
	if e != 0 {
		if e-1 >= len(work) {
			return nil, Uncorrectable("hamming: detected uncorrectable multi-bit error")
		}
		work[e-1] ^= 1
		if syndrome(work) != 0 {
			return nil, Uncorrectable("hamming: detected uncorrectable multi-bit error")
		}
	}

	return c.extractData(work), nil
}

func (c *HammingCoder) extractData(codeword Bits) Bits {
	out := make(Bits, c.k)
	for idx, pos := range c.dataPositions {
		out[idx] = codeword[pos]
	}
	return out
}

func (c *HammingCoder) Describe() Description {
	matrix := make([][]int, len(c.h))
	for i, row := range c.h {
		r := make([]int, len(row))
		for j, bit := range row {
			r[j] = int(bit)
		}
		matrix[i] = r
	}
	return Description{
		Name:               "Hamming",
		LengthInformation:  c.k,
		LengthAdditional:   c.r,
		LengthTotal:        c.N(),
		Speed:              c.Speed(),
		MatrixOfGenerating: matrix,
	}
}
