package fec

import "github.com/pkg/errors"

// rmMonomial names a Boolean monomial by the (1-based, ascending) variable
// indices it multiplies together. An empty set denotes the constant-1
// monomial (the all-ones generator row).
type rmMonomial struct {
	vars []int
}

func (m rmMonomial) degree() int { return len(m.vars) }

// ReedMullerCoder implements RM(r, m): a linear code whose generator rows
// are the indicator vectors of every Boolean monomial of degree <= r over m
// variables, decoded by Reed's majority-logic procedure.
type ReedMullerCoder struct {
	baseRates
	m, order int
	n        int
	rows     []Bits      // generator rows, in construction (ascending-degree) order
	monos    []rmMonomial // parallel to rows
	coord    []Bits       // coord[t] (1-based, coord[0] unused) is the coordinate row for variable t
}

// NewReedMullerCoder constructs RM(order, m): N = 2^m, K = sum_{i=0..order} C(m,i).
func NewReedMullerCoder(order, m int) (*ReedMullerCoder, error) {
	if m < 1 {
		return nil, errors.Errorf("fec: reed-muller requires m >= 1, got %d", m)
	}
	if order < 0 || order > m {
		return nil, errors.Errorf("fec: reed-muller requires 0 <= order <= m, got order=%d m=%d", order, m)
	}

	n := 1 << uint(m)

	coord := make([]Bits, m+1)
	for t := 1; t <= m; t++ {
		row := make(Bits, n)
		for c := 0; c < n; c++ {
			row[c] = byte((c >> uint(m-t)) & 1)
		}
		coord[t] = row
	}

	monos := rmMonomialsUpTo(m, order)
	rows := make([]Bits, len(monos))
	for i, mono := range monos {
		rows[i] = rmRow(mono, coord, n)
	}

	k := len(monos)
	return &ReedMullerCoder{
		baseRates: baseRates{k: k, r: n - k},
		m:         m,
		order:     order,
		n:         n,
		rows:      rows,
		monos:     monos,
		coord:     coord,
	}, nil
}

// rmMonomialsUpTo enumerates every subset of {1..m} of size 0..maxSize, in
// lexicographic order of (size, combination) — empty set first, then all
// singletons in ascending order, then all pairs in ascending lexicographic
// order, and so on.
func rmMonomialsUpTo(m, maxSize int) []rmMonomial {
	var out []rmMonomial
	for size := 0; size <= maxSize; size++ {
		out = append(out, rmCombinations(m, size)...)
	}
	return out
}

func rmCombinations(m, size int) []rmMonomial {
	if size == 0 {
		return []rmMonomial{{vars: nil}}
	}
	var out []rmMonomial
	combo := make([]int, size)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == size {
			vars := make([]int, size)
			copy(vars, combo)
			out = append(out, rmMonomial{vars: vars})
			return
		}
		for v := start; v <= m; v++ {
			combo[depth] = v
			rec(v+1, depth+1)
		}
	}
	rec(1, 0)
	return out
}

// rmRow computes the indicator row for mono: the bitwise AND of the
// coordinate rows of its variables, or the all-ones row for the empty
// (constant) monomial.
func rmRow(mono rmMonomial, coord []Bits, n int) Bits {
	row := allOnes(n)
	for _, t := range mono.vars {
		row = AND(row, coord[t])
	}
	return row
}

func allOnes(n int) Bits {
	b := make(Bits, n)
	for i := range b {
		b[i] = 1
	}
	return b
}

func (c *ReedMullerCoder) TryNormalize(b Bits) Bits {
	return LeftPad(b, c.k)
}

// Encode computes codeword = info . G (mod 2): the XOR of every generator
// row whose corresponding info bit is 1.
func (c *ReedMullerCoder) Encode(info Bits) (Bits, error) {
	info = c.TryNormalize(info)
	if len(info) != c.k {
		return nil, errors.Errorf("fec: reed-muller encode expects <= %d info bits, got %d", c.k, len(info))
	}

	codeword := make(Bits, c.n)
	for i, bit := range info {
		if bit != 0 {
			codeword = XOR(codeword, c.rows[i])
		}
	}
	return codeword, nil
}

// Decode runs Reed's majority-logic procedure: process generator rows from
// highest-order monomial to lowest. For each row's monomial S, every
// assignment of the variables outside S defines a characteristic vector
// (the AND of the coordinate rows, or their complements, of those outside
// variables); the inner product of each characteristic vector with the
// current working word is an independent estimate of that row's
// coefficient, decided by majority vote (ties toward 0). The decided
// contribution is then XORed out of the working word before moving to the
// next (lower- or equal-order) row. Coefficients are assembled back into
// the original, ascending generator-row order to form the message.
func (c *ReedMullerCoder) Decode(word Bits) (Bits, error) {
	if len(word) != c.n {
		return nil, errors.Errorf("fec: reed-muller decode expects %d bits, got %d", c.n, len(word))
	}

	working := word.Clone()
	coeffs := make(Bits, len(c.monos))

	for i := len(c.monos) - 1; i >= 0; i-- {
		mono := c.monos[i]
		outside := rmComplement(mono.vars, c.m)

		total := 1 << uint(len(outside))
		ones := 0
		for mask := 0; mask < total; mask++ {
			charVec := allOnes(c.n)
			for j, t := range outside {
				if (mask>>uint(j))&1 == 1 {
					charVec = AND(charVec, c.coord[t])
				} else {
					charVec = AND(charVec, Not(c.coord[t]))
				}
			}
			if Inner(charVec, working) != 0 {
				ones++
			}
		}

		coeff := byte(0)
		if ones > total/2 {
			coeff = 1
		}
		coeffs[i] = coeff

		if coeff == 1 {
			working = XOR(working, c.rows[i])
		}
	}

	return coeffs, nil
}

// rmComplement returns, in ascending order, the variables in {1..m} not
// present in vars.
func rmComplement(vars []int, m int) []int {
	in := make(map[int]bool, len(vars))
	for _, v := range vars {
		in[v] = true
	}
	var out []int
	for t := 1; t <= m; t++ {
		if !in[t] {
			out = append(out, t)
		}
	}
	return out
}

func (c *ReedMullerCoder) Describe() Description {
	return Description{
		Name:              "ReedMuller",
		LengthInformation: c.k,
		LengthAdditional:  c.r,
		LengthTotal:       c.N(),
		Speed:             c.Speed(),
	}
}
