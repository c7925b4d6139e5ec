// Copyright 2014 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fountainref

// block is a contiguous range of a message being encoded or decoded, or a
// coded block. How the source text is split into blocks is governed by the
// particular codec in use.
type block struct {
	data    []byte
	padding int
}

func (b *block) length() int {
	return len(b.data) + b.padding
}

// xor folds a into b. Padding bytes act as the XOR identity; b grows to
// cover any data bytes a has that b does not yet.
func (b *block) xor(a block) {
	if len(b.data) < len(a.data) {
		inc := len(a.data) - len(b.data)
		b.data = append(b.data, make([]byte, inc)...)
		if b.padding > inc {
			b.padding -= inc
		} else {
			b.padding = 0
		}
	}
	for i := 0; i < len(a.data); i++ {
		b.data[i] ^= a.data[i]
	}
}

// partitionBytes splits in into p blocks per partition, returning the
// longer blocks and shorter blocks as separate (uniformly sized) slices.
func partitionBytes(in []byte, p int) ([]block, []block) {
	sliceIntoBlocks := func(in []byte, num, length int) ([]block, []byte) {
		blocks := make([]block, num)
		for i := range blocks {
			if len(in) > length {
				blocks[i].data, in = in[:length], in[length:]
			} else {
				blocks[i].data, in = in, []byte{}
			}
			if len(blocks[i].data) < length {
				blocks[i].padding = length - len(blocks[i].data)
			}
		}
		return blocks, in
	}

	lenLong, lenShort, numLong, numShort := partition(len(in), p)
	long, in := sliceIntoBlocks(in, numLong, lenLong)
	short, _ := sliceIntoBlocks(in, numShort, lenShort)
	return long, short
}

// equalizeBlockLengths pads shortBlocks so every block, long or short, has
// the same length, then returns them concatenated.
func equalizeBlockLengths(longBlocks, shortBlocks []block) []block {
	if len(longBlocks) == 0 {
		return shortBlocks
	}
	if len(shortBlocks) == 0 {
		return longBlocks
	}

	for i := range shortBlocks {
		shortBlocks[i].padding += longBlocks[0].length() - shortBlocks[i].length()
	}

	blocks := make([]block, len(longBlocks)+len(shortBlocks))
	copy(blocks, longBlocks)
	copy(blocks[len(longBlocks):], shortBlocks)
	return blocks
}

// sparseMatrix is a sparse system of GF(2^8)-byte-block XOR equations,
// reduced so that row i's leading coefficient is always i itself once that
// row is occupied. coeff[i][0] == i or len(coeff[i]) == 0 is the invariant
// addEquation maintains.
type sparseMatrix struct {
	coeff [][]int
	v     []block
}

// xorRow reduces the candidate equation (indices, b) against row s,
// returning the resulting (indices, value) pair. Both index lists must be
// sorted ascending.
func (m *sparseMatrix) xorRow(s int, indices []int, b block) ([]int, block) {
	b.xor(m.v[s])

	var newIndices []int
	coeffs := m.coeff[s]
	var i, j int
	for i < len(coeffs) && j < len(indices) {
		index := indices[j]
		if coeffs[i] == index {
			i++
			j++
		} else if coeffs[i] < index {
			newIndices = append(newIndices, coeffs[i])
			i++
		} else {
			newIndices = append(newIndices, index)
			j++
		}
	}
	newIndices = append(newIndices, coeffs[i:]...)
	newIndices = append(newIndices, indices[j:]...)
	return newIndices, b
}

// addEquation folds a new XOR equation into the matrix, reducing it against
// any occupied row it touches until it settles into an empty row or is
// discarded as redundant.
func (m *sparseMatrix) addEquation(components []int, b block) {
	for len(components) > 0 && len(m.coeff[components[0]]) > 0 {
		s := components[0]
		if len(components) >= len(m.coeff[s]) {
			components, b = m.xorRow(s, components, b)
		} else {
			components, m.coeff[s] = m.coeff[s], components
			b, m.v[s] = m.v[s], b
		}
	}
	if len(components) > 0 {
		m.coeff[components[0]] = components
		m.v[components[0]] = b
	}
}

// determined reports whether every row of the matrix is occupied.
func (m *sparseMatrix) determined() bool {
	for _, r := range m.coeff {
		if len(r) == 0 {
			return false
		}
	}
	return true
}

// reduce runs back-substitution over the whole (triangular) matrix. Assumes
// determined() is true.
func (m *sparseMatrix) reduce() {
	for i := len(m.coeff) - 1; i >= 0; i-- {
		for j := 0; j < i; j++ {
			ci, cj := m.coeff[i], m.coeff[j]
			for k := 1; k < len(cj); k++ {
				if cj[k] == ci[0] {
					m.v[j].xor(m.v[i])
					break
				}
			}
		}
		m.coeff[i] = m.coeff[i][0:1]
	}
}

// reconstruct pastes the solved row values back into a byte slice of the
// original message length, using the long/short block geometry from
// partition().
func (m *sparseMatrix) reconstruct(totalLength, lenLong, lenShort, numLong, numShort int) []byte {
	out := make([]byte, 0, totalLength)
	for i := 0; i < numLong; i++ {
		out = append(out, m.v[i].data[0:lenLong]...)
	}
	for i := numLong; i < numLong+numShort; i++ {
		out = append(out, m.v[i].data[0:lenShort]...)
	}
	return out
}
