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

import (
	"math/rand"

	"github.com/banifest/fec"
)

// Random binary fountain code: the constituent source blocks in a coding
// block are selected randomly and independently, rather than from a
// degree-biased distribution. Its simplicity makes it a useful worst-case
// comparison against both the online code and the public fixed-generation
// fountain coder.

type binaryCodec struct {
	numSourceBlocks int
}

// NewBinaryCodec returns a codec where each coding block independently
// includes each of the numSourceBlocks source blocks with probability 1/2.
func NewBinaryCodec(numSourceBlocks int) Codec {
	return &binaryCodec{numSourceBlocks: numSourceBlocks}
}

func (c *binaryCodec) SourceBlocks() int {
	return c.numSourceBlocks
}

func (c *binaryCodec) PickIndices(codeBlockIndex int64) []int {
	random := rand.New(fec.NewMersenneTwister(codeBlockIndex))

	var indices []int
	for b := 0; b < c.SourceBlocks(); b++ {
		if random.Intn(2) == 1 {
			indices = append(indices, b)
		}
	}
	return indices
}

// GenerateIntermediateBlocks returns the plain partition of message into
// source blocks; this codec applies no further precoding.
func (c *binaryCodec) GenerateIntermediateBlocks(message []byte, numBlocks int) []block {
	long, short := partitionBytes(message, c.numSourceBlocks)
	return equalizeBlockLengths(long, short)
}

func (c *binaryCodec) NewDecoder(messageLength int) Decoder {
	return newBinaryDecoder(c, messageLength)
}

type binaryDecoder struct {
	codec         binaryCodec
	messageLength int
	matrix        sparseMatrix
}

func newBinaryDecoder(c *binaryCodec, length int) *binaryDecoder {
	return &binaryDecoder{
		codec:         *c,
		messageLength: length,
		matrix: sparseMatrix{
			coeff: make([][]int, c.numSourceBlocks),
			v:     make([]block, c.numSourceBlocks),
		},
	}
}

func (d *binaryDecoder) AddBlocks(blocks []LTBlock) bool {
	for i := range blocks {
		d.matrix.addEquation(d.codec.PickIndices(blocks[i].BlockCode), block{data: blocks[i].Data})
	}
	return d.matrix.determined()
}

func (d *binaryDecoder) Decode() []byte {
	if !d.matrix.determined() {
		return nil
	}
	d.matrix.reduce()

	lenLong, lenShort, numLong, numShort := partition(d.messageLength, d.codec.numSourceBlocks)
	return d.matrix.reconstruct(d.messageLength, lenLong, lenShort, numLong, numShort)
}
