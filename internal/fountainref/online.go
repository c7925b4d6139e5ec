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
	"math"
	"math/rand"

	"github.com/banifest/fec"
)

// Implementation of Online Codes. See
// http://cs.nyu.edu/web/Research/TechReports/TR2002-833/TR2002-833.pdf
// after Maymounkov and Mazieres.
//
// Unlike the public bit-level fountain coder, which fixes its whole
// generation set of masks once at construction, an online code draws a
// fresh degree and composition for every requested coding block from a
// soliton-like distribution, and first transforms the source blocks into a
// larger auxiliary set before doing so. It is kept here as a second,
// independently-implemented fountain code to cross-check decode behavior
// against.

// onlineCodec holds the parameters for one online-code message.
type onlineCodec struct {
	epsilon         float64
	quality         int
	numSourceBlocks int
	randomSeed      int64
	cdf             []float64
}

// NewOnlineCodec creates an Online Codes codec. epsilon is the suboptimality
// parameter; quality bounds the decoder failure probability at
// (epsilon/2)^(quality+1) given (1+3*epsilon)*sourceBlocks received blocks.
// seed drives the auxiliary block composition and must match between
// encoder and decoder.
func NewOnlineCodec(sourceBlocks int, epsilon float64, quality int, seed int64) Codec {
	return &onlineCodec{
		epsilon:         epsilon,
		quality:         quality,
		numSourceBlocks: sourceBlocks,
		randomSeed:      seed,
		cdf:             onlineSolitonDistribution(epsilon),
	}
}

func (c *onlineCodec) SourceBlocks() int {
	return c.numSourceBlocks
}

func (c onlineCodec) numAuxBlocks() int {
	return int(math.Ceil(0.55 * float64(c.quality) * c.epsilon * float64(c.numSourceBlocks)))
}

// GenerateIntermediateBlocks finds a set of auxiliary blocks via an LT
// process and appends them to the source blocks.
func (c *onlineCodec) GenerateIntermediateBlocks(message []byte, numBlocks int) []block {
	src, aux := generateOuterEncoding(message, *c)
	intermediate := make([]block, len(src), len(src)+len(aux))
	copy(intermediate, src)
	intermediate = append(intermediate, aux...)
	return intermediate
}

// generateOuterEncoding builds the source and auxiliary blocks per section
// 3.1 of the online codes paper: auxiliary blocks are randomly composed of
// the source blocks, making recovery more robust.
func generateOuterEncoding(message []byte, codec onlineCodec) ([]block, []block) {
	numAuxBlocks := codec.numAuxBlocks()
	long, short := partitionBytes(message, codec.numSourceBlocks)
	source := equalizeBlockLengths(long, short)

	aux := make([]block, numAuxBlocks)
	for i := range aux {
		aux[i].padding = source[0].length()
	}

	random := rand.New(fec.NewMersenneTwister(codec.randomSeed))
	for i := 0; i < codec.numSourceBlocks; i++ {
		touchAuxBlocks := sampleUniform(random, codec.quality, numAuxBlocks)
		for _, j := range touchAuxBlocks {
			aux[j].xor(source[i])
		}
	}

	return source, aux
}

// PickIndices selects the source/auxiliary indices composing the coding
// block identified by codeBlockIndex, drawing the degree from the codec's
// soliton-like CDF.
func (c *onlineCodec) PickIndices(codeBlockIndex int64) []int {
	random := rand.New(fec.NewMersenneTwister(codeBlockIndex))
	degree := pickDegree(random, c.cdf)
	return sampleUniform(random, degree, c.SourceBlocks()+c.numAuxBlocks())
}

// onlineDecoder is the decode state for one online-code message. It must be
// constructed with the same parameters used for encoding.
type onlineDecoder struct {
	codec         *onlineCodec
	messageLength int
	matrix        sparseMatrix
}

func (c *onlineCodec) NewDecoder(messageLength int) Decoder {
	return newOnlineDecoder(c, messageLength)
}

// newOnlineDecoder seeds the decode matrix with the auxiliary-block
// composition equations before any coding blocks are added, since those
// equations are implied by the codec parameters rather than received.
func newOnlineDecoder(c *onlineCodec, length int) *onlineDecoder {
	d := &onlineDecoder{codec: c, messageLength: length}

	numAuxBlocks := c.numAuxBlocks()
	d.matrix.coeff = make([][]int, c.numSourceBlocks+numAuxBlocks)
	d.matrix.v = make([]block, c.numSourceBlocks+numAuxBlocks)

	auxBlockComposition := make([][]int, numAuxBlocks)
	random := rand.New(fec.NewMersenneTwister(c.randomSeed))
	for i := 0; i < c.numSourceBlocks; i++ {
		touchAuxBlocks := sampleUniform(random, c.quality, numAuxBlocks)
		for _, j := range touchAuxBlocks {
			auxBlockComposition[j] = append(auxBlockComposition[j], i)
		}
	}
	for i := range auxBlockComposition {
		auxBlockComposition[i] = append(auxBlockComposition[i], i+c.numSourceBlocks)
	}

	for i := range auxBlockComposition {
		d.matrix.addEquation(auxBlockComposition[i], block{})
	}

	return d
}

func (d *onlineDecoder) AddBlocks(blocks []LTBlock) bool {
	for i := range blocks {
		indices := d.codec.PickIndices(blocks[i].BlockCode)
		d.matrix.addEquation(indices, block{data: blocks[i].Data})
	}
	return d.matrix.determined()
}

func (d *onlineDecoder) Decode() []byte {
	if !d.matrix.determined() {
		return nil
	}
	d.matrix.reduce()

	lenLong, lenShort, numLong, numShort := partition(d.messageLength, d.codec.numSourceBlocks)
	return d.matrix.reconstruct(d.messageLength, lenLong, lenShort, numLong, numShort)
}
