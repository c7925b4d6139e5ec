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

// Package fountainref holds byte-block fountain code variants kept alongside
// the bit-level fec.FountainCoder as a comparison surface: codes whose
// block composition is drawn afresh from each coding block's index, rather
// than fixed once at construction. They are not part of the public coder
// surface and are exercised only by this package's own tests.
package fountainref

// Codec is a fountain code that prepares intermediate (precode) blocks from
// a source message and picks, for any code block index, the subset of those
// precode blocks to XOR together to produce it.
type Codec interface {
	// SourceBlocks returns the number of source blocks the codec splits an
	// input message into.
	SourceBlocks() int

	// GenerateIntermediateBlocks prepares the precode blocks for message,
	// given that numBlocks code blocks are expected to be produced from them.
	GenerateIntermediateBlocks(message []byte, numBlocks int) []block

	// PickIndices selects the precode block indices composing the code
	// block identified by codeBlockIndex.
	PickIndices(codeBlockIndex int64) []int

	// NewDecoder creates a decoder for a message of the given byte length,
	// encoded with this codec.
	NewDecoder(messageLength int) Decoder
}

// LTBlock is a single coded block produced by an LT-style transform.
type LTBlock struct {
	// BlockCode identifies how this block's composition was chosen.
	BlockCode int64

	// Data is the XORed payload of this coded block.
	Data []byte
}

// Decoder accumulates coded blocks for one message and reconstructs it once
// enough independent equations have arrived.
type Decoder interface {
	// AddBlocks folds blocks into the decode matrix. Returns true once the
	// message is fully determined.
	AddBlocks(blocks []LTBlock) bool

	// Decode returns the reconstructed message, or nil if not yet determined.
	Decode() []byte
}

// generateTransformBlock XORs together the precode blocks named by indices.
func generateTransformBlock(source []block, indices []int) block {
	var symbol block
	for _, i := range indices {
		if i < len(source) {
			symbol.xor(source[i])
		}
	}
	return symbol
}

// EncodeLTBlocks produces one coded block per entry of encodedBlockIDs,
// using c to prepare the precode blocks and to choose each block's
// composition. Destructive to message.
func EncodeLTBlocks(message []byte, encodedBlockIDs []int64, c Codec) []LTBlock {
	source := c.GenerateIntermediateBlocks(message, c.SourceBlocks())

	blocks := make([]LTBlock, len(encodedBlockIDs))
	for i := range encodedBlockIDs {
		indices := c.PickIndices(encodedBlockIDs[i])
		blocks[i].BlockCode = encodedBlockIDs[i]
		b := generateTransformBlock(source, indices)
		blocks[i].Data = make([]byte, b.length())
		copy(blocks[i].Data, b.data)
	}
	return blocks
}
