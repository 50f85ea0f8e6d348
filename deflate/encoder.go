// Package deflate implements a DEFLATE encoder that can append
// dynamic-Huffman blocks to an existing bitstream at an arbitrary bit
// position, so that data compressed across several calls still forms one
// valid stream.
package deflate

import (
	"go.uber.org/zap"
)

// Options control how much work the encoder puts into a stream and how it
// is divided into blocks.
type Options struct {
	// Iterations scales the effort spent searching for matches.
	// More iterations give denser output at more CPU cost. The default
	// is 15.
	Iterations int

	// BlockSplitting divides the input into several deflate blocks, each
	// with its own Huffman trees.
	BlockSplitting bool

	// BlockSplittingLast chooses the split points after LZ77 processing
	// instead of before.
	BlockSplittingLast bool

	// BlockSplittingMax caps the number of blocks per call. 0 means no
	// limit.
	BlockSplittingMax int

	// Logger, if set, receives per-call encoding statistics.
	Logger *zap.Logger
}

// targetBlockSize is how much input a block aims to cover when splitting
// is enabled.
const targetBlockSize = 1 << 16

// An Encoder writes deflate blocks into a growing byte buffer. Bit
// position persists between calls to EncodePart, so successive calls
// extend a single bitstream.
type Encoder struct {
	opts    Options
	bw      bitWriter
	mf      *matchFinder
	matches []Match
	log     *zap.Logger
}

func NewEncoder(opts *Options) *Encoder {
	o := *opts
	if o.Iterations <= 0 {
		o.Iterations = 15
	}
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Encoder{
		opts: o,
		mf:   newMatchFinder(o.Iterations),
		log:  log,
	}
}

// Compress encodes data as a complete raw deflate stream.
func Compress(opts *Options, data []byte) []byte {
	return NewEncoder(opts).EncodePart(nil, data, true)
}

// EncodePart appends one or more deflate blocks containing src to dst and
// returns the extended buffer. The blocks start at the bit position left
// by the previous call, sharing its final byte, so dst must be the buffer
// returned by that call. If final is true the last block carries the
// BFINAL flag, closing the stream.
//
// Matches never reach back past the start of src; each part is compressed
// independently.
func (e *Encoder) EncodePart(dst []byte, src []byte, final bool) []byte {
	e.bw.dst = dst
	e.matches = e.mf.findMatches(e.matches[:0], src)
	blocks := e.splitBlocks(src, e.matches)
	for i, b := range blocks {
		e.writeBlock(b, final && i == len(blocks)-1)
	}
	e.log.Info("deflate part",
		zap.Int("insize", len(src)),
		zap.Int("outsize", len(e.bw.dst)),
		zap.Int("blocks", len(blocks)),
		zap.Bool("final", final))
	return e.bw.dst
}

type blockSpan struct {
	src     []byte // the bytes the block covers
	matches []Match
}

func (e *Encoder) splitBlocks(src []byte, matches []Match) []blockSpan {
	n := 1
	if e.opts.BlockSplitting && len(src) > 0 {
		n = (len(src) + targetBlockSize - 1) / targetBlockSize
		if max := e.opts.BlockSplittingMax; max > 0 && n > max {
			n = max
		}
		if n > len(matches) {
			n = len(matches)
		}
		if n < 1 {
			n = 1
		}
	}
	if n == 1 {
		return []blockSpan{{src: src, matches: matches}}
	}
	if e.opts.BlockSplittingLast {
		return splitByTokens(src, matches, n)
	}
	return splitByBytes(src, matches, n)
}

// splitByBytes cuts the match stream into at most n spans of roughly
// equal input size. Cuts land on match boundaries.
func splitByBytes(src []byte, matches []Match, n int) []blockSpan {
	target := (len(src) + n - 1) / n
	var spans []blockSpan
	start, first, pos := 0, 0, 0
	for i, m := range matches {
		pos += m.Unmatched + m.Length
		if pos-start >= target && i+1 < len(matches) && len(spans)+1 < n {
			spans = append(spans, blockSpan{src[start:pos], matches[first : i+1]})
			start, first = pos, i+1
		}
	}
	return append(spans, blockSpan{src[start:], matches[first:]})
}

// splitByTokens cuts the match stream into at most n spans of roughly
// equal match counts, dividing the LZ77 output rather than the input.
func splitByTokens(src []byte, matches []Match, n int) []blockSpan {
	target := (len(matches) + n - 1) / n
	var spans []blockSpan
	start, first, pos := 0, 0, 0
	for i, m := range matches {
		pos += m.Unmatched + m.Length
		if i+1-first >= target && i+1 < len(matches) && len(spans)+1 < n {
			spans = append(spans, blockSpan{src[start:pos], matches[first : i+1]})
			start, first = pos, i+1
		}
	}
	return append(spans, blockSpan{src[start:], matches[first:]})
}

// tokens calls lit for each literal byte and match for each
// length/distance pair in the block, in stream order. Matches longer than
// maxMatchLength are split into several pairs with the same distance.
func (b *blockSpan) tokens(lit func(byte), match func(length, dist int)) {
	pos := 0
	for _, m := range b.matches {
		for _, c := range b.src[pos : pos+m.Unmatched] {
			lit(c)
		}
		pos += m.Unmatched
		for length := m.Length; length > 0; {
			n := length
			if n > maxMatchLength {
				n = maxMatchLength
				// Keep the remainder at least minMatchLength long.
				if length-n > 0 && length-n < minMatchLength {
					n = length - minMatchLength
				}
			}
			match(n, m.Distance)
			length -= n
		}
		pos += m.Length
	}
}

// writeBlock encodes one dynamic-Huffman block (RFC 1951 section 3.2.7).
func (e *Encoder) writeBlock(b blockSpan, final bool) {
	var litFreq [maxLitLenCodes]int32
	var distFreq [maxDistanceCodes]int32

	b.tokens(func(c byte) {
		litFreq[c]++
	}, func(length, dist int) {
		litFreq[lengthCodesStart+int(lengthCode[length-3])]++
		distFreq[distanceCode(dist)]++
	})
	litFreq[endBlockMarker]++

	// The literal/length code must describe a complete tree, which takes
	// at least two symbols. The distance code may stay empty or hold a
	// single one-bit code; decoders accept both.
	padFrequencies(litFreq[:])

	litCodes := buildCodes(litFreq[:], 15)
	distCodes := buildCodes(distFreq[:], 15)

	numLit := lengthCodesStart
	for i := maxLitLenCodes - 1; i >= lengthCodesStart; i-- {
		if litCodes[i].len != 0 {
			numLit = i + 1
			break
		}
	}
	numDist := 1
	for i := maxDistanceCodes - 1; i >= 1; i-- {
		if distCodes[i].len != 0 {
			numDist = i + 1
			break
		}
	}

	codegen, cgFreq := generateCodegen(litCodes[:numLit], distCodes[:numDist])
	padFrequencies(cgFreq[:])
	cgCodes := buildCodes(cgFreq[:], 7)
	numCodegens := codegenCodeCount
	for numCodegens > 4 && cgCodes[codegenOrder[numCodegens-1]].len == 0 {
		numCodegens--
	}

	if final {
		e.bw.writeBits(1, 1)
	} else {
		e.bw.writeBits(0, 1)
	}
	e.bw.writeBits(2, 2) // dynamic Huffman block
	e.bw.writeBits(uint64(numLit-257), 5)
	e.bw.writeBits(uint64(numDist-1), 5)
	e.bw.writeBits(uint64(numCodegens-4), 4)
	for i := 0; i < numCodegens; i++ {
		e.bw.writeBits(uint64(cgCodes[codegenOrder[i]].len), 3)
	}
	for i := 0; i < len(codegen); i++ {
		sym := codegen[i]
		e.bw.writeCode(cgCodes[sym])
		switch sym {
		case 16:
			i++
			e.bw.writeBits(uint64(codegen[i]), 2)
		case 17:
			i++
			e.bw.writeBits(uint64(codegen[i]), 3)
		case 18:
			i++
			e.bw.writeBits(uint64(codegen[i]), 7)
		}
	}

	b.tokens(func(c byte) {
		e.bw.writeCode(litCodes[c])
	}, func(length, dist int) {
		lc := lengthCode[length-3]
		e.bw.writeCode(litCodes[lengthCodesStart+int(lc)])
		if eb := lengthExtraBits[lc]; eb > 0 {
			e.bw.writeBits(uint64(length-int(lengthBase[lc])), uint(eb))
		}
		dc := distanceCode(dist)
		e.bw.writeCode(distCodes[dc])
		if eb := distanceExtraBits[dc]; eb > 0 {
			e.bw.writeBits(uint64(dist-int(distanceBase[dc])), uint(eb))
		}
	})
	e.bw.writeCode(litCodes[endBlockMarker])
}

// padFrequencies bumps zero counts until at least two symbols are in use,
// so that the resulting Huffman tree is complete.
func padFrequencies(freq []int32) {
	nonzero := 0
	for _, f := range freq {
		if f != 0 {
			nonzero++
		}
	}
	for i := 0; nonzero < 2; i++ {
		if freq[i] == 0 {
			freq[i] = 1
			nonzero++
		}
	}
}

// generateCodegen produces the run-length encoded form of the
// concatenated literal/length and distance code lengths. In the returned
// slice, symbols 16-18 are followed by their repeat argument.
func generateCodegen(litCodes, distCodes []hcode) (codegen []uint8, freq [codegenCodeCount]int32) {
	all := make([]uint8, 0, len(litCodes)+len(distCodes))
	for _, c := range litCodes {
		all = append(all, c.len)
	}
	for _, c := range distCodes {
		all = append(all, c.len)
	}

	for i := 0; i < len(all); {
		v := all[i]
		j := i + 1
		for j < len(all) && all[j] == v {
			j++
		}
		run := j - i
		i = j
		if v == 0 {
			for run >= 11 {
				n := run
				if n > 138 {
					n = 138
				}
				codegen = append(codegen, 18, uint8(n-11))
				freq[18]++
				run -= n
			}
			if run >= 3 {
				codegen = append(codegen, 17, uint8(run-3))
				freq[17]++
				run = 0
			}
			for ; run > 0; run-- {
				codegen = append(codegen, 0)
				freq[0]++
			}
		} else {
			codegen = append(codegen, v)
			freq[v]++
			run--
			for run >= 3 {
				n := run
				if n > 6 {
					n = 6
				}
				codegen = append(codegen, 16, uint8(n-3))
				freq[16]++
				run -= n
			}
			for ; run > 0; run-- {
				codegen = append(codegen, v)
				freq[v]++
			}
		}
	}
	return codegen, freq
}
