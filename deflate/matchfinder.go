package deflate

import (
	"encoding/binary"
	"math/bits"
)

const (
	maxTableSize = 1 << 14
	shift        = 32 - 14
	// tableMask is redundant, but helps the compiler eliminate bounds
	// checks.
	tableMask = maxTableSize - 1

	hashMul32 = 0x1e35a7bd
)

func hash4(u uint32) uint32 {
	return (u * hashMul32) >> shift
}

type absoluteMatch struct {
	// Start is the index of the first byte.
	Start int

	// End is the index of the byte after the last byte
	// (so that End - Start = Length).
	End int

	// Match is the index of the previous data that matches
	// (Start - Match = Distance).
	Match int
}

// A matchFinder finds LZ77 matches using hash chaining. Each call to
// findMatches covers one independent buffer; no history is carried from
// one buffer to the next.
type matchFinder struct {
	// searchLen is how many entries to examine on the hash chain.
	searchLen int

	table   [maxTableSize]uint32
	chain   []uint16
	src     []byte
	matches []absoluteMatch
}

// newMatchFinder returns a matchFinder whose search effort scales with
// iterations, the way the encoder's effort knob is meant to work: more
// iterations, longer chain walks, denser output.
func newMatchFinder(iterations int) *matchFinder {
	n := iterations * 8
	if n < 8 {
		n = 8
	}
	if n > 1024 {
		n = 1024
	}
	return &matchFinder{searchLen: n}
}

func (q *matchFinder) reset() {
	q.table = [maxTableSize]uint32{}
	q.chain = q.chain[:0]
	q.src = nil
}

// findMatches looks for matches in src, appends them to dst, and returns
// dst. The returned matches cover all of src: the sum of Unmatched and
// Length over them equals len(src).
func (q *matchFinder) findMatches(dst []Match, src []byte) []Match {
	q.reset()
	q.src = src

	// Pre-calculate hashes and chains.
	chain := q.chain
	for i := 0; i+3 < len(src); i++ {
		h := hash4(binary.LittleEndian.Uint32(src[i:]))
		candidate := int(q.table[h&tableMask])
		q.table[h&tableMask] = uint32(i)
		if candidate == 0 || i-candidate > 65535 {
			chain = append(chain, 0)
		} else {
			chain = append(chain, uint16(i-candidate))
		}
	}
	q.chain = chain

	// Greedy parsing: at each position take the longest match the chain
	// offers, or move on one byte.
	matches := q.matches[:0]
	end := len(src)
	s := 0
	nextEmit := 0
	var m absoluteMatch

mainLoop:
	for {
		nextS := s
		for {
			s = nextS
			nextS = s + 1
			if nextS >= end {
				break mainLoop
			}

			matches = q.search(matches[:0], s, nextEmit, end)
			m = longestMatch(matches)
			if m.End >= m.Start+minMatchLength {
				break
			}
		}

		dst = append(dst, Match{
			Unmatched: m.Start - nextEmit,
			Length:    m.End - m.Start,
			Distance:  m.Start - m.Match,
		})
		s = m.End
		nextEmit = s
	}

	if nextEmit < end {
		dst = append(dst, Match{
			Unmatched: end - nextEmit,
		})
	}
	q.matches = matches[:0]
	return dst
}

// search walks the hash chain at pos and appends any usable matches to
// dst. In each match, Start and End fall within [min, max), and
// Match < Start < End.
func (q *matchFinder) search(dst []absoluteMatch, pos, min, max int) []absoluteMatch {
	if pos >= len(q.chain) || pos+minMatchLength > len(q.src) {
		return dst
	}
	src := q.src
	searchSeq := binary.LittleEndian.Uint32(src[pos:])

	var length int

	candidate := pos
	for i := 0; i < q.searchLen; i++ {
		d := q.chain[candidate]
		if d == 0 {
			break
		}
		candidate -= int(d)
		if candidate < 0 || pos-candidate > maxDistance {
			break
		}
		if binary.LittleEndian.Uint32(src[candidate:]) != searchSeq {
			continue
		}

		newEnd := extendMatch(src[:max], candidate+4, pos+4)

		// Extend the match backward as far as possible.
		newStart := pos
		newMatch := candidate
		for newStart > min && newMatch > 0 && src[newStart-1] == src[newMatch-1] {
			newStart--
			newMatch--
		}

		if newEnd-newStart > length {
			dst = append(dst, absoluteMatch{
				Start: newStart,
				End:   newEnd,
				Match: newMatch,
			})
			length = newEnd - newStart
		}
	}

	return dst
}

func longestMatch(matches []absoluteMatch) absoluteMatch {
	var longest absoluteMatch
	for _, m := range matches {
		if m.End-m.Start > longest.End-longest.Start {
			longest = m
		}
	}
	return longest
}

// extendMatch returns the largest k such that k <= len(src) and that
// src[i:i+k-j] and src[j:k] have the same contents.
//
// It assumes that:
//
//	0 <= i && i < j && j <= len(src)
func extendMatch(src []byte, i, j int) int {
	// As long as we are 8 or more bytes before the end of src, we can
	// load and compare 8 bytes at a time. If those 8 bytes are equal,
	// repeat.
	for j+8 < len(src) {
		iBytes := binary.LittleEndian.Uint64(src[i:])
		jBytes := binary.LittleEndian.Uint64(src[j:])
		if iBytes != jBytes {
			// If those 8 bytes were not equal, XOR the two 8 byte
			// values, and return the index of the first byte that
			// differs.
			return j + bits.TrailingZeros64(iBytes^jBytes)>>3
		}
		i, j = i+8, j+8
	}
	for ; j < len(src) && src[i] == src[j]; i, j = i+1, j+1 {
	}
	return j
}
