package deflate

import (
	"math/bits"
	"sort"
)

// An hcode is a Huffman code with its length in bits. The bit pattern is
// stored reversed, ready to be written least significant bit first.
type hcode struct {
	code uint16
	len  uint8
}

type huffmanNode struct {
	count       int32
	left, right int32 // node indexes; -1 for leaves
	symbol      int32
}

// buildCodes returns canonical Huffman codes for freq with no code longer
// than maxBits. Symbols with zero frequency get zero-length codes.
func buildCodes(freq []int32, maxBits int) []hcode {
	return assignCodes(buildLengths(freq, maxBits))
}

// buildLengths assigns Huffman code lengths for freq, none longer than
// maxBits. If the optimal tree is too deep, the smallest counts are
// inflated to a rising floor and the tree is rebuilt until it fits.
func buildLengths(freq []int32, maxBits int) []uint8 {
	lengths := make([]uint8, len(freq))

	type leaf struct {
		symbol int32
		count  int32
	}
	var leaves []leaf
	for i, f := range freq {
		if f > 0 {
			leaves = append(leaves, leaf{int32(i), f})
		}
	}
	switch len(leaves) {
	case 0:
		return lengths
	case 1:
		// A single symbol still needs one bit so that the code has a
		// nonzero length.
		lengths[leaves[0].symbol] = 1
		return lengths
	}
	sort.Slice(leaves, func(i, j int) bool {
		if leaves[i].count != leaves[j].count {
			return leaves[i].count < leaves[j].count
		}
		return leaves[i].symbol < leaves[j].symbol
	})

	n := len(leaves)
	nodes := make([]huffmanNode, 0, 2*n-1)
	for limit := int32(1); ; limit *= 2 {
		nodes = nodes[:0]
		for _, l := range leaves {
			c := l.count
			if c < limit {
				c = limit
			}
			nodes = append(nodes, huffmanNode{count: c, left: -1, right: -1, symbol: l.symbol})
		}

		// Merge the two cheapest nodes until a single root remains,
		// drawing from the sorted leaves and the queue of parents, which
		// is naturally in ascending order.
		i, j := 0, n
		take := func() int32 {
			if i < n && (j >= len(nodes) || nodes[i].count <= nodes[j].count) {
				i++
				return int32(i - 1)
			}
			j++
			return int32(j - 1)
		}
		for len(nodes) < 2*n-1 {
			left := take()
			right := take()
			nodes = append(nodes, huffmanNode{
				count: nodes[left].count + nodes[right].count,
				left:  left,
				right: right,
			})
		}

		if setLengths(nodes, lengths, maxBits) {
			return lengths
		}
	}
}

// setLengths walks the tree rooted at the last node and records each
// leaf's depth in lengths. It reports whether every leaf fits in maxBits.
func setLengths(nodes []huffmanNode, lengths []uint8, maxBits int) bool {
	type item struct {
		node  int32
		depth uint8
	}
	stack := make([]item, 1, 32)
	stack[0] = item{int32(len(nodes) - 1), 0}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nd := nodes[it.node]
		if nd.left < 0 {
			if int(it.depth) > maxBits {
				return false
			}
			lengths[nd.symbol] = it.depth
			continue
		}
		stack = append(stack, item{nd.left, it.depth + 1}, item{nd.right, it.depth + 1})
	}
	return true
}

// assignCodes converts code lengths into canonical codes (RFC 1951
// section 3.2.2), with the bit patterns reversed for LSB-first output.
func assignCodes(lengths []uint8) []hcode {
	codes := make([]hcode, len(lengths))
	var count [16]uint16
	for _, l := range lengths {
		count[l]++
	}
	count[0] = 0
	var next [16]uint16
	code := uint16(0)
	for b := 1; b < 16; b++ {
		code = (code + count[b-1]) << 1
		next[b] = code
	}
	for i, l := range lengths {
		if l == 0 {
			continue
		}
		codes[i] = hcode{code: bits.Reverse16(next[l]) >> (16 - l), len: l}
		next[l]++
	}
	return codes
}
