package deflate

// A bitWriter appends bits to a byte slice, least significant bit first.
// The slice always contains the partially filled final byte; bp is the
// number of bits used in that byte. A bp of 0 means the buffer ends on a
// byte boundary and the next bit will start a new byte.
//
// Because both dst and bp persist between calls, a caller can append
// further bits to a buffer produced earlier, which is what allows deflate
// blocks from separate calls to share a byte.
type bitWriter struct {
	dst []byte
	bp  uint8
}

func (w *bitWriter) writeBits(bits uint64, n uint) {
	for n > 0 {
		if w.bp == 0 {
			w.dst = append(w.dst, 0)
		}
		k := 8 - uint(w.bp)
		if k > n {
			k = n
		}
		w.dst[len(w.dst)-1] |= byte(bits&(1<<k-1)) << w.bp
		bits >>= k
		n -= k
		w.bp = (w.bp + uint8(k)) & 7
	}
}

// writeCode writes a Huffman code. The bit pattern in c is already
// reversed, so the code comes out most significant bit first as RFC 1951
// requires.
func (w *bitWriter) writeCode(c hcode) {
	w.writeBits(uint64(c.code), uint(c.len))
}
