package zopfli

import (
	"sync"

	"github.com/woneob/zopfli/deflate"
)

// A Deflater compresses data incrementally into a single raw deflate
// bitstream. Each Compress call encodes the chunk passed to the previous
// call as non-final blocks and holds on to the new chunk, so the visible
// output lags one chunk behind; Flush encodes whatever is still pending
// as the final block and closes the stream.
//
// Concatenating everything returned by Compress and Flush, in order,
// yields a stream that decompresses to the concatenated input.
//
// A Deflater is safe for concurrent use; calls on the same instance are
// serialized.
type Deflater struct {
	mu          sync.Mutex
	enc         *deflate.Encoder
	out         []byte
	pending     []byte
	havePending bool
	flushed     bool
}

// NewDeflater returns a Deflater. Out-of-range option values are
// normalized; the container format is always raw deflate, so there is
// nothing to validate.
func NewDeflater(opts Options) *Deflater {
	o := opts.normalized()
	split := o.BlockSplitting != BlockSplitNone
	splitLast := o.BlockSplitting == BlockSplitLast
	return &Deflater{
		enc: deflate.NewEncoder(o.deflateOptions(split, splitLast, o.logger())),
	}
}

// Compress encodes the previously supplied chunk, stores a copy of p as
// the new pending chunk, and returns the bytes of compressed output this
// call produced. The first call has nothing to encode yet and returns an
// empty slice.
func (d *Deflater) Compress(p []byte) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.flushed {
		return nil, ErrFlushed
	}
	out := d.deflatePart(false)
	d.pending = append(d.pending[:0], p...)
	d.havePending = true
	return out, nil
}

// Flush encodes any pending chunk as the final block and returns the
// remaining output. The session cannot be used afterwards. A Deflater
// flushed without any Compress calls returns an empty slice.
func (d *Deflater) Flush() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.flushed {
		return nil, ErrRepeatedFlush
	}
	d.flushed = true
	return d.deflatePart(true), nil
}

func (d *Deflater) deflatePart(final bool) []byte {
	if !d.havePending {
		return []byte{}
	}
	pos := len(d.out)
	d.out = d.enc.EncodePart(d.out, d.pending, final)
	d.havePending = false
	lo, hi := trim(pos, len(d.out), final)
	// Copy: the byte at the boundary is re-emitted, and possibly
	// rewritten, by the next call.
	return append([]byte(nil), d.out[lo:hi]...)
}

// trim reports which window of the output buffer a part encoding
// produced, given the buffer length before (pos) and after (outsize) the
// call.
//
// Deflate blocks are not byte-aligned, so the last byte of a non-final
// part may gain more bits from the next part. A non-final part therefore
// withholds its trailing byte, and every part that follows an earlier one
// re-emits the byte it shares with it. A final part has nothing after it
// and reports through the end.
func trim(pos, outsize int, final bool) (lo, hi int) {
	if pos > 0 {
		lo = pos - 1
	}
	hi = outsize
	if !final {
		hi = outsize - 1
	}
	return lo, hi
}
