package zopfli

import (
	"bytes"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/woneob/zopfli/deflate"
)

// A Compressor compresses an entire stream in one shot. Compress calls
// only accumulate input; the work happens in Flush, which is where the
// caller will observe the latency.
//
// A Compressor is safe for concurrent use; calls on the same instance are
// serialized.
type Compressor struct {
	mu      sync.Mutex
	format  Format
	opts    Options
	log     *zap.Logger
	data    bytes.Buffer
	flushed bool
}

// NewCompressor returns a Compressor producing output in the given
// container format. Out-of-range option values are normalized, but an
// unknown format is an error.
func NewCompressor(format Format, opts Options) (*Compressor, error) {
	switch format {
	case FormatGzip, FormatZlib, FormatDeflate:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(format))
	}
	return &Compressor{
		format: format,
		opts:   opts.normalized(),
		log:    opts.logger(),
	}, nil
}

// Compress buffers p for later compression and returns an empty slice.
// All output is produced by Flush.
func (c *Compressor) Compress(p []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.flushed {
		return nil, ErrFlushed
	}
	c.data.Write(p)
	return []byte{}, nil
}

// Flush compresses everything passed to Compress and returns the
// complete output. The session cannot be used afterwards.
func (c *Compressor) Flush() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.flushed {
		return nil, ErrRepeatedFlush
	}
	c.flushed = true

	data := c.data.Bytes()
	var out []byte
	if c.opts.BlockSplitting == BlockSplitTryBoth {
		// Try both boundary choices and keep the smaller result. Ties
		// keep the first.
		first := c.encode(data, true, false)
		last := c.encode(data, true, true)
		c.log.Info("block splitting trial",
			zap.Int("first", len(first)),
			zap.Int("last", len(last)))
		if len(first) <= len(last) {
			out = first
		} else {
			out = last
		}
	} else {
		split := c.opts.BlockSplitting != BlockSplitNone
		out = c.encode(data, split, c.opts.BlockSplitting == BlockSplitLast)
	}
	c.data = bytes.Buffer{}
	return out, nil
}

func (c *Compressor) encode(data []byte, split, splitLast bool) []byte {
	opts := c.opts.deflateOptions(split, splitLast, c.log)
	switch c.format {
	case FormatGzip:
		return deflate.Gzip(opts, data)
	case FormatZlib:
		return deflate.Zlib(opts, data)
	default:
		return deflate.Compress(opts, data)
	}
}
