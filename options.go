package zopfli

import (
	"go.uber.org/zap"

	"github.com/woneob/zopfli/deflate"
)

// BlockSplitting selects how the input is divided into deflate blocks.
type BlockSplitting int

const (
	// BlockSplitNone encodes each buffer as a single block.
	BlockSplitNone BlockSplitting = iota

	// BlockSplitFirst chooses block boundaries on the raw input, before
	// LZ77 processing. This is the default.
	BlockSplitFirst

	// BlockSplitLast chooses block boundaries on the LZ77 output instead
	// of the raw input.
	BlockSplitLast

	// BlockSplitTryBoth makes Compressor.Flush compress twice, once with
	// each boundary choice, and keep the smaller result. Deflater treats
	// it like BlockSplitFirst.
	BlockSplitTryBoth
)

// Options configure a session at construction time.
type Options struct {
	// Verbose logs compression statistics to stderr.
	Verbose bool

	// Iterations scales the effort spent searching for matches. More
	// iterations give denser output at more CPU cost. Values below 1 are
	// replaced with the default, 15.
	Iterations int

	// BlockSplitting selects the block-splitting policy. Values outside
	// the defined constants are silently replaced with BlockSplitFirst.
	BlockSplitting BlockSplitting

	// BlockSplittingMax caps the number of blocks per encode. 0 means no
	// limit; negative values are replaced with the default, 15.
	BlockSplittingMax int
}

// DefaultOptions returns the options the zopfli tool itself uses.
func DefaultOptions() Options {
	return Options{
		Iterations:        15,
		BlockSplitting:    BlockSplitFirst,
		BlockSplittingMax: 15,
	}
}

// normalized fills in defaults and quietly repairs out-of-range values.
// Invalid settings are not an error.
func (o Options) normalized() Options {
	if o.Iterations <= 0 {
		o.Iterations = 15
	}
	if o.BlockSplitting < BlockSplitNone || o.BlockSplitting > BlockSplitTryBoth {
		o.BlockSplitting = BlockSplitFirst
	}
	if o.BlockSplittingMax < 0 {
		o.BlockSplittingMax = 15
	}
	return o
}

func (o Options) logger() *zap.Logger {
	if !o.Verbose {
		return zap.NewNop()
	}
	return zap.Must(zap.NewDevelopment())
}

// deflateOptions resolves o into encoder options with the splitting
// policy pinned to concrete flags.
func (o Options) deflateOptions(split, splitLast bool, log *zap.Logger) *deflate.Options {
	return &deflate.Options{
		Iterations:         o.Iterations,
		BlockSplitting:     split,
		BlockSplittingLast: splitLast,
		BlockSplittingMax:  o.BlockSplittingMax,
		Logger:             log,
	}
}
