package zopfli

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

// testData produces deterministic, compressible pseudo-text.
func testData(n int) []byte {
	words := []string{
		"the ", "quick ", "brown ", "fox ", "jumps ", "over ", "a ",
		"lazy ", "dog ", "pack ", "my ", "box ", "with ", "five ",
		"dozen ", "liquor ", "jugs ", "and ", "then ", "some\n",
	}
	rnd := rand.New(rand.NewSource(42))
	var b bytes.Buffer
	for b.Len() < n {
		b.WriteString(words[rnd.Intn(len(words))])
	}
	return b.Bytes()[:n]
}

func inflate(t *testing.T, format Format, compressed []byte) []byte {
	t.Helper()
	var r io.ReadCloser
	var err error
	switch format {
	case FormatGzip:
		r, err = gzip.NewReader(bytes.NewReader(compressed))
	case FormatZlib:
		r, err = zlib.NewReader(bytes.NewReader(compressed))
	default:
		r = flate.NewReader(bytes.NewReader(compressed))
	}
	require.NoError(t, err)
	defer r.Close()
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return out
}

func TestOptionsNormalized(t *testing.T) {
	o := Options{Iterations: -3, BlockSplitting: BlockSplitting(99), BlockSplittingMax: -1}.normalized()
	require.Equal(t, DefaultOptions(), o)

	o = Options{Iterations: 1, BlockSplitting: BlockSplitLast}.normalized()
	require.Equal(t, 1, o.Iterations)
	require.Equal(t, BlockSplitLast, o.BlockSplitting)
	require.Equal(t, 0, o.BlockSplittingMax) // 0 stays: no limit
}

func TestFormatString(t *testing.T) {
	require.Equal(t, "gzip", FormatGzip.String())
	require.Equal(t, "zlib", FormatZlib.String())
	require.Equal(t, "deflate", FormatDeflate.String())
	require.Equal(t, "Format(7)", Format(7).String())
}
