package zopfli

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressorRoundTrip(t *testing.T) {
	data := testData(100000)
	for _, format := range []Format{FormatGzip, FormatZlib, FormatDeflate} {
		t.Run(format.String(), func(t *testing.T) {
			c, err := NewCompressor(format, DefaultOptions())
			require.NoError(t, err)
			for i := 0; i < len(data); i += 30000 {
				end := min(i+30000, len(data))
				out, err := c.Compress(data[i:end])
				require.NoError(t, err)
				require.Empty(t, out, "Compress must not produce output")
			}
			out, err := c.Flush()
			require.NoError(t, err)
			require.Equal(t, data, inflate(t, format, out))
		})
	}
}

func TestCompressorEmpty(t *testing.T) {
	for _, format := range []Format{FormatGzip, FormatZlib, FormatDeflate} {
		c, err := NewCompressor(format, Options{})
		require.NoError(t, err)
		out, err := c.Flush()
		require.NoError(t, err)
		require.Empty(t, inflate(t, format, out))
	}
}

func TestCompressorUnknownFormat(t *testing.T) {
	_, err := NewCompressor(Format(42), Options{})
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestCompressorNormalizesOptions(t *testing.T) {
	// Out-of-range block splitting values are not an error.
	c, err := NewCompressor(FormatDeflate, Options{BlockSplitting: BlockSplitting(-7)})
	require.NoError(t, err)
	_, err = c.Compress(testData(1000))
	require.NoError(t, err)
	out, err := c.Flush()
	require.NoError(t, err)
	require.Equal(t, testData(1000), inflate(t, FormatDeflate, out))
}

func TestCompressorFlushedErrors(t *testing.T) {
	c, err := NewCompressor(FormatDeflate, Options{})
	require.NoError(t, err)
	_, err = c.Compress([]byte("data"))
	require.NoError(t, err)
	_, err = c.Flush()
	require.NoError(t, err)

	// The failure is idempotent: every further call reports the same
	// error kind.
	for i := 0; i < 3; i++ {
		_, err = c.Compress([]byte("more"))
		require.ErrorIs(t, err, ErrFlushed)
		_, err = c.Flush()
		require.ErrorIs(t, err, ErrRepeatedFlush)
	}
}

func TestCompressorTryBoth(t *testing.T) {
	data := testData(300000)
	flush := func(split BlockSplitting) []byte {
		c, err := NewCompressor(FormatDeflate, Options{BlockSplitting: split})
		require.NoError(t, err)
		_, err = c.Compress(data)
		require.NoError(t, err)
		out, err := c.Flush()
		require.NoError(t, err)
		require.Equal(t, data, inflate(t, FormatDeflate, out))
		return out
	}

	both := flush(BlockSplitTryBoth)
	first := flush(BlockSplitFirst)
	last := flush(BlockSplitLast)
	require.LessOrEqual(t, len(both), len(first))
	require.LessOrEqual(t, len(both), len(last))
}

func TestCompressorConcurrent(t *testing.T) {
	chunk := testData(4096)
	c, err := NewCompressor(FormatZlib, Options{})
	require.NoError(t, err)

	const writers, perWriter = 8, 4
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				if _, err := c.Compress(chunk); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	out, err := c.Flush()
	require.NoError(t, err)
	var want []byte
	for i := 0; i < writers*perWriter; i++ {
		want = append(want, chunk...)
	}
	require.Equal(t, want, inflate(t, FormatZlib, out))
}
