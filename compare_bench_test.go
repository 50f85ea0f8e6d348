package zopfli

import (
	"bytes"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"
	"github.com/pierrec/lz4/v4"
)

// The benchmarks below compare against reference encoders of this and
// neighboring formats, mostly for the ratio metric.

func benchmarkCodec(b *testing.B, compress func([]byte) []byte) {
	b.StopTimer()
	b.ReportAllocs()
	data := testData(1 << 20)
	b.SetBytes(int64(len(data)))
	out := compress(data)
	b.ReportMetric(float64(len(data))/float64(len(out)), "ratio")
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		compress(data)
	}
}

func BenchmarkCompressor(b *testing.B) {
	benchmarkCodec(b, func(data []byte) []byte {
		c, err := NewCompressor(FormatDeflate, Options{Iterations: 5, BlockSplitting: BlockSplitTryBoth})
		if err != nil {
			b.Fatal(err)
		}
		if _, err := c.Compress(data); err != nil {
			b.Fatal(err)
		}
		out, err := c.Flush()
		if err != nil {
			b.Fatal(err)
		}
		return out
	})
}

func BenchmarkFlate(b *testing.B) {
	benchmarkCodec(b, func(data []byte) []byte {
		var buf bytes.Buffer
		w, err := flate.NewWriter(&buf, flate.BestCompression)
		if err != nil {
			b.Fatal(err)
		}
		w.Write(data)
		w.Close()
		return buf.Bytes()
	})
}

func BenchmarkBrotli(b *testing.B) {
	benchmarkCodec(b, func(data []byte) []byte {
		var buf bytes.Buffer
		w := brotli.NewWriterLevel(&buf, brotli.BestCompression)
		w.Write(data)
		w.Close()
		return buf.Bytes()
	})
}

func BenchmarkSnappy(b *testing.B) {
	benchmarkCodec(b, func(data []byte) []byte {
		return snappy.Encode(nil, data)
	})
}

func BenchmarkLZ4(b *testing.B) {
	benchmarkCodec(b, func(data []byte) []byte {
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		w.Write(data)
		w.Close()
		return buf.Bytes()
	})
}
