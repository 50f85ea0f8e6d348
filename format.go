package zopfli

import "fmt"

// A Format is the container wrapped around the compressed stream.
type Format int

const (
	FormatGzip Format = iota
	FormatZlib
	FormatDeflate
)

func (f Format) String() string {
	switch f {
	case FormatGzip:
		return "gzip"
	case FormatZlib:
		return "zlib"
	case FormatDeflate:
		return "deflate"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}
