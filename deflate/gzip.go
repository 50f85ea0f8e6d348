package deflate

import "hash/crc32"

// Gzip compresses data into a gzip container (RFC 1952). The header is
// fixed: no name, no timestamp, XFL marking slowest compression, unix OS.
func Gzip(opts *Options, data []byte) []byte {
	dst := []byte{
		0x1f, 0x8b, // magic number
		8,          // CM = deflate
		0,          // FLG
		0, 0, 0, 0, // MTIME
		2, // XFL (slowest compression)
		3, // OS (unix)
	}
	dst = NewEncoder(opts).EncodePart(dst, data, true)
	dst = appendUint32(dst, crc32.ChecksumIEEE(data))
	return appendUint32(dst, uint32(len(data)))
}

func appendUint32(dst []byte, n uint32) []byte {
	return append(dst,
		byte(n),
		byte(n>>8),
		byte(n>>16),
		byte(n>>24),
	)
}
