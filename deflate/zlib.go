package deflate

import "hash/adler32"

// Zlib compresses data into a zlib container (RFC 1950).
func Zlib(opts *Options, data []byte) []byte {
	dst := []byte{
		0x78, // CM = deflate, 32K window
		0xda, // FLEVEL = maximum, FCHECK
	}
	dst = NewEncoder(opts).EncodePart(dst, data, true)
	s := adler32.Checksum(data)
	return append(dst, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}
