// Package zopfli provides slow, high-ratio DEFLATE, zlib and gzip
// compression in the style of the zopfli compressor.
//
// Two session types are provided. Compressor buffers an entire stream and
// compresses it in one shot on Flush, optionally running more than one
// block-splitting policy and keeping the smaller result. Deflater
// compresses chunk by chunk, appending raw deflate blocks to a single
// bitstream that stays decodable across calls even though the blocks are
// not byte-aligned.
//
// Both types follow the same lifecycle: any number of Compress calls,
// then exactly one Flush. After Flush the session is inert and every
// further call fails.
package zopfli
