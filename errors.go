package zopfli

import "errors"

var (
	// ErrUnknownFormat is returned by NewCompressor when the container
	// format is not one of the Format constants.
	ErrUnknownFormat = errors.New("zopfli: unknown format")

	// ErrFlushed is returned by Compress once the session's Flush has
	// been called.
	ErrFlushed = errors.New("zopfli: session has been flushed")

	// ErrRepeatedFlush is returned by a second call to Flush.
	ErrRepeatedFlush = errors.New("zopfli: repeated call to Flush")
)
