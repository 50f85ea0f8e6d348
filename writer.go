package zopfli

import "io"

// A Writer is an io.WriteCloser over a Deflater. It forwards each call's
// compressed output to the destination as it is produced; the stream is
// raw deflate and is only complete once Close has been called.
type Writer struct {
	w io.Writer
	d *Deflater
}

// NewWriter returns a Writer that writes a raw deflate stream to w.
func NewWriter(w io.Writer, opts Options) *Writer {
	return &Writer{w: w, d: NewDeflater(opts)}
}

func (w *Writer) Write(p []byte) (int, error) {
	out, err := w.d.Compress(p)
	if err != nil {
		return 0, err
	}
	if _, err := w.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close encodes any pending data as the final block and writes it out.
// It does not close the destination.
func (w *Writer) Close() error {
	out, err := w.d.Flush()
	if err != nil {
		return err
	}
	_, err = w.w.Write(out)
	return err
}
