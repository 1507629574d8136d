// Package output provides a small io.Writer wrapper shared by Scarab's
// command-line tools.
package output

import (
	"io"

	"github.com/pkg/errors"
)

// ErrWriter wraps an io.Writer, latching the first write error it sees and
// returning it on every subsequent call instead of retrying a broken sink
// (a closed stdout, a disconnected pipe).
type ErrWriter struct {
	w   io.Writer
	Err error
}

// NewErrWriter wraps w.
func NewErrWriter(w io.Writer) *ErrWriter {
	return &ErrWriter{w: w}
}

func (w *ErrWriter) Write(p []byte) (int, error) {
	if w.Err != nil {
		return 0, w.Err
	}
	n, err := w.w.Write(p)
	if err != nil {
		w.Err = errors.Wrap(err, "write failed")
	}
	return n, w.Err
}
