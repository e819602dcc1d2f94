package bodyfmt

import (
	"bytes"
	"io"
)

type rawRenderer struct {
	body []byte
}

func newRawRenderer(body []byte) *rawRenderer {
	return &rawRenderer{body: bytes.Clone(body)}
}

// Render copies the body unchanged.
func (r *rawRenderer) Render(w io.Writer) error {
	_, err := w.Write(r.body)
	return err
}
