package transfer

import (
	"io"

	json "github.com/goccy/go-json"
)

// EncodeFunc serializes a payload into w, writing bytes as they are
// produced. Implementations must not buffer the entire output before
// writing; anything that can write incrementally to an io.Writer qualifies.
type EncodeFunc func(w io.Writer) error

// JSON returns an EncodeFunc that encodes v as JSON directly into the
// destination writer.
func JSON(v any) EncodeFunc {
	return func(w io.Writer) error {
		return json.NewEncoder(w).Encode(v)
	}
}

// Reader returns an EncodeFunc that copies r into the destination writer.
func Reader(r io.Reader) EncodeFunc {
	return func(w io.Writer) error {
		_, err := io.Copy(w, r)
		return err
	}
}

// Bytes returns an EncodeFunc that writes b into the destination writer.
func Bytes(b []byte) EncodeFunc {
	return func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	}
}
