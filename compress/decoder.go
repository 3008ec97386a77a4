// Package compress decodes base64+gzip encoded payload fields of render
// results using github.com/klauspost/compress.
package compress

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"strings"

	"github.com/fwojciec/georender"
	"github.com/klauspost/compress/gzip"
)

// Ensure Decoder implements georender.Decoder at compile time.
var _ georender.Decoder = (*Decoder)(nil)

// DefaultMaxDecodedSize caps the decompressed size of a single field.
const DefaultMaxDecodedSize = 256 << 20

// Decoder decodes the html and fetchResponses fields of a Result.
//
// Decoding never fails from the caller's point of view: a field that is not
// valid base64, not gzip, or not the expected JSON keeps its received value.
// The service sends these fields in plain form on some code paths, so a
// mismatch must not turn a successful render into an error.
//
// The zero value is ready to use and applies DefaultMaxDecodedSize.
type Decoder struct {
	maxSize int64
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithMaxDecodedSize limits how many decompressed bytes a field may expand to.
// Larger fields are left undecoded. Values <= 0 select DefaultMaxDecodedSize.
func WithMaxDecodedSize(n int64) Option {
	return func(d *Decoder) {
		d.maxSize = n
	}
}

// NewDecoder creates a new Decoder.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{maxSize: DefaultMaxDecodedSize}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode replaces encoded fields of r with their decoded form, in place.
func (d *Decoder) Decode(r *georender.Result) {
	if r == nil {
		return
	}

	if r.HTML != "" {
		if html, ok := d.DecodeString(r.HTML); ok {
			r.HTML = html
		}
	}

	if encoded, ok := r.FetchResponses.Encoded(); ok && encoded != "" {
		text, ok := d.DecodeString(encoded)
		if !ok {
			return
		}
		var items []georender.FetchResponse
		if err := json.Unmarshal([]byte(text), &items); err != nil {
			return
		}
		r.FetchResponses.Items = items
	}
}

// DecodeString decodes base64 encoded gzip data into text. Padding is
// optional. It returns the input unchanged and false if any step fails.
// Invalid UTF-8 sequences in the decompressed text are replaced with U+FFFD.
func (d *Decoder) DecodeString(s string) (string, bool) {
	raw, err := decodeBase64(s)
	if err != nil {
		return s, false
	}

	limit := d.maxSize
	if limit <= 0 {
		limit = DefaultMaxDecodedSize
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return s, false
	}
	defer zr.Close()

	data, err := io.ReadAll(io.LimitReader(zr, limit+1))
	if err != nil || int64(len(data)) > limit {
		return s, false
	}

	return strings.ToValidUTF8(string(data), "\uFFFD"), true
}

func decodeBase64(s string) ([]byte, error) {
	if strings.HasSuffix(s, "=") {
		return base64.StdEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}
