// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package decompress

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Supported content codings.
const (
	Brotli  = "br"
	Gzip    = "gzip"
	Deflate = "deflate"
	Zstd    = "zstd"
	// Identity is the absence of any coding.
	Identity = "identity"
)

// DefaultEncodings are the codings advertised when none are configured,
// in order of preference.
var DefaultEncodings = []string{Brotli, Zstd, Gzip, Deflate}

// UnsupportedEncodingError indicates a response used a content coding this
// package cannot decode.
type UnsupportedEncodingError struct {
	Encoding string
}

// Error satisfies the error interface.
func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("unsupported content encoding %q", e.Encoding)
}

// Supported tests if a content coding can be decoded.
func Supported(encoding string) bool {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case Brotli, Gzip, Deflate, Zstd, Identity:
		return true

	default:
		return false
	}
}

// body reads decoded content and closes both the decoders and the
// original body.
type body struct {
	io.Reader
	closers []func() error
}

func (b *body) Close() (err error) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if cerr := b.closers[i](); err == nil {
			err = cerr
		}
	}

	return
}

func newDecoder(encoding string, r io.Reader) (io.Reader, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case Brotli:
		return brotli.NewReader(r), nil, nil

	case Gzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}

		return gr, gr.Close, nil

	case Deflate:
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, nil, err
		}

		return zr, zr.Close, nil

	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}

		return zr, func() error { zr.Close(); return nil }, nil

	case Identity, "":
		return r, nil, nil

	default:
		return nil, nil, &UnsupportedEncodingError{Encoding: encoding}
	}
}

// NewReader wraps original so that reads produce content decoded according
// to a Content-Encoding header value.  Multiple codings are undone in the
// reverse of the order they were applied.  Closing the returned reader also
// closes original.
func NewReader(contentEncoding string, original io.ReadCloser) (io.ReadCloser, error) {
	var (
		encodings = strings.Split(contentEncoding, ",")
		b         = &body{
			Reader:  original,
			closers: []func() error{original.Close},
		}
	)

	for i := len(encodings) - 1; i >= 0; i-- {
		r, closer, err := newDecoder(encodings[i], b.Reader)
		if err != nil {
			b.Close() //nolint:errcheck
			return nil, err
		}

		b.Reader = r
		if closer != nil {
			b.closers = append(b.closers, closer)
		}
	}

	return b, nil
}
