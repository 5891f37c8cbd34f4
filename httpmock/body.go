// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httpmock

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
)

// EmptyBody returns a readable body with no content.
func EmptyBody() io.ReadCloser {
	return http.NoBody
}

// BodyString returns a body that reads b.
func BodyString(b string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(b))
}

// BodyBytes returns a body that reads b.
func BodyBytes(b []byte) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(b))
}

// TrackedBody is a body that records whether it was closed, for verifying
// that responses are released.
type TrackedBody struct {
	io.Reader
	closed atomic.Int32
}

// NewTrackedBody returns a TrackedBody that reads b.
func NewTrackedBody(b string) *TrackedBody {
	return &TrackedBody{Reader: strings.NewReader(b)}
}

// Close records the call.  It never fails.
func (tb *TrackedBody) Close() error {
	tb.closed.Add(1)
	return nil
}

// Closed returns the number of times Close was called.
func (tb *TrackedBody) Closed() int {
	return int(tb.closed.Load())
}

// Response builds an HTTP/1.1 response with the given status code and body.
func Response(statusCode int, body string) *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode)),
		StatusCode:    statusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        make(http.Header),
		Body:          BodyString(body),
		ContentLength: int64(len(body)),
	}
}
