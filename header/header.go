// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package header

import "net/http"

// emptyHeader is the canonical, immutable empty Header
var emptyHeader = Header{}

// Header is a more efficient version of http.Header for situations where
// the same headers are applied to many requests.  Rather than a map, a simple
// list of headers is maintained in canonicalized form, which is much faster
// to iterate over.
//
// A Header instance is immutable once created.
type Header struct {
	names  []string
	values [][]string
}

// Empty returns the canonical empty Header.
func Empty() Header {
	return emptyHeader
}

// New creates an immutable, preprocessed Header given an http.Header.
func New(v http.Header) Header {
	if len(v) == 0 {
		return emptyHeader
	}

	h := Header{
		names:  make([]string, 0, len(v)),
		values: make([][]string, 0, len(v)),
	}

	for name, values := range v {
		if len(values) == 0 {
			continue
		}

		h.names = append(h.names, http.CanonicalHeaderKey(name))
		h.values = append(h.values, append([]string{}, values...))
	}

	return h
}

// FromMap allows a Header to be built directly from a map[string]string,
// which is the shape most configuration formats produce.
func FromMap(v map[string]string) Header {
	if len(v) == 0 {
		return emptyHeader
	}

	h := make(http.Header, len(v))
	for name, value := range v {
		h.Add(name, value)
	}

	return New(h)
}

// Pairs takes a variadic list of values and interprets them as alternating
// name/value pairs.  Duplicate names produce multivalued headers.  If v contains
// an odd number of strings, the last string is a header with a blank value.
func Pairs(v ...string) Header {
	if len(v) == 0 {
		return emptyHeader
	}

	h := make(http.Header)

	var i, j int
	for i, j = 0, 1; j < len(v); i, j = i+2, j+2 {
		h.Add(v[i], v[j])
	}

	if i < len(v) {
		h.Add(v[i], "")
	}

	return New(h)
}

// Len returns the number of distinct header names.
func (h Header) Len() int {
	return len(h.names)
}

// Extend returns a new Header with the names and values of both h and more.
// Names present in both are merged.  Neither h nor more is modified.
func (h Header) Extend(more Header) Header {
	switch {
	case more.Len() == 0:
		return h

	case h.Len() == 0:
		return more
	}

	merged := make(http.Header, h.Len()+more.Len())
	h.AddTo(merged)
	more.AddTo(merged)
	return New(merged)
}

// SetTo overwrites headers in the destination with the ones defined by
// this Header.
func (h Header) SetTo(dst http.Header) {
	for i, name := range h.names {
		// the names are already canonicalized
		dst[name] = append([]string{}, h.values[i]...)
	}
}

// AddTo appends this Header's values to any existing values in dst.
func (h Header) AddTo(dst http.Header) {
	for i, name := range h.names {
		dst[name] = append(dst[name], h.values[i]...)
	}
}
