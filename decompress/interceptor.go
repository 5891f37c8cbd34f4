// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package decompress

import (
	"net/http"
	"strings"

	"github.com/xmidt-org/httpchain"
)

// Interceptor advertises the content codings it supports on created requests,
// and transparently decodes compressed response bodies.
//
// Decoded responses have their Content-Encoding and Content-Length headers
// removed, ContentLength set to -1, and Uncompressed set to true.
type Interceptor struct {
	// Encodings is the list of codings to advertise via Accept-Encoding.
	// DefaultEncodings is used if unset.
	Encodings []string
}

var _ httpchain.Interceptor = Interceptor{}

// Name satisfies httpchain.Named.
func (i Interceptor) Name() string {
	return "decompress"
}

func (i Interceptor) acceptEncoding() string {
	if len(i.Encodings) > 0 {
		return strings.Join(i.Encodings, ", ")
	}

	return strings.Join(DefaultEncodings, ", ")
}

// Create sets Accept-Encoding on the created request, unless the request
// already has one.
func (i Interceptor) Create(c *httpchain.Creation) (*http.Request, error) {
	request, err := c.Create()
	if err != nil {
		return nil, err
	}

	if request.Header == nil {
		request.Header = make(http.Header)
	}

	if len(request.Header.Get("Accept-Encoding")) == 0 {
		request.Header.Set("Accept-Encoding", i.acceptEncoding())
	}

	return request, nil
}

// Execute decodes the response body produced by the rest of the chain.  Outer
// interceptors and callbacks only ever see the decoded body.
func (i Interceptor) Execute(e *httpchain.Execution) error {
	if err := e.Next(); err != nil {
		return err
	}

	response := e.Response()
	if response == nil || response.Body == nil || response.Body == http.NoBody {
		return nil
	}

	contentEncoding := response.Header.Get("Content-Encoding")
	if len(contentEncoding) == 0 {
		return nil
	}

	decoded, err := NewReader(contentEncoding, response.Body)
	if err != nil {
		return err
	}

	response.Body = decoded
	response.Header.Del("Content-Encoding")
	response.Header.Del("Content-Length")
	response.ContentLength = -1
	response.Uncompressed = true
	return nil
}
