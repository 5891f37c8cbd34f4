// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httpchain

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// Client is the canonical interface implemented by *http.Client.  It is
// the base executor of every Pipeline: the only component that performs
// network I/O.
type Client interface {
	Do(*http.Request) (*http.Response, error)
}

var _ Client = (*http.Client)(nil)

// ClientFunc is a function type that implements Client.
type ClientFunc func(*http.Request) (*http.Response, error)

// Do invokes this function.
func (f ClientFunc) Do(request *http.Request) (*http.Response, error) {
	return f(request)
}

var _ Client = ClientFunc(nil)

// Creator is the base creator of every Pipeline.  It materializes the
// initial request once the creation chain is exhausted.
type Creator interface {
	NewRequest(ctx context.Context, method string, u *url.URL) (*http.Request, error)
}

// CreatorFunc is a function type that implements Creator.
type CreatorFunc func(context.Context, string, *url.URL) (*http.Request, error)

// NewRequest invokes this function.
func (f CreatorFunc) NewRequest(ctx context.Context, method string, u *url.URL) (*http.Request, error) {
	return f(ctx, method, u)
}

var _ Creator = CreatorFunc(nil)

// DefaultCreator is the Creator used when none is supplied.  It creates
// a bodiless request via http.NewRequestWithContext.
var DefaultCreator Creator = CreatorFunc(func(ctx context.Context, method string, u *url.URL) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, method, u.String(), nil)
})

// Cleanup is a utility function for ensuring that a client response's
// Body is drained and closed.  This function does not set the Body to nil.
//
// If either the response or the response.Body field is nil, this function
// does nothing.
func Cleanup(r *http.Response) {
	if r != nil && r.Body != nil {
		io.Copy(io.Discard, r.Body) //nolint:errcheck
		r.Body.Close()
	}
}
