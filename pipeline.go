// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httpchain

import (
	"context"
	"net/http"
	"net/url"
)

// Pipeline is the single entry point produced by Chain.Then.  It exposes
// request creation and execution while hiding the per-interceptor cursors.
//
// A Pipeline holds no mutable state.  It is safe for concurrent use as long
// as its interceptors and base collaborators are.
type Pipeline struct {
	interceptors []Interceptor
	creator      Creator
	client       Client
}

var _ Client = (*Pipeline)(nil)

func (p *Pipeline) newCall() *call {
	return &call{
		interceptors: p.interceptors,
		creator:      p.creator,
		client:       p.client,
	}
}

// Len returns the number of interceptors in this pipeline.
func (p *Pipeline) Len() int {
	return len(p.interceptors)
}

// Create parses rawURL and then behaves as CreateURL.
func (p *Pipeline) Create(ctx context.Context, method, rawURL string) (*http.Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	return p.CreateURL(ctx, method, u)
}

// CreateURL runs the creation chain and returns the resulting request.  Errors
// from the base Creator are returned verbatim.  Errors from an interceptor are
// wrapped in an *InterceptorError.
//
// A nil ctx is treated as context.Background().
func (p *Pipeline) CreateURL(ctx context.Context, method string, u *url.URL) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if u == nil {
		return nil, invalidUsage(-1, PhaseCreate, "URL is nil")
	}

	if len(p.interceptors) == 0 {
		return p.creator.NewRequest(ctx, method, u)
	}

	clone := *u
	return p.newCall().create(ctx, 0, method, &clone)
}

// Execute runs the execution chain for request.  If onResponse is non-nil, it
// is invoked once with the response after every interceptor callback has fired.
//
// IMPORTANT: a (nil, nil) return means an interceptor vetoed the request and
// nothing was sent.  This is not an error.  Callers that prefer an error in
// that case should use Do instead.
func (p *Pipeline) Execute(request *http.Request, onResponse func(*http.Response)) (*http.Response, error) {
	switch {
	case request == nil:
		return nil, invalidUsage(-1, PhaseExecute, "request is nil")

	case request.URL == nil:
		return nil, invalidUsage(-1, PhaseExecute, "request URL is nil")
	}

	var (
		response *http.Response
		err      error
	)

	if len(p.interceptors) == 0 {
		response, err = p.client.Do(request)
	} else {
		response, err = p.newCall().execute(0, request)
	}

	if err == nil && response != nil && onResponse != nil {
		onResponse(response)
	}

	return response, err
}

// Do executes request and fulfills the Client interface.  This allows a
// Pipeline to be used as the base Client of another Pipeline, or anywhere an
// *http.Client-like object is expected.  Unlike Execute, a vetoed request
// produces a *VetoedError.
func (p *Pipeline) Do(request *http.Request) (*http.Response, error) {
	response, err := p.Execute(request, nil)
	if err == nil && response == nil {
		err = &VetoedError{Request: request}
	}

	return response, err
}

// Send is a convenience that runs both chains: the request is created with
// CreateURL semantics and then passed to Execute.
func (p *Pipeline) Send(ctx context.Context, method, rawURL string, onResponse func(*http.Response)) (*http.Response, error) {
	request, err := p.Create(ctx, method, rawURL)
	if err != nil {
		return nil, err
	}

	return p.Execute(request, onResponse)
}
