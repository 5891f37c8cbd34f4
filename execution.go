// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httpchain

import (
	"context"
	"net/http"
)

// Execution is the cursor handed to an Interceptor's Execute method.  It
// represents the remainder of the execution chain, starting just after the
// interceptor that received it.
//
// An Execution is only valid for the duration of the Execute call that
// received it, and is never safe for concurrent use.  Note that a response
// callback passed to NextWith runs on whatever goroutine the base Client
// returned on, which for synchronous clients is the calling goroutine.
type Execution struct {
	// Request is the request that will be passed down the chain.  Interceptors
	// may modify it, or replace it with a derived request (e.g. via WithContext),
	// before calling Next.  Changes made after Next returns have no effect on
	// what was sent.
	Request *http.Request

	ctx      context.Context
	call     *call
	index    int
	called   bool
	response *http.Response

	// misuse is the first usage error reported through this cursor.  It
	// fails the interceptor's Execute even if the interceptor discards it.
	misuse error
}

// Context is the context of the current request.  If an interceptor has
// cleared Request, this is the context of the request this cursor started with.
func (e *Execution) Context() context.Context {
	if e.Request != nil {
		return e.Request.Context()
	}

	return e.ctx
}

// Index is the 0-based position in the chain of the interceptor holding this cursor.
func (e *Execution) Index() int {
	return e.index
}

// Response returns the response produced below this interceptor, or supplied
// via Respond.  This method returns nil until then, and continues to return nil
// if the rest of the chain vetoed the request or failed.
func (e *Execution) Response() *http.Response {
	return e.response
}

// Next executes the rest of the chain.  Any error from the rest of the chain
// is returned, and should normally be returned by the calling interceptor.
//
// A nil error does not imply a response: an interceptor further down may
// have vetoed the request.  Use Response, or NextWith, to observe the outcome.
//
// Next, NextWith, and Respond may only be used once, in any combination.
// Misuse is reported both here and from the top-level call, even if the
// interceptor ignores the error.  Request must be non-nil and have a URL.
func (e *Execution) Next() error {
	return e.next(nil)
}

// NextWith is like Next, but also invokes onResponse exactly once with the
// response when one becomes available.  Callbacks registered by interceptors
// nearer the base Client fire first.  onResponse is not invoked if the rest of
// the chain vetoed the request or returned an error.
//
// Passing a nil onResponse is an *InvalidChainUsageError.
func (e *Execution) NextWith(onResponse func(*http.Response)) error {
	if onResponse == nil {
		return e.misused("nil response callback")
	}

	return e.next(onResponse)
}

func (e *Execution) next(onResponse func(*http.Response)) error {
	switch {
	case e.called:
		return e.misused("next step invoked more than once")

	case e.Request == nil:
		return e.misused("request is nil")

	case e.Request.URL == nil:
		return e.misused("request URL is nil")
	}

	e.called = true
	response, err := e.call.execute(e.index+1, e.Request)
	if err != nil {
		return err
	}

	e.response = response
	if response != nil && onResponse != nil {
		onResponse(response)
	}

	return nil
}

// Respond supplies a synthetic response for this level of the chain.  This is
// how an interceptor converts a failure from Next into a response, or answers
// a request without sending it.  Callbacks registered by outer interceptors see
// this response.
//
// It is an *InvalidChainUsageError to pass a nil response, or to call Respond
// when this level already has a response.
func (e *Execution) Respond(response *http.Response) error {
	switch {
	case response == nil:
		return e.misused("nil response")

	case e.response != nil:
		return e.misused("a response is already available")
	}

	e.called = true
	e.response = response
	return nil
}

func (e *Execution) misused(reason string) error {
	err := invalidUsage(e.index, PhaseExecute, reason)
	if e.misuse == nil {
		e.misuse = err
	}

	return err
}
