// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httpchain

import (
	"context"
	"net/http"
	"net/url"
)

// Creation is the cursor handed to an Interceptor's Create method.  It
// represents the remainder of the creation chain, starting just after the
// interceptor that received it.
//
// A Creation is only valid for the duration of the Create call that
// received it, and is never safe for concurrent use.
type Creation struct {
	// Method is the HTTP method of the request about to be created.  An
	// interceptor may change this field before calling Create.
	Method string

	// URL is the target of the request about to be created.  An interceptor
	// may modify or replace this field before calling Create.  The URL is a
	// copy of the one passed to the Pipeline, so in-place modification does
	// not affect the caller.
	URL *url.URL

	ctx     context.Context
	call    *call
	index   int
	created bool

	// misuse is the first usage error reported through this cursor.  It
	// fails the interceptor's Create even if the interceptor discards it.
	misuse error
}

// Context returns the context the request is being created with.
func (c *Creation) Context() context.Context {
	return c.ctx
}

// Index is the 0-based position in the chain of the interceptor holding this cursor.
func (c *Creation) Index() int {
	return c.index
}

// Create obtains a request from the rest of the chain, using the current
// Method and URL.  Once all interceptors have been visited, the Pipeline's
// base Creator produces the request.
//
// Create may be invoked at most once.  Subsequent invocations return an
// *InvalidChainUsageError and do not visit the rest of the chain again.  The
// same error is returned from the top-level call, even if the interceptor
// ignores it.
// Not invoking Create at all is permitted: the interceptor is then responsible
// for returning its own request, and no further links of the chain will run.
func (c *Creation) Create() (*http.Request, error) {
	if c.created {
		return nil, c.misused("Create invoked more than once")
	}

	c.created = true
	if c.URL == nil {
		return nil, c.misused("URL is nil")
	}

	return c.call.create(c.ctx, c.index+1, c.Method, c.URL)
}

func (c *Creation) misused(reason string) error {
	err := invalidUsage(c.index, PhaseCreate, reason)
	if c.misuse == nil {
		c.misuse = err
	}

	return err
}
