// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httpchain

import "net/http"

// Chain is an immutable, ordered sequence of interceptors.  Interceptors
// registered first run outermost: they see requests first on the way in and
// responses last on the way out.
type Chain struct {
	i []Interceptor
}

// appendInterceptors appends the non-nil interceptors in more to a copy of base.
func appendInterceptors(base []Interceptor, more ...Interceptor) []Interceptor {
	c := make([]Interceptor, 0, len(base)+len(more))
	c = append(c, base...)
	for _, i := range more {
		if i != nil {
			c = append(c, i)
		}
	}

	return c
}

// NewChain creates a chain from a sequence of interceptors.  Nil interceptors
// are skipped.  The interceptors always run in the order presented here.
func NewChain(i ...Interceptor) Chain {
	return Chain{
		i: appendInterceptors(nil, i...),
	}
}

// Append adds additional interceptors to this chain, and returns the new chain.
// This chain is not modified.  If more has zero length, this chain is returned.
func (c Chain) Append(more ...Interceptor) Chain {
	if len(more) > 0 {
		return Chain{
			i: appendInterceptors(c.i, more...),
		}
	}

	return c
}

// Extend is like Append, except that the additional interceptors come from
// another chain.
func (c Chain) Extend(more Chain) Chain {
	return c.Append(more.i...)
}

// Len returns the number of interceptors in this chain.
func (c Chain) Len() int {
	return len(c.i)
}

// Interceptors returns a copy of this chain's interceptors, in order.
func (c Chain) Interceptors() []Interceptor {
	return append([]Interceptor{}, c.i...)
}

// Then produces the Pipeline that runs this chain in front of the given
// base collaborators.  In keeping with net/http, a nil client means
// http.DefaultClient.  A nil creator means DefaultCreator.
func (c Chain) Then(creator Creator, client Client) *Pipeline {
	if creator == nil {
		creator = DefaultCreator
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &Pipeline{
		interceptors: c.i,
		creator:      creator,
		client:       client,
	}
}

// ThenClient is a shorthand for Then(nil, client).
func (c Chain) ThenClient(client Client) *Pipeline {
	return c.Then(nil, client)
}
