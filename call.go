// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httpchain

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// call is the state shared by every cursor of a single top-level Create or
// Execute.  The interceptor slice is never copied; cursors carry an index into it.
type call struct {
	interceptors []Interceptor
	creator      Creator
	client       Client

	// terminal is the error, if any, returned by the base creator or base client.
	// It is propagated verbatim, without interceptor context.
	terminal error
}

// annotate adds the interceptor's position to an error that originated in that
// interceptor.  Errors from the base collaborators, and errors already annotated
// further down the chain, are returned as is.
func (c *call) annotate(index int, phase Phase, err error) error {
	if c.terminal != nil && errors.Is(err, c.terminal) {
		return err
	}

	var (
		ie *InterceptorError
		ue *InvalidChainUsageError
	)

	if errors.As(err, &ie) || errors.As(err, &ue) {
		return err
	}

	return &InterceptorError{
		Index: index,
		Name:  Name(c.interceptors[index]),
		Phase: phase,
		Err:   err,
	}
}

func (c *call) create(ctx context.Context, index int, method string, u *url.URL) (*http.Request, error) {
	if index >= len(c.interceptors) {
		request, err := c.creator.NewRequest(ctx, method, u)
		if err != nil {
			c.terminal = err
		}

		return request, err
	}

	cr := &Creation{
		Method: method,
		URL:    u,
		ctx:    ctx,
		call:   c,
		index:  index,
	}

	request, err := c.interceptors[index].Create(cr)
	switch {
	case err != nil:
		return nil, c.annotate(index, PhaseCreate, err)

	case cr.misuse != nil:
		return nil, cr.misuse

	case request == nil:
		return nil, invalidUsage(index, PhaseCreate, "interceptor returned a nil request")

	default:
		return request, nil
	}
}

func (c *call) execute(index int, request *http.Request) (*http.Response, error) {
	if index >= len(c.interceptors) {
		response, err := c.client.Do(request)
		if err != nil {
			c.terminal = err
		}

		return response, err
	}

	e := &Execution{
		Request: request,
		ctx:     request.Context(),
		call:    c,
		index:   index,
	}

	// a panic unwinding through this level means nobody upstream will
	// see this level's response
	returned := false
	defer func() {
		if !returned {
			Cleanup(e.response)
		}
	}()

	err := c.interceptors[index].Execute(e)
	returned = true
	switch {
	case err != nil:
		Cleanup(e.response)
		return nil, c.annotate(index, PhaseExecute, err)

	case e.misuse != nil:
		Cleanup(e.response)
		return nil, e.misuse

	default:
		return e.response, nil
	}
}
