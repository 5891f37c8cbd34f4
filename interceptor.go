// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httpchain

import (
	"fmt"
	"net/http"
)

// Interceptor participates in the creation and/or the execution of
// outgoing HTTP requests.  An Interceptor never knows about its neighbors:
// it only sees the cursor handed to it for the current call.
//
// Implementations that only care about one of the two operations can embed
// PassThrough, or use CreateFunc, ExecuteFunc, or Funcs.
type Interceptor interface {
	// Create intercepts request creation.  A typical implementation examines
	// and optionally rewrites Creation.Method and Creation.URL, then either
	// calls Creation.Create or builds its own request, and finally may modify
	// the request before returning it.
	//
	// The returned request must not be nil unless an error is returned.
	Create(*Creation) (*http.Request, error)

	// Execute intercepts request execution.  A typical implementation examines
	// and optionally modifies Execution.Request, then either calls
	// Execution.Next, calls Execution.NextWith to observe the response, or
	// calls neither to veto the request altogether.
	Execute(*Execution) error
}

// Named is an optional interface for interceptors that wish to identify
// themselves in errors, logs, and metrics.
type Named interface {
	Name() string
}

// Name returns the name of an interceptor.  If i implements Named, that
// name is used.  Otherwise, the Go type of i is returned.
func Name(i Interceptor) string {
	if n, ok := i.(Named); ok {
		return n.Name()
	}

	return fmt.Sprintf("%T", i)
}

// PassThrough is an Interceptor that delegates both operations unconditionally.
// It is intended to be embedded in types that only override one operation.
type PassThrough struct{}

// Create returns the next request in the chain, unmodified.
func (PassThrough) Create(c *Creation) (*http.Request, error) {
	return c.Create()
}

// Execute executes the next step in the chain.
func (PassThrough) Execute(e *Execution) error {
	return e.Next()
}

var _ Interceptor = PassThrough{}

// CreateFunc is a function type that intercepts only request creation.
// Execution is passed through.
type CreateFunc func(*Creation) (*http.Request, error)

// Create invokes this function.
func (f CreateFunc) Create(c *Creation) (*http.Request, error) {
	return f(c)
}

// Execute passes through to the next step in the chain.
func (f CreateFunc) Execute(e *Execution) error {
	return e.Next()
}

var _ Interceptor = CreateFunc(nil)

// ExecuteFunc is a function type that intercepts only request execution.
// Creation is passed through.
type ExecuteFunc func(*Execution) error

// Create passes through to the next link in the chain.
func (f ExecuteFunc) Create(c *Creation) (*http.Request, error) {
	return c.Create()
}

// Execute invokes this function.
func (f ExecuteFunc) Execute(e *Execution) error {
	return f(e)
}

var _ Interceptor = ExecuteFunc(nil)

// Funcs is an Interceptor built from optional closures.  Any unset
// closure passes through.
type Funcs struct {
	// ID is the optional name reported through the Named interface.
	ID string

	// OnCreate is the optional creation closure.
	OnCreate CreateFunc

	// OnExecute is the optional execution closure.
	OnExecute ExecuteFunc
}

// Name returns the ID field, falling back to "Funcs" when unset.
func (f Funcs) Name() string {
	if len(f.ID) > 0 {
		return f.ID
	}

	return "Funcs"
}

// Create invokes OnCreate, or passes through if that field is nil.
func (f Funcs) Create(c *Creation) (*http.Request, error) {
	if f.OnCreate != nil {
		return f.OnCreate(c)
	}

	return c.Create()
}

// Execute invokes OnExecute, or passes through if that field is nil.
func (f Funcs) Execute(e *Execution) error {
	if f.OnExecute != nil {
		return f.OnExecute(e)
	}

	return e.Next()
}

var _ Interceptor = Funcs{}
var _ Named = Funcs{}
