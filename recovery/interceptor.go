// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package recovery

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/xmidt-org/httpchain"
	"github.com/xmidt-org/httpchain/header"
)

// OnRecover is a callback that receives information about a recovery object.
// Both the argument passed to panic and the debug stack trace are passed to this closure.
type OnRecover func(r interface{}, stack []byte)

// RecoverBody is a custom closure for writing the body of a synthetic response.
// By default, DefaultRecoverBody is used.
type RecoverBody func(w io.Writer, r interface{}, stack []byte)

// DefaultRecoverBody is the default strategy for writing the recovery argument.
// This function writes a string representation of r, followed by the stack trace.
func DefaultRecoverBody(w io.Writer, r interface{}, stack []byte) {
	_, err := fmt.Fprintf(w, "%s\n", r)
	if err == nil {
		w.Write(stack) //nolint:errcheck
	}
}

// PanicError is returned when a panic is recovered and no synthetic response
// is produced.
type PanicError struct {
	// Value is the argument that was passed to panic.
	Value interface{}

	// Stack is the debug stack at the time of recovery.
	Stack []byte

	// Phase is the chain that panicked.
	Phase httpchain.Phase
}

// Error satisfies the error interface.
func (pe *PanicError) Error() string {
	return fmt.Sprintf("panic during %s: %v", pe.Phase, pe.Value)
}

// Unwrap returns the panic value if it was itself an error.
func (pe *PanicError) Unwrap() error {
	err, _ := pe.Value.(error)
	return err
}

type interceptor struct {
	header     header.Header
	body       RecoverBody
	statusCode int
	onRecover  []OnRecover
}

func (i *interceptor) Name() string {
	return "recovery"
}

func (i *interceptor) notify(r interface{}, stack []byte) {
	for _, f := range i.onRecover {
		f(r, stack)
	}
}

func (i *interceptor) statusCodeFor(r interface{}) int {
	type statusCoder interface {
		StatusCode() int
	}

	if sc, ok := r.(statusCoder); ok {
		return sc.StatusCode()
	}

	return i.statusCode
}

func (i *interceptor) newResponse(request *http.Request, statusCode int, r interface{}, stack []byte) *http.Response {
	var b bytes.Buffer
	body := i.body
	if body == nil {
		body = DefaultRecoverBody
	}

	body(&b, r, stack)
	response := &http.Response{
		Status:        fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode)),
		StatusCode:    statusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        make(http.Header),
		Body:          io.NopCloser(&b),
		ContentLength: int64(b.Len()),
		Request:       request,
	}

	i.header.AddTo(response.Header)

	type headerer interface {
		Headers() http.Header
	}

	if h, ok := r.(headerer); ok {
		for name, values := range h.Headers() {
			for _, value := range values {
				response.Header.Add(name, value)
			}
		}
	}

	return response
}

func (i *interceptor) Create(c *httpchain.Creation) (request *http.Request, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			i.notify(r, stack)
			request = nil
			err = &PanicError{Value: r, Stack: stack, Phase: httpchain.PhaseCreate}
		}
	}()

	return c.Create()
}

func (i *interceptor) Execute(e *httpchain.Execution) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			i.notify(r, stack)

			if sc := i.statusCodeFor(r); sc >= 100 && e.Response() == nil {
				err = e.Respond(i.newResponse(e.Request, sc, r, stack))
			} else {
				err = &PanicError{Value: r, Stack: stack, Phase: httpchain.PhaseExecute}
			}
		}
	}()

	return e.Next()
}

// Option is a configurable option for a recovery interceptor.
type Option interface {
	apply(*interceptor)
}

type optionFunc func(*interceptor)

func (of optionFunc) apply(i *interceptor) { of(i) }

// WithOnRecover adds zero or more OnRecover callbacks to the interceptor.
func WithOnRecover(f ...OnRecover) Option {
	return optionFunc(func(i *interceptor) {
		i.onRecover = append(i.onRecover, f...)
	})
}

// WithRecoverBody adds a custom RecoverBody strategy for writing
// the body of synthetic responses.
func WithRecoverBody(rb RecoverBody) Option {
	return optionFunc(func(i *interceptor) {
		i.body = rb
	})
}

// WithStatusCode causes panics during execution to produce a synthetic response
// with this status code rather than a *PanicError.  Panic values that expose a
// StatusCode() int method always produce a synthetic response with that code.
func WithStatusCode(sc int) Option {
	return optionFunc(func(i *interceptor) {
		i.statusCode = sc
	})
}

// WithHeader adds headers to synthetic responses.  This option is cumulative:
// headers from multiple calls will be merged together.
func WithHeader(h header.Header) Option {
	return optionFunc(func(i *interceptor) {
		i.header = i.header.Extend(h)
	})
}

// New creates an interceptor that recovers any panics from the rest of the chain.
//
// Panics in either chain are converted into a *PanicError.  If a status code is
// configured and a panic happens during execution before any response is available,
// a synthetic response carrying the recovery object and stack is produced instead,
// and the outer interceptors observe it like any other response.  A real
// response abandoned by the panic is closed by the chain as it unwinds.
//
// One or more OnRecover strategies can be added via options.  These are invoked
// with the recovery object and debug stack, and can be used to hook in logging,
// metrics, etc.
func New(options ...Option) httpchain.Interceptor {
	i := new(interceptor)
	for _, o := range options {
		o.apply(i)
	}

	return i
}
