// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package roundtrip

import "net/http"

// Func is a function type that implements http.RoundTripper.
type Func func(*http.Request) (*http.Response, error)

// RoundTrip invokes this function.
func (f Func) RoundTrip(request *http.Request) (*http.Response, error) {
	return f(request)
}

var _ http.RoundTripper = Func(nil)

// Constructor is the common form of http.RoundTripper middleware.
type Constructor func(http.RoundTripper) http.RoundTripper

// Then applies this constructor to next.
func (c Constructor) Then(next http.RoundTripper) http.RoundTripper {
	return c(next)
}

// CloseIdler is the optional interface of round trippers that pool connections.
type CloseIdler interface {
	CloseIdleConnections()
}

// CloseIdlerFunc is a function type that implements CloseIdler.
type CloseIdlerFunc func()

// CloseIdleConnections invokes this function.
func (cif CloseIdlerFunc) CloseIdleConnections() {
	cif()
}

// CloseIdleConnections invokes the method of the same name on v, if it has one.
func CloseIdleConnections(v interface{}) {
	if ci, ok := v.(CloseIdler); ok {
		ci.CloseIdleConnections()
	}
}

// Decorator pairs a RoundTripper with the CloseIdler of whatever it decorates,
// so that wrapping a transport does not hide its connection pool from
// http.Client.CloseIdleConnections.
type Decorator struct {
	http.RoundTripper
	CloseIdler
}

var _ http.RoundTripper = Decorator{}
var _ CloseIdler = Decorator{}

// PreserveCloseIdler returns decorator, exposing next's CloseIdleConnections
// when decorator lacks its own.
func PreserveCloseIdler(next, decorator http.RoundTripper) http.RoundTripper {
	if _, ok := decorator.(CloseIdler); ok {
		return decorator
	}

	switch n := next.(type) {
	case Decorator:
		// reuse the inner CloseIdler rather than nesting decorators
		return Decorator{RoundTripper: decorator, CloseIdler: n.CloseIdler}

	case CloseIdler:
		return Decorator{RoundTripper: decorator, CloseIdler: n}

	default:
		return decorator
	}
}
