// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httpmock

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"slices"

	"github.com/stretchr/testify/assert"
)

// RequestMatcher selects which expectation applies to a request, via
// mock.MatchedBy.
type RequestMatcher interface {
	Match(*http.Request) bool
}

// RequestMatcherFunc is a closure RequestMatcher.
type RequestMatcherFunc func(*http.Request) bool

func (rmf RequestMatcherFunc) Match(r *http.Request) bool {
	return rmf(r)
}

// RequestAsserter verifies a request after an expectation has been selected.
// A failed assertion reports exactly what differed, which a failed match cannot.
type RequestAsserter interface {
	Assert(*assert.Assertions, *http.Request)
}

// RequestAsserterFunc is a closure RequestAsserter.
type RequestAsserterFunc func(*assert.Assertions, *http.Request)

func (raf RequestAsserterFunc) Assert(a *assert.Assertions, r *http.Request) {
	raf(a, r)
}

// RequestChecker both matches and asserts.  Match returns true exactly when
// Assert reports no failures.
type RequestChecker interface {
	RequestMatcher
	RequestAsserter
}

// NopRequestChecker accepts every request.
type NopRequestChecker struct{}

func (NopRequestChecker) Match(*http.Request) bool { return true }

func (NopRequestChecker) Assert(*assert.Assertions, *http.Request) {}

// all is a conjunction of checkers.
type all []RequestChecker

// All combines several checkers into one that requires each of them.
func All(rcs ...RequestChecker) RequestChecker {
	return append(all{}, rcs...)
}

func (a all) Match(r *http.Request) bool {
	for _, rc := range a {
		if !rc.Match(r) {
			return false
		}
	}

	return true
}

func (a all) Assert(assert *assert.Assertions, r *http.Request) {
	for _, rc := range a {
		rc.Assert(assert, r)
	}
}

type methods []string

// Methods requires one of the given methods.  With no methods, nothing matches.
func Methods(expected ...string) RequestChecker {
	return append(methods{}, expected...)
}

func (m methods) Match(r *http.Request) bool {
	return slices.Contains(m, r.Method)
}

func (m methods) Assert(assert *assert.Assertions, r *http.Request) {
	switch len(m) {
	case 0:
		assert.Fail("No methods defined")

	case 1:
		// Equal gives a more readable failure for the common case
		assert.Equal(m[0], r.Method, "The request method did not match")

	default:
		assert.Contains([]string(m), r.Method, "The request method did not match")
	}
}

// urlPart checks one component of a request's URL.  A request without a URL
// never matches.
type urlPart struct {
	name     string
	get      func(*url.URL) string
	expected string
}

func (up urlPart) Match(r *http.Request) bool {
	return r.URL != nil && up.get(r.URL) == up.expected
}

func (up urlPart) Assert(assert *assert.Assertions, r *http.Request) {
	if assert.NotNil(r.URL, "No URL set on the request") {
		assert.Equal(up.expected, up.get(r.URL), "The request URL.%s did not match", up.name)
	}
}

// Path requires an exact URL.Path.
func Path(expected string) RequestChecker {
	return urlPart{
		name:     "Path",
		get:      func(u *url.URL) string { return u.Path },
		expected: expected,
	}
}

// Host requires an exact URL.Host, including any port.
func Host(expected string) RequestChecker {
	return urlPart{
		name:     "Host",
		get:      func(u *url.URL) string { return u.Host },
		expected: expected,
	}
}

// Scheme requires an exact URL.Scheme.
func Scheme(expected string) RequestChecker {
	return urlPart{
		name:     "Scheme",
		get:      func(u *url.URL) string { return u.Scheme },
		expected: expected,
	}
}

// sameValues tests if two lists hold the same values, in any order.
func sameValues(expected, actual []string) bool {
	if len(expected) != len(actual) {
		return false
	}

	e, a := slices.Clone(expected), slices.Clone(actual)
	slices.Sort(e)
	slices.Sort(a)
	return slices.Equal(e, a)
}

// multiValue checks a name that can carry several values, such as a header
// or a query parameter.
type multiValue struct {
	kind     string
	name     string
	get      func(*http.Request) []string
	expected []string
}

func (mv multiValue) Match(r *http.Request) bool {
	return sameValues(mv.expected, mv.get(r))
}

func (mv multiValue) Assert(assert *assert.Assertions, r *http.Request) {
	assert.ElementsMatch(mv.expected, mv.get(r), "The request %s %s did not match", mv.kind, mv.name)
}

// Header requires a header to have exactly the expected values, in any order.
// With no expected values, the header must be absent.
func Header(name string, expected ...string) RequestChecker {
	name = http.CanonicalHeaderKey(name)
	return multiValue{
		kind:     "header",
		name:     name,
		get:      func(r *http.Request) []string { return r.Header.Values(name) },
		expected: slices.Clone(expected),
	}
}

// Query requires a query parameter to have exactly the expected values, in any
// order.  With no expected values, the parameter must be absent.
func Query(name string, expected ...string) RequestChecker {
	return multiValue{
		kind: "query parameter",
		name: name,
		get: func(r *http.Request) []string {
			if r.URL == nil {
				return nil
			}

			return r.URL.Query()[name]
		},
		expected: slices.Clone(expected),
	}
}

// Body asserts that a request's body is exactly the expected text.  An empty
// Body asserts that there is no body, or that it is empty.
//
// The body is read fully and then replaced, so later asserters and the code
// under test can still read it.
type Body string

func (b Body) Assert(assert *assert.Assertions, r *http.Request) {
	if r.Body == nil {
		assert.Empty(string(b), "The request body was nil, but text was expected")
		return
	}

	actual, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(actual))
	if assert.NoError(err, "Error reading request body") {
		assert.Equal(string(b), string(actual), "The request body did not match the expected text")
	}
}
