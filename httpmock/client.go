// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httpmock

import (
	"net/http"
	"slices"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/xmidt-org/httpchain"
)

// DoMethodName is the name of the httpchain.Client.Do method.
// Used to start fluent expectation chains.
const DoMethodName = "Do"

// Call is syntactic sugar around a Do *mock.Call.  This type provides
// some higher-level and typesafe expectation behavior.
//
// First, create a *Client.  Then, use a *Client's methods to create
// instances of this type to set expectations.
type Call struct {
	*mock.Call

	// container is the Client that created this call.
	// used to access information about the enclosing test.
	container *Client

	// runFunc is the function that a client explicitly asked to be run.
	runFunc func(mock.Arguments)

	asserters []RequestAsserter
}

// newCall properly initializes a Call expectation.
func newCall(container *Client, call *mock.Call) *Call {
	c := &Call{
		container: container,
		Call:      call,
	}

	c.Call.Run(c.run)
	return c
}

// run is the mock.Run implementation that executes any request assertions.
func (c *Call) run(args mock.Arguments) {
	request, _ := args.Get(0).(*http.Request)
	c.container.applyAsserters(request, c.asserters)

	if c.runFunc != nil {
		c.runFunc(args)
	}
}

// Run establishes a run function for this mock.  This does not prevent
// any assertions from running.
func (c *Call) Run(f func(mock.Arguments)) *Call {
	c.runFunc = f
	return c
}

// Return establishes the return values for this Do invocation.
//
// If this method is not used, the Next client set on the container
// will be used to generate the return.
func (c *Call) Return(r *http.Response, err error) *Call {
	c.Call = c.Call.Return(r, err)
	return c
}

// Respond is a shorthand for returning a response with the given status code
// and an empty body.
func (c *Call) Respond(statusCode int) *Call {
	return c.Return(Response(statusCode, ""), nil)
}

// AssertRequest adds request assertions that are specific to this mocked Call.
// Multiple calls to this method are cumulative.
func (c *Call) AssertRequest(a ...RequestAsserter) *Call {
	c.asserters = append(c.asserters, a...)
	return c
}

// Client is a mocked httpchain.Client, suitable as the base executor of a
// Pipeline.  Instances should be created with NewClient or NewClientSuite.
//
// This type alters the Mock API slightly, since each instance is tied
// to a mock.TestingT instance.
type Client struct {
	mock.Mock

	// next is the delegate to which calls without a Return are forwarded
	next httpchain.Client

	t mock.TestingT

	assert    *assert.Assertions
	asserters []RequestAsserter
}

var _ httpchain.Client = (*Client)(nil)

// NewClient returns a mock httpchain.Client for the given test.
func NewClient(t mock.TestingT) *Client {
	m := new(Client)
	m.Test(t)
	return m
}

// NewClientSuite returns a mock httpchain.Client for the given suite.
func NewClientSuite(s suite.TestingSuite) *Client {
	return NewClient(s.T())
}

// Do implements httpchain.Client and is driven by the mock's expectations.
func (m *Client) Do(request *http.Request) (*http.Response, error) {
	arguments := m.Called(request)
	if len(arguments) == 0 && m.next != nil {
		return m.next.Do(request)
	}

	var (
		first, _ = arguments.Get(0).(*http.Response)
		err, _   = arguments.Get(1).(error)
	)

	return first, err
}

// Next sets a delegate for this client.  For any Calls that do not
// have an associated Return, this next instance will be used.
//
// If next is nil, http.DefaultClient is used instead.
func (m *Client) Next(next httpchain.Client) *Client {
	if next != nil {
		m.next = next
	} else {
		m.next = http.DefaultClient
	}

	return m
}

// Test changes the test instance on this mock.
func (m *Client) Test(t mock.TestingT) {
	m.Mock.Test(t)
	m.t = t
	m.assert = assert.New(t)
}

// AssertRequest adds request assertions that apply to all mocked calls created
// via this instance.
func (m *Client) AssertRequest(a ...RequestAsserter) *Client {
	m.asserters = append(m.asserters, a...)
	return m
}

// applyAsserters executes this mock's global assertions together with
// a slice of assertions defined on an individual Call expectation.
func (m *Client) applyAsserters(candidate *http.Request, local []RequestAsserter) {
	for _, a := range m.asserters {
		a.Assert(m.assert, candidate)
	}

	for _, a := range local {
		a.Assert(m.assert, candidate)
	}
}

// on starts a Do expectation for requests accepted by match.
func (m *Client) on(match func(*http.Request) bool) *Call {
	return newCall(m, m.On(DoMethodName, mock.MatchedBy(match)))
}

// OnAny expects a Do call with any request.
func (m *Client) OnAny() *Call {
	return m.on(func(*http.Request) bool { return true })
}

// OnRequest expects a Do call with exactly the given request instance.
// Interceptors that derive a new request, for example via WithContext or
// Clone, defeat this matcher; use OnMatchAll or OnMatchAny for those.
func (m *Client) OnRequest(request *http.Request) *Call {
	return m.on(func(candidate *http.Request) bool { return candidate == request })
}

// OnMatchAll expects a Do call with a request accepted by every matcher.
// With no matchers, any request matches.
func (m *Client) OnMatchAll(rms ...RequestMatcher) *Call {
	return m.on(func(candidate *http.Request) bool {
		return !slices.ContainsFunc(rms, func(rm RequestMatcher) bool { return !rm.Match(candidate) })
	})
}

// OnMatchAny expects a Do call with a request accepted by at least one matcher.
// With no matchers, nothing matches.
func (m *Client) OnMatchAny(rms ...RequestMatcher) *Call {
	return m.on(func(candidate *http.Request) bool {
		return slices.ContainsFunc(rms, func(rm RequestMatcher) bool { return rm.Match(candidate) })
	})
}

// AssertExpectations asserts that every expected call happened, reporting
// to the test given at construction or to Test.
func (m *Client) AssertExpectations() {
	m.Mock.AssertExpectations(m.t)
}
