// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httpmock

import (
	"context"
	"net/http"
	"net/url"

	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/httpchain"
)

// NewRequestMethodName is the name of the httpchain.Creator.NewRequest method.
const NewRequestMethodName = "NewRequest"

// Creator is a mocked httpchain.Creator.  Expectations that do not specify
// a Return delegate to httpchain.DefaultCreator, so tests can simply count
// or constrain base creations.
type Creator struct {
	mock.Mock
	t mock.TestingT
}

var _ httpchain.Creator = (*Creator)(nil)

// NewCreator returns a mock httpchain.Creator for the given test.
func NewCreator(t mock.TestingT) *Creator {
	m := new(Creator)
	m.Test(t)
	return m
}

// Test changes the test instance on this mock.
func (m *Creator) Test(t mock.TestingT) {
	m.Mock.Test(t)
	m.t = t
}

// NewRequest implements httpchain.Creator and is driven by the mock's expectations.
func (m *Creator) NewRequest(ctx context.Context, method string, u *url.URL) (*http.Request, error) {
	arguments := m.Called(method, u.String())
	if len(arguments) == 0 {
		return httpchain.DefaultCreator.NewRequest(ctx, method, u)
	}

	var (
		first, _ = arguments.Get(0).(*http.Request)
		err, _   = arguments.Get(1).(error)
	)

	return first, err
}

// OnAny starts an expectation that matches any creation.
func (m *Creator) OnAny() *mock.Call {
	return m.On(NewRequestMethodName, mock.Anything, mock.Anything)
}

// OnNewRequest starts an expectation for an exact method and URL.
func (m *Creator) OnNewRequest(method, rawURL string) *mock.Call {
	return m.On(NewRequestMethodName, method, rawURL)
}

// AssertExpectations uses the TestingT instance set at construction or with Test
// to assert all the calls have been executed.
func (m *Creator) AssertExpectations() {
	m.Mock.AssertExpectations(m.t)
}
