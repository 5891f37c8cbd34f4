// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package roundtrip

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestFunc(t *testing.T) {
	var (
		assert   = assert.New(t)
		require  = require.New(t)
		expected = httptest.NewRequest("GET", "/", nil)

		called bool
		f      Func = func(actual *http.Request) (*http.Response, error) {
			called = true
			assert.Equal(expected, actual)
			return &http.Response{StatusCode: 211}, nil
		}
	)

	response, err := f.RoundTrip(expected)
	assert.True(called)
	assert.NoError(err)
	require.NotNil(response)
	assert.Equal(211, response.StatusCode)
}

func TestConstructor(t *testing.T) {
	var (
		assert   = assert.New(t)
		expected = &http.Transport{
			MaxResponseHeaderBytes: 1234,
		}

		called bool
		c      Constructor = func(actual http.RoundTripper) http.RoundTripper {
			called = true
			assert.Equal(expected, actual)
			return actual
		}
	)

	assert.Equal(expected, c.Then(expected))
	assert.True(called)
}

type CloseIdlerTestSuite struct {
	suite.Suite
	roundTripper *mockRoundTripper
	closeIdler   *mockRoundTripperCloseIdler
}

var _ suite.SetupTestSuite = (*CloseIdlerTestSuite)(nil)
var _ suite.TearDownTestSuite = (*CloseIdlerTestSuite)(nil)

func (suite *CloseIdlerTestSuite) SetupTest() {
	suite.roundTripper = new(mockRoundTripper)
	suite.closeIdler = new(mockRoundTripperCloseIdler)
}

func (suite *CloseIdlerTestSuite) TearDownTest() {
	suite.roundTripper.AssertExpectations(suite.T())
	suite.closeIdler.AssertExpectations(suite.T())
}

func (suite *CloseIdlerTestSuite) TestCloseIdleConnections() {
	CloseIdleConnections(suite.roundTripper)
	CloseIdleConnections(nil)

	suite.closeIdler.On("CloseIdleConnections").Once()
	CloseIdleConnections(suite.closeIdler)
}

func (suite *CloseIdlerTestSuite) TestCloseIdlerFunc() {
	var called bool
	CloseIdlerFunc(func() { called = true }).CloseIdleConnections()
	suite.True(called)
}

func (suite *CloseIdlerTestSuite) TestPreserveCloseIdler() {
	suite.Run("DecoratorHasMethod", func() {
		suite.Same(suite.closeIdler, PreserveCloseIdler(suite.roundTripper, suite.closeIdler))
	})

	suite.Run("NextHasNoMethod", func() {
		decorated := Func(suite.roundTripper.RoundTrip)
		_, ok := PreserveCloseIdler(suite.roundTripper, decorated).(CloseIdler)
		suite.False(ok)
	})

	suite.Run("NextHasMethod", func() {
		suite.closeIdler.On("CloseIdleConnections").Twice()
		preserved := PreserveCloseIdler(suite.closeIdler, Func(suite.closeIdler.RoundTrip))
		suite.Require().IsType(Decorator{}, preserved)
		CloseIdleConnections(preserved)

		// decorating a Decorator carries over the same CloseIdler
		again := PreserveCloseIdler(preserved, Func(suite.closeIdler.RoundTrip))
		suite.Require().IsType(Decorator{}, again)
		suite.Same(suite.closeIdler, again.(Decorator).CloseIdler)
		CloseIdleConnections(again)
	})
}

func TestCloseIdler(t *testing.T) {
	suite.Run(t, new(CloseIdlerTestSuite))
}
