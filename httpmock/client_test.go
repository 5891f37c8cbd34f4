// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httpmock

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/xmidt-org/httpchain"
)

type ClientTestSuite struct {
	suite.Suite
}

func (suite *ClientTestSuite) newRequest() *http.Request {
	return &http.Request{
		Method: "POST",
		URL: &url.URL{
			Host: "example.com",
			Path: "/test",
		},
		Header: http.Header{
			"Single-Value": {"value1"},
			"Multi-Value":  {"value2", "value3"},
		},
	}
}

func (suite *ClientTestSuite) TestSuite() {
	var (
		client      = NewClientSuite(suite)
		expected    = new(http.Response)
		expectedErr = errors.New("expected")
	)

	client.OnAny().Return(expected, expectedErr).Once()
	actual, actualErr := client.Do(new(http.Request)) //nolint:bodyclose
	suite.True(expected == actual)
	suite.True(expectedErr == actualErr)

	client.AssertExpectations()
}

func (suite *ClientTestSuite) TestMockRequestAssertions() {
	suite.Run("Pass", func() {
		var (
			testingT = wrapTestingT(suite.T())
			client   = NewClient(testingT)
		)

		client.AssertRequest(
			Methods("GET", "POST"),
			Path("/test"),
			Host("example.com"),
			Header("Single-Value", "value1"),
			Header("Multi-Value", "value2", "value3"),
		).OnAny().Respond(299)

		actual, actualErr := client.Do(suite.newRequest())
		suite.NoError(actualErr)
		suite.Require().NotNil(actual)
		suite.Equal(299, actual.StatusCode)

		suite.Zero(testingT.Errors)
		suite.Zero(testingT.Failures)
		client.AssertExpectations()
	})

	suite.Run("Fail", func() {
		var (
			testingT = wrapTestingT(suite.T())
			client   = NewClient(testingT)
		)

		client.AssertRequest(Methods("PATCH")).OnAny().Respond(299)
		client.Do(suite.newRequest()) //nolint:errcheck,bodyclose

		suite.Equal(1, testingT.Errors)
		suite.Zero(testingT.Failures)
	})
}

func (suite *ClientTestSuite) TestCallRequestAssertions() {
	suite.Run("Pass", func() {
		var (
			testingT = wrapTestingT(suite.T())
			client   = NewClient(testingT)
			ran      bool
		)

		client.OnAny().
			AssertRequest(
				Methods("POST"),
				Header("Single-Value", "value1"),
			).
			Run(func(mock.Arguments) { ran = true }).
			Respond(200)

		client.Do(suite.newRequest()) //nolint:errcheck,bodyclose
		suite.True(ran)
		suite.Zero(testingT.Errors)
		client.AssertExpectations()
	})

	suite.Run("Fail", func() {
		var (
			testingT = wrapTestingT(suite.T())
			client   = NewClient(testingT)
		)

		client.OnAny().AssertRequest(Path("/other")).Respond(200)
		client.Do(suite.newRequest()) //nolint:errcheck,bodyclose
		suite.Equal(1, testingT.Errors)
	})
}

func (suite *ClientTestSuite) TestOnRequest() {
	suite.Run("Pass", func() {
		var (
			testingT = wrapTestingT(suite.T())
			client   = NewClient(testingT)
			request  = new(http.Request)
			expected = new(http.Response)
		)

		client.OnRequest(request).Return(expected, nil)
		actual, _ := client.Do(request) //nolint:bodyclose
		suite.True(expected == actual)
		suite.Zero(testingT.Errors)
		client.AssertExpectations()
	})

	suite.Run("Fail", func() {
		var (
			testingT = wrapTestingT(suite.T())
			client   = NewClient(testingT)
		)

		client.OnRequest(new(http.Request)).Respond(200)
		suite.Panics(func() {
			client.Do(new(http.Request)) //nolint:errcheck,bodyclose
		})

		suite.Equal(1, testingT.Errors)
		suite.Equal(1, testingT.Failures)
	})
}

func (suite *ClientTestSuite) TestOnMatch() {
	suite.Run("All", func() {
		client := NewClientSuite(suite)
		client.OnMatchAll(Methods("POST"), Path("/test")).Respond(201).Once()

		actual, err := client.Do(suite.newRequest())
		suite.NoError(err)
		suite.Require().NotNil(actual)
		suite.Equal(201, actual.StatusCode)
		client.AssertExpectations()
	})

	suite.Run("Any", func() {
		client := NewClientSuite(suite)
		client.OnMatchAny(
			Methods("GET"),
			RequestMatcherFunc(func(r *http.Request) bool { return r.URL.Path == "/test" }),
		).Respond(202).Once()

		actual, err := client.Do(suite.newRequest())
		suite.NoError(err)
		suite.Require().NotNil(actual)
		suite.Equal(202, actual.StatusCode)
		client.AssertExpectations()
	})
}

func (suite *ClientTestSuite) TestNext() {
	var (
		expected = new(http.Response)
		client   = NewClientSuite(suite).Next(
			httpchain.ClientFunc(func(*http.Request) (*http.Response, error) {
				return expected, nil
			}),
		)
	)

	client.OnAny().Once()
	actual, err := client.Do(new(http.Request)) //nolint:bodyclose
	suite.NoError(err)
	suite.True(expected == actual)
	client.AssertExpectations()

	suite.Equal(http.DefaultClient, NewClientSuite(suite).Next(nil).next)
}

func TestClient(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}
