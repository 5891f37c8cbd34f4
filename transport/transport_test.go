// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/xmidt-org/httpchain"
	"github.com/xmidt-org/httpchain/cache"
)

type TransportTestSuite struct {
	suite.Suite
	mock *httpmock.MockTransport
}

var _ suite.SetupTestSuite = (*TransportTestSuite)(nil)

func (suite *TransportTestSuite) SetupTest() {
	suite.mock = httpmock.NewMockTransport()
}

func (suite *TransportTestSuite) redirect(location string) httpmock.Responder {
	return func(*http.Request) (*http.Response, error) {
		r := httpmock.NewStringResponse(http.StatusFound, "")
		r.Header.Set("Location", location)
		return r, nil
	}
}

func (suite *TransportTestSuite) send(client *http.Client, rawURL string) (*http.Response, error) {
	p := httpchain.NewChain().ThenClient(client)
	return p.Send(context.Background(), "GET", rawURL, nil)
}

func (suite *TransportTestSuite) TestDefaults() {
	client := New(Config{})
	suite.Equal(http.DefaultTransport, client.Transport)
	suite.Nil(client.CheckRedirect)
	suite.Zero(client.Timeout)
}

func (suite *TransportTestSuite) TestSimple() {
	suite.mock.RegisterResponder("GET", "http://example.com/test", httpmock.NewStringResponder(200, "ok"))

	response, err := suite.send(New(Config{Transport: suite.mock}), "http://example.com/test")
	suite.Require().NoError(err)
	defer httpchain.Cleanup(response)

	suite.Equal(200, response.StatusCode)
	suite.Equal(1, suite.mock.GetTotalCallCount())
}

func (suite *TransportTestSuite) TestMaxRedirects() {
	suite.mock.RegisterResponder("GET", "http://example.com/a", suite.redirect("http://example.com/b"))
	suite.mock.RegisterResponder("GET", "http://example.com/b", suite.redirect("http://example.com/c"))
	suite.mock.RegisterResponder("GET", "http://example.com/c", httpmock.NewStringResponder(200, "ok"))

	suite.Run("Allowed", func() {
		limit := 3
		response, err := suite.send(New(Config{Transport: suite.mock, MaxRedirects: &limit}), "http://example.com/a")
		suite.Require().NoError(err)
		defer httpchain.Cleanup(response)
		suite.Equal(200, response.StatusCode)
	})

	suite.Run("Exceeded", func() {
		limit := 1
		response, err := suite.send(New(Config{Transport: suite.mock, MaxRedirects: &limit}), "http://example.com/a")
		httpchain.Cleanup(response)
		suite.ErrorContains(err, "stopped after 1 redirects")
	})
}

func (suite *TransportTestSuite) TestCopyHeadersOnRedirect() {
	var forwarded string
	suite.mock.RegisterResponder("GET", "http://first.com/", suite.redirect("http://second.com/"))
	suite.mock.RegisterResponder("GET", "http://second.com/", func(r *http.Request) (*http.Response, error) {
		forwarded = r.Header.Get("Authorization")
		return httpmock.NewStringResponse(200, "ok"), nil
	})

	client := New(Config{Transport: suite.mock, CopyHeadersOnRedirect: []string{"Authorization"}})
	request, err := http.NewRequestWithContext(context.Background(), "GET", "http://first.com/", nil)
	suite.Require().NoError(err)
	request.Header.Set("Authorization", "Bearer token")

	response, err := httpchain.NewChain().ThenClient(client).Do(request)
	suite.Require().NoError(err)
	defer httpchain.Cleanup(response)
	suite.Equal("Bearer token", forwarded)
}

func (suite *TransportTestSuite) TestInstrument() {
	var (
		recorder = tracetest.NewSpanRecorder()
		provider = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
		client   = New(Config{
			Transport:      suite.mock,
			Instrument:     true,
			TracerProvider: provider,
		})
	)

	suite.mock.RegisterResponder("GET", "http://example.com/", httpmock.NewStringResponder(200, "ok"))
	response, err := suite.send(client, "http://example.com/")
	suite.Require().NoError(err)
	httpchain.Cleanup(response)

	suite.Len(recorder.Ended(), 1)
}

func (suite *TransportTestSuite) TestCache() {
	suite.mock.RegisterResponder("GET", "http://example.com/", func(*http.Request) (*http.Response, error) {
		r := httpmock.NewStringResponse(200, "ok")
		r.Proto, r.ProtoMajor, r.ProtoMinor = "HTTP/1.1", 1, 1
		r.Header.Set("Cache-Control", "max-age=60")
		r.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))
		return r, nil
	})

	client := New(Config{
		Transport: suite.mock,
		Cache:     cache.Memory(),
	})

	for n := 0; n < 2; n++ {
		response, err := suite.send(client, "http://example.com/")
		suite.Require().NoError(err)

		// Cleanup reads to EOF, which is when the response is stored
		httpchain.Cleanup(response)
	}

	suite.Equal(1, suite.mock.GetTotalCallCount())
}

func TestTransport(t *testing.T) {
	suite.Run(t, new(TransportTestSuite))
}
