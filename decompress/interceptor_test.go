// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package decompress

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/xmidt-org/httpchain"
	"github.com/xmidt-org/httpchain/httpmock"
)

type InterceptorTestSuite struct {
	suite.Suite
}

func (suite *InterceptorTestSuite) newRequest() *http.Request {
	r, err := http.NewRequestWithContext(context.Background(), "GET", "http://example.com", nil)
	suite.Require().NoError(err)
	return r
}

func (suite *InterceptorTestSuite) TestCreate() {
	suite.Run("Default", func() {
		p := httpchain.NewChain(Interceptor{}).Then(nil, nil)
		request, err := p.Create(context.Background(), "GET", "http://example.com")
		suite.Require().NoError(err)
		suite.Equal("br, zstd, gzip, deflate", request.Header.Get("Accept-Encoding"))
	})

	suite.Run("Custom", func() {
		p := httpchain.NewChain(Interceptor{Encodings: []string{Gzip}}).Then(nil, nil)
		request, err := p.Create(context.Background(), "GET", "http://example.com")
		suite.Require().NoError(err)
		suite.Equal("gzip", request.Header.Get("Accept-Encoding"))
	})

	suite.Run("Existing", func() {
		p := httpchain.NewChain(Interceptor{}).Then(
			httpchain.CreatorFunc(func(ctx context.Context, method string, u *url.URL) (*http.Request, error) {
				r, err := httpchain.DefaultCreator.NewRequest(ctx, method, u)
				if err == nil {
					r.Header.Set("Accept-Encoding", "identity")
				}

				return r, err
			}),
			nil,
		)

		request, err := p.Create(context.Background(), "GET", "http://example.com")
		suite.Require().NoError(err)
		suite.Equal("identity", request.Header.Get("Accept-Encoding"))
	})
}

func (suite *InterceptorTestSuite) TestExecute() {
	var (
		client   = httpmock.NewClientSuite(suite)
		observed string
	)

	client.OnAny().Return(
		&http.Response{
			StatusCode:    200,
			Header:        http.Header{"Content-Encoding": {"br"}, "Content-Length": {"10"}},
			ContentLength: 10,
			Body:          io.NopCloser(bytes.NewReader(compress(suite.T(), "expected", Brotli))),
		},
		nil,
	).Once()

	p := httpchain.NewChain(
		httpchain.ExecuteFunc(func(e *httpchain.Execution) error {
			return e.NextWith(func(r *http.Response) {
				b, err := io.ReadAll(r.Body)
				suite.NoError(err)
				observed = string(b)
			})
		}),
		Interceptor{},
	).ThenClient(client)

	response, err := p.Execute(suite.newRequest(), nil)
	suite.Require().NoError(err)
	suite.Require().NotNil(response)
	defer httpchain.Cleanup(response)

	suite.Equal("expected", observed)
	suite.Empty(response.Header.Get("Content-Encoding"))
	suite.Empty(response.Header.Get("Content-Length"))
	suite.Equal(int64(-1), response.ContentLength)
	suite.True(response.Uncompressed)
	client.AssertExpectations()
}

func (suite *InterceptorTestSuite) TestPassThrough() {
	client := httpmock.NewClientSuite(suite)
	client.OnAny().Respond(204).Once()

	p := httpchain.NewChain(Interceptor{}).ThenClient(client)
	response, err := p.Execute(suite.newRequest(), nil)
	suite.Require().NoError(err)
	suite.Require().NotNil(response)
	defer httpchain.Cleanup(response)

	suite.False(response.Uncompressed)
	client.AssertExpectations()
}

func (suite *InterceptorTestSuite) TestUnsupported() {
	client := httpmock.NewClientSuite(suite)
	client.OnAny().Return(
		&http.Response{
			StatusCode: 200,
			Header:     http.Header{"Content-Encoding": {"compress"}},
			Body:       io.NopCloser(bytes.NewReader([]byte("data"))),
		},
		nil,
	).Once()

	p := httpchain.NewChain(Interceptor{}).ThenClient(client)
	response, err := p.Execute(suite.newRequest(), nil) //nolint:bodyclose
	suite.Nil(response)

	var uee *UnsupportedEncodingError
	suite.ErrorAs(err, &uee)
	client.AssertExpectations()
}

func TestInterceptor(t *testing.T) {
	suite.Run(t, new(InterceptorTestSuite))
}
