// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/xmidt-org/httpchain"
	"github.com/xmidt-org/httpchain/httpmock"
)

type InterceptorTestSuite struct {
	suite.Suite

	recorder *tracetest.SpanRecorder
	provider *sdktrace.TracerProvider
}

var _ suite.SetupTestSuite = (*InterceptorTestSuite)(nil)

func (suite *InterceptorTestSuite) SetupTest() {
	suite.recorder = tracetest.NewSpanRecorder()
	suite.provider = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(suite.recorder))
}

func (suite *InterceptorTestSuite) newInterceptor() *Interceptor {
	return New(
		WithTracerProvider(suite.provider),
		WithPropagator(propagation.TraceContext{}),
	)
}

func (suite *InterceptorTestSuite) newRequest() *http.Request {
	r, err := http.NewRequestWithContext(context.Background(), "GET", "http://example.com", nil)
	suite.Require().NoError(err)
	return r
}

func (suite *InterceptorTestSuite) attributes(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		m[kv.Key] = kv.Value
	}

	return m
}

func (suite *InterceptorTestSuite) TestExecute() {
	var (
		client   = httpmock.NewClientSuite(suite)
		original = suite.newRequest()
		sent     *http.Request
	)

	client.OnAny().Run(func(args mock.Arguments) {
		sent = args.Get(0).(*http.Request)
	}).Respond(200).Once()

	p := httpchain.NewChain(suite.newInterceptor()).ThenClient(client)
	_, err := p.Execute(original, nil) //nolint:bodyclose
	suite.Require().NoError(err)
	client.AssertExpectations()

	spans := suite.recorder.Ended()
	suite.Require().Len(spans, 1)
	suite.Equal(trace.SpanKindClient, spans[0].SpanKind())
	suite.Equal("HTTP GET", spans[0].Name())

	attrs := suite.attributes(spans[0])
	suite.Equal("GET", attrs[MethodKey].AsString())
	suite.Equal(int64(200), attrs[StatusCodeKey].AsInt64())

	suite.Require().NotNil(sent)
	suite.NotSame(original, sent)
	suite.Contains(sent.Header.Get("Traceparent"), spans[0].SpanContext().TraceID().String())
	suite.Empty(original.Header.Get("Traceparent"))
	suite.Equal(spans[0].SpanContext(), trace.SpanContextFromContext(sent.Context()))
}

func (suite *InterceptorTestSuite) TestError() {
	var (
		client      = httpmock.NewClientSuite(suite)
		expectedErr = errors.New("expected")
	)

	client.OnAny().Return(nil, expectedErr).Once()
	p := httpchain.NewChain(suite.newInterceptor()).ThenClient(client)
	_, err := p.Execute(suite.newRequest(), nil) //nolint:bodyclose
	suite.Same(expectedErr, err)

	spans := suite.recorder.Ended()
	suite.Require().Len(spans, 1)
	suite.Equal(codes.Error, spans[0].Status().Code)
	suite.Require().Len(spans[0].Events(), 1)
	client.AssertExpectations()
}

func (suite *InterceptorTestSuite) TestVetoed() {
	p := httpchain.NewChain(
		suite.newInterceptor(),
		httpchain.ExecuteFunc(func(*httpchain.Execution) error { return nil }),
	).ThenClient(httpmock.NewClientSuite(suite))

	response, err := p.Execute(suite.newRequest(), nil) //nolint:bodyclose
	suite.NoError(err)
	suite.Nil(response)

	spans := suite.recorder.Ended()
	suite.Require().Len(spans, 1)
	suite.True(suite.attributes(spans[0])[VetoedKey].AsBool())
}

func (suite *InterceptorTestSuite) TestCreate() {
	ctx, parent := suite.provider.Tracer("test").Start(context.Background(), "parent")
	defer parent.End()

	p := httpchain.NewChain(suite.newInterceptor()).Then(nil, nil)
	request, err := p.Create(ctx, "GET", "http://example.com")
	suite.Require().NoError(err)
	suite.Contains(request.Header.Get("Traceparent"), parent.SpanContext().TraceID().String())
}

func TestInterceptor(t *testing.T) {
	suite.Run(t, new(InterceptorTestSuite))
}
