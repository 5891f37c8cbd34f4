// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/xmidt-org/httpchain"
)

// InstrumentationName is the name of the tracer obtained from the TracerProvider.
const InstrumentationName = "github.com/xmidt-org/httpchain/tracing"

// Span attribute keys.
const (
	MethodKey     = attribute.Key("http.request.method")
	URLKey        = attribute.Key("url.full")
	StatusCodeKey = attribute.Key("http.response.status_code")
	VetoedKey     = attribute.Key("httpchain.vetoed")
)

// Interceptor starts a client span around the rest of the execution chain and
// propagates the trace context in request headers.
type Interceptor struct {
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

var _ httpchain.Interceptor = (*Interceptor)(nil)

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithTracerProvider sets the TracerProvider.  The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(i *Interceptor) {
		if tp != nil {
			i.tracer = tp.Tracer(InstrumentationName)
		}
	}
}

// WithPropagator sets the propagator.  The global propagator is used by default.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(i *Interceptor) {
		if p != nil {
			i.propagator = p
		}
	}
}

// New creates a tracing Interceptor.
func New(opts ...Option) *Interceptor {
	i := &Interceptor{
		tracer:     otel.GetTracerProvider().Tracer(InstrumentationName),
		propagator: otel.GetTextMapPropagator(),
	}

	for _, o := range opts {
		o(i)
	}

	return i
}

// Name satisfies httpchain.Named.
func (i *Interceptor) Name() string {
	return "tracing"
}

// Create injects the trace context of the creation context, if any, into
// the request headers.
func (i *Interceptor) Create(c *httpchain.Creation) (*http.Request, error) {
	request, err := c.Create()
	if err != nil {
		return nil, err
	}

	if request.Header == nil {
		request.Header = make(http.Header)
	}

	i.propagator.Inject(c.Context(), propagation.HeaderCarrier(request.Header))
	return request, nil
}

// Execute wraps the rest of the chain in a client span.  The request passed
// down the chain carries the span's context and headers.
func (i *Interceptor) Execute(e *httpchain.Execution) error {
	ctx, span := i.tracer.Start(
		e.Context(),
		"HTTP "+e.Request.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			MethodKey.String(e.Request.Method),
			URLKey.String(e.Request.URL.Redacted()),
		),
	)

	defer span.End()

	request := e.Request.WithContext(ctx)
	request.Header = e.Request.Header.Clone()
	if request.Header == nil {
		request.Header = make(http.Header)
	}

	i.propagator.Inject(ctx, propagation.HeaderCarrier(request.Header))
	e.Request = request

	err := e.NextWith(func(response *http.Response) {
		span.SetAttributes(StatusCodeKey.Int(response.StatusCode))
		if response.StatusCode >= 500 {
			span.SetStatus(codes.Error, http.StatusText(response.StatusCode))
		}
	})

	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

	case e.Response() == nil:
		span.SetAttributes(VetoedKey.Bool(true))
	}

	return err
}
