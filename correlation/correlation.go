// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package correlation

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/xmidt-org/httpchain"
)

const (
	// DefaultHeader is the header used when no header name is configured.
	DefaultHeader = "X-Request-Id"

	// HeaderCorrelationID is a common alternative carrying the same identifier.
	HeaderCorrelationID = "X-Correlation-Id"

	// HeaderTraceparent is the W3C trace context header.  Its trace id is
	// reused when no explicit identifier is present.
	HeaderTraceparent = "Traceparent"
)

// Source describes where an ID came from.
type Source string

const (
	SourceContext     Source = "context"
	SourceHeader      Source = "header"
	SourceTraceparent Source = "traceparent"
	SourceGenerated   Source = "generated"
)

// ID is a correlation identifier together with where it was found.
type ID struct {
	Value  string
	Source Source
}

type contextKey struct{}

// WithID returns a context carrying the given identifier.  Requests created
// with this context reuse it rather than generating a new one.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identifier previously stored with WithID.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && len(id) > 0
}

// extractTraceID parses W3C traceparent format: version-traceid-parentid-flags
func extractTraceID(traceparent string) string {
	parts := strings.Split(traceparent, "-")
	if len(parts) >= 2 && len(parts[1]) == 32 {
		return parts[1]
	}

	return ""
}

// Extract returns the correlation ID for a request, or generates one.
// Priority: context > name header > X-Correlation-Id > traceparent > new UUID.
func Extract(ctx context.Context, name string, h http.Header) ID {
	if id, ok := FromContext(ctx); ok {
		return ID{Value: id, Source: SourceContext}
	}

	for _, n := range []string{name, HeaderCorrelationID} {
		if id := h.Get(n); len(id) > 0 {
			return ID{Value: id, Source: SourceHeader}
		}
	}

	if traceID := extractTraceID(h.Get(HeaderTraceparent)); len(traceID) > 0 {
		return ID{Value: traceID, Source: SourceTraceparent}
	}

	return ID{Value: uuid.NewString(), Source: SourceGenerated}
}

// Interceptor ensures that every created request carries a correlation header.
// Execution is passed through.
type Interceptor struct {
	httpchain.PassThrough

	// Header is the name of the correlation header.  DefaultHeader is used if unset.
	Header string

	// OnID is an optional callback that receives the identifier assigned to
	// each request.
	OnID func(*http.Request, ID)
}

var _ httpchain.Interceptor = Interceptor{}

// Name satisfies httpchain.Named.
func (i Interceptor) Name() string {
	return "correlation"
}

func (i Interceptor) headerName() string {
	if len(i.Header) > 0 {
		return i.Header
	}

	return DefaultHeader
}

// Create sets the correlation header on the request produced by the rest of
// the chain.  An existing header value is preserved.
func (i Interceptor) Create(c *httpchain.Creation) (*http.Request, error) {
	request, err := c.Create()
	if err != nil {
		return nil, err
	}

	if request.Header == nil {
		request.Header = make(http.Header)
	}

	name := i.headerName()
	id := Extract(c.Context(), name, request.Header)
	request.Header.Set(name, id.Value)
	if i.OnID != nil {
		i.OnID(request, id)
	}

	return request, nil
}
