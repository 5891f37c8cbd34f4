// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/xmidt-org/httpchain/cache"
)

// Config describes the base *http.Client that performs network I/O at the
// end of a pipeline.
type Config struct {
	// Timeout is the overall time limit of each exchange.  Zero means no limit.
	Timeout time.Duration

	// MaxRedirects limits the number of redirects followed.  If nil, the
	// net/http default of 10 applies.  A value of 0 disables redirects.
	MaxRedirects *int

	// CopyHeadersOnRedirect lists headers that are carried across redirects
	// even when net/http would drop them.
	CopyHeadersOnRedirect []string

	// Cache, if set, stores cacheable responses.  Cache hits never reach
	// Transport, but are still instrumented.
	Cache httpcache.Cache

	// Instrument wraps the transport with otelhttp, producing a span for each
	// network round trip including redirects.
	Instrument bool

	// TracerProvider is used when Instrument is set.  If nil, the global
	// provider is used.
	TracerProvider trace.TracerProvider

	// Transport is the underlying round tripper.  If nil, http.DefaultTransport
	// is used.
	Transport http.RoundTripper
}

// New creates the *http.Client described by a Config.  The result is a
// suitable base client for httpchain.Chain.Then.
func New(cfg Config) *http.Client {
	rt := cfg.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}

	if cfg.Cache != nil {
		rt = cache.NewTransport(cfg.Cache, rt)
	}

	if cfg.Instrument {
		var opts []otelhttp.Option
		if cfg.TracerProvider != nil {
			opts = append(opts, otelhttp.WithTracerProvider(cfg.TracerProvider))
		}

		rt = otelhttp.NewTransport(rt, opts...)
	}

	var maxRedirects CheckRedirect
	if cfg.MaxRedirects != nil {
		maxRedirects = MaxRedirects(*cfg.MaxRedirects)
	}

	return &http.Client{
		Transport: rt,
		Timeout:   cfg.Timeout,
		CheckRedirect: NewCheckRedirects(
			CopyHeadersOnRedirect(cfg.CopyHeadersOnRedirect...),
			maxRedirects,
		),
	}
}
