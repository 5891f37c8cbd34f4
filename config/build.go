// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"io"
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/xmidt-org/httpchain"
	"github.com/xmidt-org/httpchain/auth"
	"github.com/xmidt-org/httpchain/busy"
	"github.com/xmidt-org/httpchain/cache"
	"github.com/xmidt-org/httpchain/correlation"
	"github.com/xmidt-org/httpchain/decompress"
	"github.com/xmidt-org/httpchain/filter"
	"github.com/xmidt-org/httpchain/gate"
	"github.com/xmidt-org/httpchain/header"
	"github.com/xmidt-org/httpchain/logging"
	"github.com/xmidt-org/httpchain/metrics"
	"github.com/xmidt-org/httpchain/ratelimit"
	"github.com/xmidt-org/httpchain/recovery"
	"github.com/xmidt-org/httpchain/roundtrip"
	"github.com/xmidt-org/httpchain/tracing"
	"github.com/xmidt-org/httpchain/transport"
)

// Dependencies are the externally supplied components used by Build.
// Every field is optional.
type Dependencies struct {
	// Logger receives log output.  If unset, a new logrus logger at the
	// configured level is used.
	Logger logrus.FieldLogger

	// Registerer receives metrics.  If unset, prometheus.DefaultRegisterer is used.
	Registerer prometheus.Registerer

	// TracerProvider creates spans.  If unset, the global provider is used.
	TracerProvider trace.TracerProvider

	// Propagator injects trace context into requests.  If unset, the global
	// propagator is used.
	Propagator propagation.TextMapPropagator

	// Transport is the round tripper of the base client.  If unset,
	// http.DefaultTransport is used.
	Transport http.RoundTripper
}

// Built holds everything assembled by Build.
type Built struct {
	Chain    httpchain.Chain
	Client   *http.Client
	Pipeline *httpchain.Pipeline

	// Gate is the gate consulted by the pipeline.  It is nil unless the
	// gate is enabled.
	Gate gate.Interface

	Logger logrus.FieldLogger

	closers []io.Closer
}

// Close releases any resources, such as a cache database, opened by Build.
func (b Built) Close() error {
	var errs []error
	for _, c := range b.closers {
		errs = append(errs, c.Close())
	}

	return errors.Join(errs...)
}

// Transport exposes the pipeline as an http.RoundTripper, for code that
// needs an *http.Client.  Requests sent through it still pass through every
// interceptor, and a veto is reported as a *httpchain.VetoedError.
func (b Built) Transport() http.RoundTripper {
	return roundtrip.NewTransport(b.Pipeline, b.Client)
}

// Build assembles the interceptors described by cfg, in this order:
// recovery, correlation, header, logging, metrics, tracing, filter, gate,
// busy (global, then per host), ratelimit, auth, decompress.  The base
// client is created by transport.New, and is also used to obtain OAuth2
// tokens.
//
// The caller must Close the result when done with it.
func Build(cfg Config, deps Dependencies) (Built, error) {
	if err := cfg.Validate(); err != nil {
		return Built{}, err
	}

	logger, err := newLogger(cfg.Logging, deps.Logger)
	if err != nil {
		return Built{}, err
	}

	var (
		b = Built{Logger: logger}

		interceptors []httpchain.Interceptor
	)

	var responses httpcache.Cache
	if cfg.Transport.Cache.Enabled {
		if len(cfg.Transport.Cache.Path) > 0 {
			db, err := cache.OpenBolt(cfg.Transport.Cache.Path, logger)
			if err != nil {
				return Built{}, err
			}

			responses = db
			b.closers = append(b.closers, db)
		} else {
			responses = cache.Memory()
		}
	}

	b.Client = transport.New(transport.Config{
		Timeout:               cfg.Transport.Timeout,
		MaxRedirects:          cfg.Transport.MaxRedirects,
		CopyHeadersOnRedirect: cfg.Transport.CopyHeadersOnRedirect,
		Instrument:            cfg.Transport.Instrument,
		Cache:                 responses,
		TracerProvider:        deps.TracerProvider,
		Transport:             deps.Transport,
	})

	onVeto := func(name string) func(*http.Request) {
		return func(r *http.Request) {
			logger.WithFields(logrus.Fields{
				"interceptor": name,
				"method":      r.Method,
				"host":        r.URL.Host,
			}).Debug("request vetoed by interceptor")
		}
	}

	if cfg.Recovery.Enabled {
		var opts []recovery.Option
		if cfg.Recovery.StatusCode > 0 {
			opts = append(opts, recovery.WithStatusCode(cfg.Recovery.StatusCode))
		}

		opts = append(opts, recovery.WithOnRecover(func(r interface{}, _ []byte) {
			logger.WithField("panic", r).Error("recovered from panic")
		}))

		interceptors = append(interceptors, recovery.New(opts...))
	}

	if cfg.Correlation.Enabled {
		interceptors = append(interceptors, correlation.Interceptor{
			Header: cfg.Correlation.Header,
		})
	}

	if h := header.FromMap(cfg.Headers.Set); h.Len() > 0 {
		interceptors = append(interceptors, header.Set(h))
	}

	if h := header.FromMap(cfg.Headers.Add); h.Len() > 0 {
		interceptors = append(interceptors, header.Add(h))
	}

	if cfg.Logging.Enabled {
		headers := cfg.Logging.Headers
		if cfg.Correlation.Enabled {
			name := cfg.Correlation.Header
			if len(name) == 0 {
				name = correlation.DefaultHeader
			}

			headers = append(append([]string{}, headers...), name)
		}

		interceptors = append(interceptors, logging.Interceptor{
			Logger:  logger,
			Headers: headers,
		})
	}

	if cfg.Metrics.Enabled {
		reg := deps.Registerer
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}

		m, err := metrics.NewMetrics(reg, cfg.Metrics.Namespace)
		if err != nil {
			b.Close() //nolint:errcheck
			return Built{}, err
		}

		interceptors = append(interceptors, metrics.Interceptor{Metrics: m})
	}

	if cfg.Tracing.Enabled {
		var opts []tracing.Option
		if deps.TracerProvider != nil {
			opts = append(opts, tracing.WithTracerProvider(deps.TracerProvider))
		}

		if deps.Propagator != nil {
			opts = append(opts, tracing.WithPropagator(deps.Propagator))
		}

		interceptors = append(interceptors, tracing.New(opts...))
	}

	if len(cfg.Filter.Expression) > 0 {
		p, err := filter.Compile(cfg.Filter.Expression)
		if err != nil {
			b.Close() //nolint:errcheck
			return Built{}, err
		}

		interceptors = append(interceptors, filter.Interceptor{
			Predicate: p,
			OnVeto:    onVeto("filter"),
		})
	}

	if cfg.Gate.Enabled {
		b.Gate = gate.New(gate.Config{
			Name:            cfg.Gate.Name,
			InitiallyClosed: cfg.Gate.Closed,
		})

		interceptors = append(interceptors, gate.Interceptor{
			Gate:   b.Gate,
			Fail:   cfg.Gate.Fail,
			OnVeto: onVeto("gate"),
		})
	}

	if cfg.Busy.MaxRequests > 0 {
		interceptors = append(interceptors, busy.Interceptor{
			Limiter: &busy.MaxRequestLimiter{MaxRequests: cfg.Busy.MaxRequests},
			OnVeto:  onVeto("busy"),
		})
	}

	if cfg.Busy.MaxPerHost > 0 {
		interceptors = append(interceptors, busy.Interceptor{
			Limiter: &busy.HostLimiter{MaxPerHost: cfg.Busy.MaxPerHost},
			OnVeto:  onVeto("busy"),
		})
	}

	if cfg.RateLimit.Enabled() {
		l := ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		for host, hl := range cfg.RateLimit.Hosts {
			l.Set(host, hl.RPS, hl.Burst)
		}

		interceptors = append(interceptors, ratelimit.Interceptor{
			Limiter: l,
			Wait:    cfg.RateLimit.Wait,
			OnVeto:  onVeto("ratelimit"),
		})
	}

	switch {
	case len(cfg.Auth.Token) > 0:
		interceptors = append(interceptors, auth.Interceptor{
			TokenSource: auth.Static(cfg.Auth.Token),
		})

	case len(cfg.Auth.TokenURL) > 0:
		interceptors = append(interceptors, auth.Interceptor{
			TokenSource: auth.ClientCredentials(b.Client, clientcredentials.Config{
				ClientID:     cfg.Auth.ClientID,
				ClientSecret: cfg.Auth.ClientSecret,
				TokenURL:     cfg.Auth.TokenURL,
				Scopes:       cfg.Auth.Scopes,
			}),
		})
	}

	if cfg.Decompress.Enabled {
		interceptors = append(interceptors, decompress.Interceptor{
			Encodings: cfg.Decompress.Encodings,
		})
	}

	b.Chain = httpchain.NewChain(interceptors...)
	b.Pipeline = b.Chain.Then(nil, b.Client)
	return b, nil
}

func newLogger(cfg Logging, l logrus.FieldLogger) (logrus.FieldLogger, error) {
	if l != nil {
		return l, nil
	}

	logger := logrus.New()
	if len(cfg.Level) > 0 {
		level, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}

		logger.SetLevel(level)
	}

	return logger, nil
}
