// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/sirupsen/logrus"

	"github.com/xmidt-org/httpchain/decompress"
	"github.com/xmidt-org/httpchain/filter"
)

// Config is the complete configuration of a pipeline: its base client and
// every optional interceptor.  The yaml tags are also the viper keys.
type Config struct {
	Transport   Transport   `yaml:"transport"`
	Recovery    Recovery    `yaml:"recovery"`
	Correlation Correlation `yaml:"correlation"`
	Headers     Headers     `yaml:"headers"`
	Logging     Logging     `yaml:"logging"`
	Metrics     Metrics     `yaml:"metrics"`
	Tracing     Tracing     `yaml:"tracing"`
	Filter      Filter      `yaml:"filter"`
	Gate        Gate        `yaml:"gate"`
	Busy        Busy        `yaml:"busy"`
	RateLimit   RateLimit   `yaml:"rate_limit"`
	Auth        Auth        `yaml:"auth"`
	Decompress  Decompress  `yaml:"decompress"`
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Transport),
		validation.Field(&c.Recovery),
		validation.Field(&c.Logging),
		validation.Field(&c.Metrics),
		validation.Field(&c.Filter),
		validation.Field(&c.Busy),
		validation.Field(&c.RateLimit),
		validation.Field(&c.Auth),
		validation.Field(&c.Decompress),
	)
}

// Default returns the configuration used for any value not explicitly set.
func Default() Config {
	return Config{
		Transport: Transport{
			Timeout: 30 * time.Second,
		},
		Recovery: Recovery{
			Enabled: true,
		},
		Correlation: Correlation{
			Enabled: true,
		},
		Logging: Logging{
			Enabled: true,
			Level:   logrus.InfoLevel.String(),
		},
		Decompress: Decompress{
			Enabled: true,
		},
	}
}

type Transport struct {
	Timeout               time.Duration `yaml:"timeout"`
	MaxRedirects          *int          `yaml:"max_redirects,omitempty"`
	CopyHeadersOnRedirect []string      `yaml:"copy_headers_on_redirect"`
	Instrument            bool          `yaml:"instrument"`
	Cache                 Cache         `yaml:"cache"`
}

// Cache configures response caching in the base transport.  Responses are
// kept in memory unless Path names a database file.
type Cache struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

func (t Transport) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&t.MaxRedirects, validation.Min(0)),
	)
}

type Recovery struct {
	Enabled    bool `yaml:"enabled"`
	StatusCode int  `yaml:"status_code"`
}

func (r Recovery) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StatusCode, validation.When(r.StatusCode != 0, validation.Min(100), validation.Max(599))),
	)
}

type Correlation struct {
	Enabled bool   `yaml:"enabled"`
	Header  string `yaml:"header"`
}

type Headers struct {
	Set map[string]string `yaml:"set"`
	Add map[string]string `yaml:"add"`
}

type Logging struct {
	Enabled bool     `yaml:"enabled"`
	Level   string   `yaml:"level"`
	Headers []string `yaml:"headers"`
}

func (l Logging) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.When(l.Enabled,
			validation.Required,
			validation.In("trace", "debug", "info", "warning", "warn", "error"),
		)),
	)
}

var metricNamespace = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type Metrics struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

func (m Metrics) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Namespace, validation.Match(metricNamespace)),
	)
}

type Tracing struct {
	Enabled bool `yaml:"enabled"`
}

type Filter struct {
	// Expression is a CEL predicate.  Requests for which it is false are vetoed.
	Expression string `yaml:"expression"`
}

func (f Filter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Expression, validation.By(func(interface{}) error {
			if len(f.Expression) == 0 {
				return nil
			}

			_, err := filter.Compile(f.Expression)
			return err
		})),
	)
}

type Gate struct {
	Enabled bool   `yaml:"enabled"`
	Name    string `yaml:"name"`
	Closed  bool   `yaml:"closed"`
	Fail    bool   `yaml:"fail"`
}

// Busy limits requests in flight, in total and per host.  Zero means no limit.
type Busy struct {
	MaxRequests int64 `yaml:"max_requests"`
	MaxPerHost  int64 `yaml:"max_per_host"`
}

func (b Busy) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.MaxRequests, validation.Min(int64(0))),
		validation.Field(&b.MaxPerHost, validation.Min(int64(0))),
	)
}

type HostLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

func (h HostLimit) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.RPS, validation.Min(0.0)),
		validation.Field(&h.Burst, validation.Min(0)),
	)
}

type RateLimit struct {
	RPS   float64              `yaml:"rps"`
	Burst int                  `yaml:"burst"`
	Wait  bool                 `yaml:"wait"`
	Hosts map[string]HostLimit `yaml:"hosts"`
}

// Enabled tests if any rate limit is configured.
func (r RateLimit) Enabled() bool {
	return r.RPS > 0 || len(r.Hosts) > 0
}

func (r RateLimit) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RPS, validation.Min(0.0)),
		validation.Field(&r.Burst, validation.Min(0)),
		validation.Field(&r.Hosts),
	)
}

// Auth configures OAuth2 bearer tokens.  Token is a fixed access token.
// Otherwise, if TokenURL is set, tokens are obtained with the client
// credentials flow.
type Auth struct {
	Token        string   `yaml:"token"`
	TokenURL     string   `yaml:"token_url"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Scopes       []string `yaml:"scopes"`
}

// Enabled tests if requests should be authorized.
func (a Auth) Enabled() bool {
	return len(a.Token) > 0 || len(a.TokenURL) > 0
}

func (a Auth) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.TokenURL,
			validation.When(len(a.Token) > 0, validation.Empty.Error("must be blank when token is set")),
			is.URL,
		),
		validation.Field(&a.ClientID, validation.When(len(a.TokenURL) > 0, validation.Required)),
	)
}

var errUnsupportedEncoding = errors.New("unsupported content encoding")

type Decompress struct {
	Enabled   bool     `yaml:"enabled"`
	Encodings []string `yaml:"encodings"`
}

func (d Decompress) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Encodings, validation.Each(validation.By(func(v interface{}) error {
			if s, _ := v.(string); !decompress.Supported(s) {
				return errUnsupportedEncoding
			}

			return nil
		}))),
	)
}
