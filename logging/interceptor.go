// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xmidt-org/httpchain"
)

// Field names used in log entries.
const (
	MethodKey   = "method"
	URLKey      = "url"
	StatusKey   = "status"
	DurationKey = "duration"
)

// Interceptor writes a structured log entry for every request created and
// executed through it.
type Interceptor struct {
	// Logger is the destination of log entries.  If unset, the logrus
	// standard logger is used.
	Logger logrus.FieldLogger

	// Headers is an optional list of request headers to add as fields,
	// for example a correlation header.
	Headers []string

	now func() time.Time
}

var _ httpchain.Interceptor = Interceptor{}

// Name satisfies httpchain.Named.
func (i Interceptor) Name() string {
	return "logging"
}

func (i Interceptor) logger() logrus.FieldLogger {
	if i.Logger != nil {
		return i.Logger
	}

	return logrus.StandardLogger()
}

func (i Interceptor) since(start time.Time) time.Duration {
	if i.now != nil {
		return i.now().Sub(start)
	}

	return time.Since(start)
}

func (i Interceptor) start() time.Time {
	if i.now != nil {
		return i.now()
	}

	return time.Now()
}

func (i Interceptor) fields(r *http.Request) logrus.Fields {
	f := logrus.Fields{
		MethodKey: r.Method,
	}

	if r.URL != nil {
		f[URLKey] = r.URL.Redacted()
	}

	for _, name := range i.Headers {
		if v := r.Header.Get(name); len(v) > 0 {
			f[name] = v
		}
	}

	return f
}

// Create logs the outcome of request creation at debug level, or the error.
func (i Interceptor) Create(c *httpchain.Creation) (*http.Request, error) {
	request, err := c.Create()
	if err != nil {
		entry := i.logger().WithField(MethodKey, c.Method)
		if c.URL != nil {
			entry = entry.WithField(URLKey, c.URL.Redacted())
		}

		entry.WithError(err).Error("request creation failed")

		return nil, err
	}

	i.logger().WithFields(i.fields(request)).Debug("request created")
	return request, nil
}

// Execute logs the outcome of executing the rest of the chain.  A veto is
// logged at info level.
func (i Interceptor) Execute(e *httpchain.Execution) error {
	var (
		start = i.start()
		err   = e.Next()
		entry = i.logger().WithFields(i.fields(e.Request)).WithField(DurationKey, i.since(start))
	)

	switch response := e.Response(); {
	case err != nil:
		entry.WithError(err).Error("request failed")

	case response == nil:
		entry.Info("request vetoed")

	default:
		entry.WithField(StatusKey, response.StatusCode).Info("request executed")
	}

	return err
}
