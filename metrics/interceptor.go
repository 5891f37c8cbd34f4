// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/xmidt-org/httpchain"
)

// Interceptor records Metrics for every request created and executed
// through it.  A nil Metrics disables recording.
type Interceptor struct {
	Metrics *Metrics

	now func() time.Time
}

var _ httpchain.Interceptor = Interceptor{}

// Name satisfies httpchain.Named.
func (i Interceptor) Name() string {
	return "metrics"
}

func (i Interceptor) clock() time.Time {
	if i.now != nil {
		return i.now()
	}

	return time.Now()
}

// Create counts request creations by outcome.
func (i Interceptor) Create(c *httpchain.Creation) (*http.Request, error) {
	request, err := c.Create()
	if i.Metrics != nil {
		outcome := OutcomeSuccess
		if err != nil {
			outcome = OutcomeError
		}

		i.Metrics.CreatedTotal.WithLabelValues(c.Method, outcome).Inc()
	}

	return request, err
}

// Execute records the outcome and duration of the rest of the chain.  Vetoed
// requests are counted but do not contribute to the duration histogram.
func (i Interceptor) Execute(e *httpchain.Execution) error {
	if i.Metrics == nil {
		return e.Next()
	}

	method := e.Request.Method
	i.Metrics.InFlight.Inc()
	defer i.Metrics.InFlight.Dec()

	start := i.clock()
	err := e.NextWith(func(response *http.Response) {
		i.Metrics.ResponsesTotal.WithLabelValues(method, strconv.Itoa(response.StatusCode)).Inc()
	})

	switch {
	case err != nil:
		i.Metrics.RequestsTotal.WithLabelValues(method, OutcomeError).Inc()
		i.Metrics.RequestDuration.WithLabelValues(method).Observe(i.clock().Sub(start).Seconds())

	case e.Response() == nil:
		i.Metrics.RequestsTotal.WithLabelValues(method, OutcomeVetoed).Inc()

	default:
		i.Metrics.RequestsTotal.WithLabelValues(method, OutcomeSuccess).Inc()
		i.Metrics.RequestDuration.WithLabelValues(method).Observe(i.clock().Sub(start).Seconds())
	}

	return err
}
