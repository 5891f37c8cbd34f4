// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Label names.
const (
	MethodLabel  = "method"
	CodeLabel    = "code"
	OutcomeLabel = "outcome"
)

// Outcomes of request creation or execution.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeVetoed  = "vetoed"
)

// DefaultNamespace is used when no namespace is supplied to NewMetrics.
const DefaultNamespace = "httpchain"

// Metrics holds the client request metrics recorded by an Interceptor.
type Metrics struct {
	CreatedTotal    *prometheus.CounterVec
	RequestsTotal   *prometheus.CounterVec
	ResponsesTotal  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge
}

// register adds c to reg.  If an equivalent collector is already registered,
// that collector is returned instead so that several pipelines can share it.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}

	return c, err
}

// NewMetrics registers and returns client request metrics.  A nil Registerer
// means prometheus.DefaultRegisterer.
//
// Metrics already registered under the same names and labels are reused.  Any
// other registration failure, such as a conflicting label set, is returned.
func NewMetrics(reg prometheus.Registerer, namespace string) (m *Metrics, err error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	if len(namespace) == 0 {
		namespace = DefaultNamespace
	}

	m = new(Metrics)
	m.CreatedTotal, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total requests created, by outcome.",
	}, []string{MethodLabel, OutcomeLabel}))

	if err == nil {
		m.RequestsTotal, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total requests executed, by outcome.",
		}, []string{MethodLabel, OutcomeLabel}))
	}

	if err == nil {
		m.ResponsesTotal, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Total responses received, by status code.",
		}, []string{MethodLabel, CodeLabel}))
	}

	if err == nil {
		m.RequestDuration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Request execution duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{MethodLabel}))
	}

	if err == nil {
		m.InFlight, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "in_flight",
			Help:      "Requests currently executing.",
		}))
	}

	if err != nil {
		return nil, err
	}

	return m, nil
}
