// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package roundtrip

import (
	"net/http"

	"github.com/xmidt-org/httpchain"
)

// Client adapts an http.RoundTripper into the base client of a pipeline.
// A nil round tripper means http.DefaultTransport.
//
// The returned client also implements CloseIdler, delegating to rt.
func Client(rt http.RoundTripper) httpchain.Client {
	if rt == nil {
		rt = http.DefaultTransport
	}

	return transportClient{rt: rt}
}

type transportClient struct {
	rt http.RoundTripper
}

func (tc transportClient) Do(request *http.Request) (*http.Response, error) {
	return tc.rt.RoundTrip(request)
}

func (tc transportClient) CloseIdleConnections() {
	CloseIdleConnections(tc.rt)
}

// NewTransport exposes a pipeline's execution chain as an http.RoundTripper.
// A vetoed request returns a *httpchain.VetoedError.
//
// The returned round tripper always has a CloseIdleConnections method.  It
// delegates to closeIdlers, if any are supplied.
func NewTransport(p *httpchain.Pipeline, closeIdlers ...CloseIdler) http.RoundTripper {
	return Decorator{
		RoundTripper: Func(p.Do),
		CloseIdler: CloseIdlerFunc(func() {
			for _, ci := range closeIdlers {
				ci.CloseIdleConnections()
			}
		}),
	}
}
