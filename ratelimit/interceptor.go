// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ratelimit

import (
	"net/http"

	"github.com/xmidt-org/httpchain"
)

// KeyFunc extracts the rate limiting key from a request.
type KeyFunc func(*http.Request) string

// ByHost is the default KeyFunc.  It keys requests by URL host.
func ByHost(r *http.Request) string {
	if r.URL != nil {
		return r.URL.Host
	}

	return r.Host
}

// Interceptor vetoes requests for which the Limiter has no token available.
// Creation is passed through.
type Interceptor struct {
	httpchain.PassThrough

	// Limiter is the required rate limiter.  If unset, no limiting is done.
	Limiter *Limiter

	// Key extracts the key for each request.  ByHost is used if unset.
	Key KeyFunc

	// Wait switches from vetoing to blocking until a token is available.
	// In that case, a context cancellation is returned as an error.
	Wait bool

	// OnVeto is an optional callback invoked with each rejected request.
	OnVeto func(*http.Request)
}

var _ httpchain.Interceptor = Interceptor{}

// Name satisfies httpchain.Named.
func (i Interceptor) Name() string {
	return "ratelimit"
}

// Execute delegates when the request's bucket has a token.
func (i Interceptor) Execute(e *httpchain.Execution) error {
	if i.Limiter == nil {
		return e.Next()
	}

	key := ByHost
	if i.Key != nil {
		key = i.Key
	}

	k := key(e.Request)
	if i.Wait {
		if err := i.Limiter.Wait(e.Context(), k); err != nil {
			return err
		}

		return e.Next()
	}

	if !i.Limiter.Allow(k) {
		if i.OnVeto != nil {
			i.OnVeto(e.Request)
		}

		return nil
	}

	return e.Next()
}
