// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package busy

import (
	"net/http"

	"github.com/xmidt-org/httpchain"
)

// Interceptor vetoes requests that would exceed a Limiter.  A request counts
// against the limit until the rest of the execution chain returns.
type Interceptor struct {
	httpchain.PassThrough

	// Limiter is the concurrent request limiting strategy.  If this field is unset,
	// then no limiting is done.
	Limiter Limiter

	// OnVeto is an optional callback invoked with each rejected request.
	OnVeto func(*http.Request)
}

var _ httpchain.Interceptor = Interceptor{}

// Name satisfies httpchain.Named.
func (i Interceptor) Name() string {
	return "busy"
}

// Execute delegates if the Limiter allows it, and vetoes otherwise.
func (i Interceptor) Execute(e *httpchain.Execution) error {
	if i.Limiter == nil {
		return e.Next()
	}

	done, ok := i.Limiter.Check(e.Request)
	if !ok {
		if i.OnVeto != nil {
			i.OnVeto(e.Request)
		}

		return nil
	}

	defer done()
	return e.Next()
}
