// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package gate

import (
	"net/http"

	"github.com/xmidt-org/httpchain"
)

// Interceptor controls access to the rest of an execution chain based upon
// a gate status.  Creation is passed through.
type Interceptor struct {
	httpchain.PassThrough

	// Gate is the Status that indicates whether a gate allows traffic.  If this field
	// is unset, this interceptor always delegates.
	Gate Status

	// Fail controls what happens when the gate is closed.  By default, the request
	// is vetoed.  If this field is true, a *ClosedError is returned instead.
	Fail bool

	// OnVeto is an optional callback invoked with each request that the closed
	// gate stopped.
	OnVeto func(*http.Request)
}

var _ httpchain.Interceptor = Interceptor{}

// Name satisfies httpchain.Named.
func (i Interceptor) Name() string {
	return "gate"
}

// Execute delegates only when the gate is open.
func (i Interceptor) Execute(e *httpchain.Execution) error {
	if i.Gate == nil || i.Gate.IsOpen() {
		return e.Next()
	}

	if i.OnVeto != nil {
		i.OnVeto(e.Request)
	}

	if i.Fail {
		return &ClosedError{Gate: i.Gate, Request: e.Request}
	}

	return nil
}
