// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"net/http"

	"github.com/xmidt-org/httpchain"
)

// Interceptor vetoes any request that does not satisfy its Predicate.
// Creation is passed through.
type Interceptor struct {
	httpchain.PassThrough

	// Predicate decides which requests may proceed.  If unset, all requests proceed.
	Predicate *Predicate

	// OnVeto is an optional callback invoked with each rejected request.
	OnVeto func(*http.Request)
}

var _ httpchain.Interceptor = Interceptor{}

// Name satisfies httpchain.Named.
func (i Interceptor) Name() string {
	return "filter"
}

// Execute delegates only when the predicate holds.  Evaluation errors are returned.
func (i Interceptor) Execute(e *httpchain.Execution) error {
	if i.Predicate == nil {
		return e.Next()
	}

	ok, err := i.Predicate.Match(e.Request)
	switch {
	case err != nil:
		return err

	case !ok:
		if i.OnVeto != nil {
			i.OnVeto(e.Request)
		}

		return nil

	default:
		return e.Next()
	}
}
