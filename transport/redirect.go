// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"fmt"
	"net/http"
)

// CheckRedirect is the type expected by http.Client.CheckRedirect.
//
// Closures of this type can be chained together via NewCheckRedirects.
type CheckRedirect func(*http.Request, []*http.Request) error

// CopyHeadersOnRedirect copies the named headers from the most recent
// request into the next request.  If no names are supplied, this
// function returns nil so that the default behavior will take over.
//
// net/http already forwards most headers on redirect.  This is for headers
// it drops, such as Authorization when the redirect leaves the original domain.
func CopyHeadersOnRedirect(names ...string) CheckRedirect {
	if len(names) == 0 {
		return nil
	}

	canonical := make([]string, len(names))
	for i, n := range names {
		canonical[i] = http.CanonicalHeaderKey(n)
	}

	return func(request *http.Request, via []*http.Request) error {
		previous := via[len(via)-1]
		for _, n := range canonical {
			if values := previous.Header[n]; len(values) > 0 {
				request.Header[n] = values
			}
		}

		return nil
	}
}

// MaxRedirects returns a CheckRedirect that returns an error once a
// maximum number of redirects has been reached.  If max is 0 or negative,
// then no redirects are allowed.
func MaxRedirects(max int) CheckRedirect {
	max = maxInt(max, 0)

	// this error text mimics the one used in net/http
	err := fmt.Errorf("stopped after %d redirects", max)
	return func(_ *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return err
		}

		return nil
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}

// NewCheckRedirects produces a CheckRedirect that is the logical AND
// of the given strategies.  The returned function halts at the first
// failing check and returns its error.
//
// Nil checks are skipped.  Since a nil http.Client.CheckRedirect selects
// the net/http default, this function returns nil when there are no
// non-nil checks.
func NewCheckRedirects(checks ...CheckRedirect) CheckRedirect {
	var nonNil []CheckRedirect
	for _, c := range checks {
		if c != nil {
			nonNil = append(nonNil, c)
		}
	}

	switch len(nonNil) {
	case 0:
		return nil

	case 1:
		return nonNil[0]

	default:
		return func(request *http.Request, via []*http.Request) error {
			for _, c := range nonNil {
				if err := c(request, via); err != nil {
					return err
				}
			}

			return nil
		}
	}
}
