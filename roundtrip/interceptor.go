// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package roundtrip

import (
	"errors"
	"net/http"

	"github.com/xmidt-org/httpchain"
)

// ErrResponseReplaced indicates that round tripper middleware returned a
// different response than the one produced by the rest of the chain.
var ErrResponseReplaced = errors.New("round tripper replaced the response of the execution chain")

// Interceptor adapts round tripper middleware into an execution interceptor.
// Creation is passed through.
//
// The decorated round tripper receives a next http.RoundTripper that continues
// the execution chain.  A veto further down the chain appears to the middleware
// as a *httpchain.VetoedError, and is restored to a veto afterward.  Middleware
// that answers without calling next supplies the response for the chain.
func Interceptor(c Constructor) httpchain.Interceptor {
	return httpchain.Funcs{
		ID: "roundtrip",
		OnExecute: func(e *httpchain.Execution) error {
			rt := c(Func(func(request *http.Request) (*http.Response, error) {
				e.Request = request
				if err := e.Next(); err != nil {
					return nil, err
				}

				if e.Response() == nil {
					return nil, &httpchain.VetoedError{Request: request}
				}

				return e.Response(), nil
			}))

			response, err := rt.RoundTrip(e.Request)
			switch {
			case errors.Is(err, httpchain.ErrVetoed) && e.Response() == nil:
				return nil

			case err != nil:
				return err

			case response == nil || response == e.Response():
				return nil

			case e.Response() == nil:
				return e.Respond(response)

			default:
				httpchain.Cleanup(response)
				return ErrResponseReplaced
			}
		},
	}
}
