// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package header

import (
	"net/http"

	"github.com/xmidt-org/httpchain"
)

// Func returns an interceptor that uses a closure to modify the header of
// each created request.  Both Header.SetTo and Header.AddTo can be used as
// this closure.  Execution is passed through.
func Func(hf func(http.Header)) httpchain.Interceptor {
	return httpchain.Funcs{
		ID: "header",
		OnCreate: func(c *httpchain.Creation) (*http.Request, error) {
			request, err := c.Create()
			if err == nil {
				if request.Header == nil {
					request.Header = make(http.Header)
				}

				hf(request.Header)
			}

			return request, err
		},
	}
}

// Set returns an interceptor that overwrites the given headers on every
// created request.  If h is empty, the returned interceptor passes through.
func Set(h Header) httpchain.Interceptor {
	if h.Len() == 0 {
		return httpchain.PassThrough{}
	}

	return Func(h.SetTo)
}

// Add returns an interceptor that appends the given header values to every
// created request.  If h is empty, the returned interceptor passes through.
func Add(h Header) httpchain.Interceptor {
	if h.Len() == 0 {
		return httpchain.PassThrough{}
	}

	return Func(h.AddTo)
}
