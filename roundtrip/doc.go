// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package roundtrip adapts between httpchain pipelines and http.RoundTripper.

# Pipelines as transports

NewTransport exposes a *httpchain.Pipeline as an http.RoundTripper, so that an
ordinary *http.Client runs every request through the execution chain:

	client := &http.Client{
	  Transport: roundtrip.NewTransport(
	    httpchain.NewChain(interceptors...).ThenClient(roundtrip.Client(http.DefaultTransport)),
	  ),
	}

A vetoed request surfaces from RoundTrip as a *httpchain.VetoedError.

# Round trippers as interceptors

Existing http.RoundTripper middleware, in the form of a Constructor, can take part
in an execution chain via Interceptor.

# CloseIdleConnections

When decorating http.RoundTripper, care should be taken to avoid covering up the
CloseIdleConnections method.  This method is used by the enclosing http.Client.
NewTransport accepts an optional CloseIdler for this reason, and Decorator and
PreserveCloseIdler help constructors keep the method visible.

See: https://pkg.go.dev/net/http#Client.CloseIdleConnections
*/
package roundtrip
