// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package httpchain implements a client-side HTTP interception chain.

Interceptors

An Interceptor participates in two independent chains.  The creation chain
produces the outgoing *http.Request, and the execution chain decides whether
and how that request is sent.  Neither chain lets an interceptor see its
neighbors: each one receives a cursor, either a *Creation or an *Execution,
that stands for the rest of the chain.

  type auth struct {
    httpchain.PassThrough
    token string
  }

  func (a auth) Create(c *httpchain.Creation) (*http.Request, error) {
    r, err := c.Create()
    if err == nil {
      r.Header.Set("Authorization", "Bearer "+a.token)
    }

    return r, err
  }

Interceptors that do not call Execution.Next veto the request.  Nothing is
sent and Pipeline.Execute returns a nil response with a nil error:

  closed := httpchain.ExecuteFunc(func(e *httpchain.Execution) error {
    return nil // veto
  })

Ordering

Interceptors registered first run outermost.  For a chain of A, B, C the
pre-delegation code runs A, B, C, then the base Creator or Client runs, then
post-delegation code and response callbacks run C, B, A.

Composition

A Chain is an immutable list of interceptors, analogous to
https://pkg.go.dev/github.com/justinas/alice.  Chain.Then binds the chain to a
base Creator and Client, producing a Pipeline.  A Pipeline is itself a Client,
so pipelines nest.
*/
package httpchain
