// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package auth attaches OAuth2 access tokens to outgoing requests.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/xmidt-org/httpchain"
)

// Interceptor sets the Authorization header of each request from a token
// source.  Tokens are obtained at execution time, so that requests created
// long before they are sent still carry a valid token.
type Interceptor struct {
	httpchain.PassThrough

	// TokenSource supplies access tokens.  If unset, requests are passed through.
	TokenSource oauth2.TokenSource
}

var _ httpchain.Interceptor = Interceptor{}

// Name satisfies httpchain.Named.
func (i Interceptor) Name() string {
	return "auth"
}

// Execute authorizes a copy of the request and delegates.
func (i Interceptor) Execute(e *httpchain.Execution) error {
	if i.TokenSource == nil {
		return e.Next()
	}

	token, err := i.TokenSource.Token()
	if err != nil {
		return fmt.Errorf("acquire token: %w", err)
	}

	request := e.Request.Clone(e.Context())
	token.SetAuthHeader(request)
	e.Request = request
	return e.Next()
}

// Static returns a token source for a fixed bearer token.
func Static(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
}

// ClientCredentials returns a caching token source for the OAuth2 client
// credentials flow.  Token requests go through client when it is not nil.
func ClientCredentials(client *http.Client, cfg clientcredentials.Config) oauth2.TokenSource {
	ctx := context.Background()
	if client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, client)
	}

	return cfg.TokenSource(ctx)
}
