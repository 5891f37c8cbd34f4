// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package cache provides RFC 7234 response caching for the base transport
// of a pipeline, with either in-memory or bbolt-backed storage.
package cache

import (
	"net/http"

	"github.com/gregjones/httpcache"
)

// Memory returns a cache that lives only as long as the process.
func Memory() httpcache.Cache {
	return httpcache.NewMemoryCache()
}

// NewTransport decorates next so that cacheable responses are served from c.
// Responses served from the cache carry the httpcache.XFromCache header.
// A nil next means http.DefaultTransport.
func NewTransport(c httpcache.Cache, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &httpcache.Transport{
		Transport:           next,
		Cache:               c,
		MarkCachedResponses: true,
	}
}
