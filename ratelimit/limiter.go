// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter provides per-key rate limiting using a token bucket for each key.
// Keys without a configured bucket fall back to the default bucket, if any.
type Limiter struct {
	lock     sync.RWMutex
	fallback *rate.Limiter
	limiters map[string]*rate.Limiter
}

// New creates a Limiter whose default bucket allows rps requests per second
// with the given burst.  A nonpositive rps means keys without their own
// bucket are not limited.
func New(rps float64, burst int) *Limiter {
	return &Limiter{
		fallback: newBucket(rps, burst),
		limiters: make(map[string]*rate.Limiter),
	}
}

func newBucket(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}

	if burst <= 0 {
		burst = max(int(rps), 1)
	}

	return rate.NewLimiter(rate.Limit(rps), burst)
}

// Set configures rate limiting for a key.  A nonpositive rps removes
// any bucket for that key, so it uses the default bucket again.
func (l *Limiter) Set(key string, rps float64, burst int) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if b := newBucket(rps, burst); b != nil {
		l.limiters[key] = b
	} else {
		delete(l.limiters, key)
	}
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	l.lock.RLock()
	b, ok := l.limiters[key]
	l.lock.RUnlock()

	if ok {
		return b
	}

	return l.fallback
}

// Allow reports whether a request for the given key may proceed now.
func (l *Limiter) Allow(key string) bool {
	if b := l.bucket(key); b != nil {
		return b.Allow()
	}

	return true
}

// Wait blocks until a request for the given key may proceed, or until
// the context is done.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	if b := l.bucket(key); b != nil {
		return b.Wait(ctx)
	}

	return nil
}
