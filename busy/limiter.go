// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package busy

import (
	"net/http"
	"sync"
	"sync/atomic"
)

// RequestDone releases the slot taken by an allowed request.  It must be
// invoked exactly once.
type RequestDone func()

// NopRequestDone is the RequestDone for requests that took no slot.
func NopRequestDone() {}

// Limiter constrains the number of concurrent outgoing requests.
type Limiter interface {
	// Check reports whether a request may proceed.  When it may, the returned
	// RequestDone is non-nil and must be invoked once the request completes.
	// Otherwise the RequestDone must be ignored.
	Check(*http.Request) (RequestDone, bool)
}

// MaxRequestLimiter limits the total number of requests in flight.
type MaxRequestLimiter struct {
	// MaxRequests is the limit.  A nonpositive value allows everything.
	MaxRequests int64

	counter atomic.Int64
}

var _ Limiter = (*MaxRequestLimiter)(nil)

// InFlight returns the number of requests allowed but not yet done.
func (mrl *MaxRequestLimiter) InFlight() int64 {
	return mrl.counter.Load()
}

func (mrl *MaxRequestLimiter) Check(*http.Request) (RequestDone, bool) {
	if mrl.MaxRequests < 1 {
		return NopRequestDone, true
	}

	if mrl.counter.Add(1) > mrl.MaxRequests {
		mrl.counter.Add(-1)
		return NopRequestDone, false
	}

	var once sync.Once
	return func() {
		once.Do(func() { mrl.counter.Add(-1) })
	}, true
}

// HostLimiter limits the number of requests in flight to each URL host,
// independently of other hosts.
type HostLimiter struct {
	// MaxPerHost is the per-host limit.  A nonpositive value allows everything.
	MaxPerHost int64

	lock     sync.Mutex
	inFlight map[string]int64
}

var _ Limiter = (*HostLimiter)(nil)

// InFlight returns the number of requests to host allowed but not yet done.
func (hl *HostLimiter) InFlight(host string) int64 {
	hl.lock.Lock()
	defer hl.lock.Unlock()
	return hl.inFlight[host]
}

func (hl *HostLimiter) Check(r *http.Request) (RequestDone, bool) {
	if hl.MaxPerHost < 1 || r.URL == nil {
		return NopRequestDone, true
	}

	host := r.URL.Host
	hl.lock.Lock()
	defer hl.lock.Unlock()

	if hl.inFlight[host] >= hl.MaxPerHost {
		return NopRequestDone, false
	}

	if hl.inFlight == nil {
		hl.inFlight = make(map[string]int64)
	}

	hl.inFlight[host]++

	var once sync.Once
	return func() {
		once.Do(func() { hl.release(host) })
	}, true
}

func (hl *HostLimiter) release(host string) {
	hl.lock.Lock()
	defer hl.lock.Unlock()

	// drop idle hosts so the map only holds hosts with traffic
	if hl.inFlight[host]--; hl.inFlight[host] <= 0 {
		delete(hl.inFlight, host)
	}
}
