// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package gate

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
)

const (
	openText   = "open"
	closedText = "closed"
)

// Status is the read-only view of a gate consulted by an Interceptor.
// Implementations must be safe for concurrent use.
type Status interface {
	// Name identifies the gate in logs and in ClosedError.  It may be empty.
	Name() string

	// IsOpen reports whether requests may pass.
	IsOpen() bool
}

// Control changes a gate's state.  Both methods are idempotent and report
// whether they changed anything.
type Control interface {
	Open() bool
	Close() bool
}

// Interface is a complete gate, as returned by New.
type Interface interface {
	Status
	Control
}

// ClosedError is returned by an Interceptor configured to fail, rather than
// veto, when its gate is closed.
type ClosedError struct {
	// Gate is the gate that was closed.  It may have opened since.
	Gate Status

	// Request is the request that was stopped, if known.
	Request *http.Request
}

func (ce *ClosedError) Error() string {
	if ce.Request == nil || ce.Request.URL == nil {
		return fmt.Sprintf("gate [%s] closed", ce.Gate.Name())
	}

	return fmt.Sprintf("gate [%s] closed: %s %s", ce.Gate.Name(), ce.Request.Method, ce.Request.URL.Redacted())
}

// Callbacks are notified of gate state changes.
type Callbacks []func(Status)

// On invokes each callback in order.
func (cb Callbacks) On(s Status) {
	for _, f := range cb {
		f(s)
	}
}

// Config describes a gate to create.
type Config struct {
	Name string

	// InitiallyClosed creates the gate closed.  Gates are open by default.
	InitiallyClosed bool

	// OnOpen callbacks run on every transition to open, and from New when
	// the gate starts open.
	OnOpen Callbacks

	// OnClosed callbacks run on every transition to closed, and from New when
	// the gate starts closed.
	OnClosed Callbacks
}

type gate struct {
	name      string
	closed    atomic.Bool
	callbacks [2]Callbacks // indexed by the closed state entered

	// serializes transitions so that callbacks observe them in order
	lock sync.Mutex
}

func callbackIndex(closed bool) int {
	if closed {
		return 1
	}

	return 0
}

// New creates a gate in the state given by Config.InitiallyClosed, and
// notifies the callbacks for that state.
func New(c Config) Interface {
	g := &gate{
		name: c.Name,
		callbacks: [2]Callbacks{
			append(Callbacks{}, c.OnOpen...),
			append(Callbacks{}, c.OnClosed...),
		},
	}

	g.closed.Store(c.InitiallyClosed)
	g.callbacks[callbackIndex(c.InitiallyClosed)].On(g)
	return g
}

func (g *gate) Name() string {
	return g.name
}

func (g *gate) String() string {
	state := openText
	if !g.IsOpen() {
		state = closedText
	}

	return fmt.Sprintf("gate[%s]: %s", g.name, state)
}

func (g *gate) IsOpen() bool {
	return !g.closed.Load()
}

func (g *gate) Open() bool {
	return g.transition(false)
}

func (g *gate) Close() bool {
	return g.transition(true)
}

// transition moves the gate into the given closed state, running that state's
// callbacks only if the state actually changed.
func (g *gate) transition(closed bool) bool {
	if g.closed.Load() == closed {
		return false
	}

	g.lock.Lock()
	defer g.lock.Unlock()

	if !g.closed.CompareAndSwap(!closed, closed) {
		return false
	}

	g.callbacks[callbackIndex(closed)].On(g)
	return true
}
