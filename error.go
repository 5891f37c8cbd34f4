// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httpchain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Phase identifies which chain an interceptor was participating in.
type Phase int

const (
	// PhaseCreate is the request creation chain.
	PhaseCreate Phase = iota

	// PhaseExecute is the request execution chain.
	PhaseExecute
)

// String returns a human-readable name for this Phase.
func (p Phase) String() string {
	switch p {
	case PhaseCreate:
		return "create"

	case PhaseExecute:
		return "execute"

	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

var (
	// ErrInvalidChainUsage is the sentinel matched by errors.Is for any
	// *InvalidChainUsageError.
	ErrInvalidChainUsage = errors.New("invalid chain usage")

	// ErrVetoed is the sentinel matched by errors.Is for any *VetoedError.
	ErrVetoed = errors.New("request vetoed")
)

// InvalidChainUsageError indicates a programming error in an interceptor, such
// as invoking the next link more than once or supplying a nil continuation.
type InvalidChainUsageError struct {
	// Index is the 0-based position of the offending interceptor.  This
	// will be negative if the error was caused by the caller of a Pipeline.
	Index int

	// Phase is the chain in which the misuse occurred.
	Phase Phase

	// Reason describes the misuse.
	Reason string
}

// Error satisfies the error interface.
func (e *InvalidChainUsageError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid chain usage during %s: %s", e.Phase, e.Reason)
	}

	return fmt.Sprintf("invalid chain usage during %s by interceptor [%d]: %s", e.Phase, e.Index, e.Reason)
}

// Is allows errors.Is(err, ErrInvalidChainUsage) to match this error.
func (e *InvalidChainUsageError) Is(target error) bool {
	return target == ErrInvalidChainUsage
}

// InterceptorError carries diagnostic context for an error that originated
// in an interceptor.  Errors raised by the base creator or base executor are
// never wrapped with this type.  The original error is always available via
// errors.Is, errors.As, or Unwrap.
type InterceptorError struct {
	// Index is the 0-based position of the interceptor that returned Err.
	Index int

	// Name is the interceptor's name.  See the Name function.
	Name string

	// Phase is the chain in which Err was returned.
	Phase Phase

	// Err is the error exactly as returned by the interceptor.
	Err error
}

// Unwrap produces the original error.
func (e *InterceptorError) Unwrap() error {
	return e.Err
}

// Error satisfies the error interface.
func (e *InterceptorError) Error() string {
	var o strings.Builder
	o.WriteString(e.Phase.String())
	o.WriteString(" interceptor [")
	fmt.Fprintf(&o, "%d", e.Index)
	if len(e.Name) > 0 {
		o.WriteString(", ")
		o.WriteString(e.Name)
	}

	o.WriteString("]: ")
	o.WriteString(e.Err.Error())
	return o.String()
}

// VetoedError is returned by Pipeline.Do when no response was produced because
// an interceptor declined to execute the request.  Pipeline.Execute never
// returns this error, since a veto is a valid outcome rather than a fault.
type VetoedError struct {
	// Request is the request that was not sent.
	Request *http.Request
}

// Error satisfies the error interface.
func (e *VetoedError) Error() string {
	if e.Request == nil || e.Request.URL == nil {
		return ErrVetoed.Error()
	}

	return fmt.Sprintf("%s: %s %s", ErrVetoed, e.Request.Method, e.Request.URL.Redacted())
}

// Is allows errors.Is(err, ErrVetoed) to match this error.
func (e *VetoedError) Is(target error) bool {
	return target == ErrVetoed
}

// IsVetoed tests if err indicates a vetoed request.
func IsVetoed(err error) bool {
	return errors.Is(err, ErrVetoed)
}

func invalidUsage(index int, phase Phase, reason string) error {
	return &InvalidChainUsageError{
		Index:  index,
		Phase:  phase,
		Reason: reason,
	}
}
