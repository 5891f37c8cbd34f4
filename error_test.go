// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httpchain

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhase(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("create", PhaseCreate.String())
	assert.Equal("execute", PhaseExecute.String())
	assert.Equal("Phase(17)", Phase(17).String())
}

func TestInvalidChainUsageError(t *testing.T) {
	t.Run("Interceptor", func(t *testing.T) {
		var (
			assert = assert.New(t)
			err    = invalidUsage(3, PhaseExecute, "oops")
		)

		assert.ErrorIs(err, ErrInvalidChainUsage)
		assert.Contains(err.Error(), "[3]")
		assert.Contains(err.Error(), "execute")
		assert.Contains(err.Error(), "oops")
	})

	t.Run("Caller", func(t *testing.T) {
		var (
			assert = assert.New(t)
			err    = invalidUsage(-1, PhaseCreate, "oops")
		)

		assert.ErrorIs(err, ErrInvalidChainUsage)
		assert.NotContains(err.Error(), "[")
	})

	t.Run("Wrapped", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", invalidUsage(0, PhaseCreate, "oops"))
		assert.ErrorIs(t, err, ErrInvalidChainUsage)
	})
}

func TestInterceptorError(t *testing.T) {
	var (
		assert = assert.New(t)
		cause  = errors.New("cause")

		named   = &InterceptorError{Index: 2, Name: "auth", Phase: PhaseCreate, Err: cause}
		unnamed = &InterceptorError{Index: 0, Phase: PhaseExecute, Err: cause}
	)

	assert.Equal("create interceptor [2, auth]: cause", named.Error())
	assert.Equal("execute interceptor [0]: cause", unnamed.Error())
	assert.ErrorIs(named, cause)
	assert.Equal(cause, errors.Unwrap(named))
}

func TestVetoedError(t *testing.T) {
	t.Run("NoRequest", func(t *testing.T) {
		err := &VetoedError{}
		assert.Equal(t, ErrVetoed.Error(), err.Error())
		assert.True(t, IsVetoed(err))
	})

	t.Run("WithRequest", func(t *testing.T) {
		var (
			assert = assert.New(t)
			err    = &VetoedError{
				Request: &http.Request{
					Method: "POST",
					URL: &url.URL{
						Scheme: "http",
						Host:   "example.com",
						User:   url.UserPassword("user", "secret"),
						Path:   "/test",
					},
				},
			}
		)

		assert.True(IsVetoed(fmt.Errorf("wrapped: %w", err)))
		assert.Contains(err.Error(), "POST")
		assert.Contains(err.Error(), "example.com/test")
		assert.NotContains(err.Error(), "secret")
	})

	t.Run("Other", func(t *testing.T) {
		assert.False(t, IsVetoed(errors.New("other")))
		assert.False(t, IsVetoed(nil))
	})
}
