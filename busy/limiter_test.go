// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package busy

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMaxRequestLimiterUnlimited(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		limiter MaxRequestLimiter
	)

	// the request can be nil, as this limiter doesn't use it
	first, ok := limiter.Check(nil)
	require.NotNil(first)
	assert.True(ok)

	second, ok := limiter.Check(nil)
	require.NotNil(second)
	assert.True(ok)
	assert.Zero(limiter.InFlight())

	first()
	second()
}

func testMaxRequestLimiterLimited(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		limiter = MaxRequestLimiter{
			MaxRequests: 1,
		}
	)

	first, ok := limiter.Check(nil)
	require.NotNil(first)
	assert.True(ok)
	assert.Equal(int64(1), limiter.InFlight())

	second, ok := limiter.Check(nil)
	require.NotNil(second)
	assert.False(ok)
	assert.Equal(int64(1), limiter.InFlight())

	// second should be a nop
	second()
	assert.Equal(int64(1), limiter.InFlight())

	first()
	assert.Zero(limiter.InFlight())

	// releasing twice must not free a second slot
	first()
	assert.Zero(limiter.InFlight())

	third, ok := limiter.Check(nil)
	require.NotNil(third)
	assert.True(ok)
	third()
}

func TestMaxRequestLimiter(t *testing.T) {
	t.Run("Unlimited", testMaxRequestLimiterUnlimited)
	t.Run("Limited", testMaxRequestLimiterLimited)
}

func newHostRequest(t *testing.T, host string) *http.Request {
	r, err := http.NewRequest("GET", "http://"+host+"/", nil)
	require.NoError(t, err)
	return r
}

func TestHostLimiter(t *testing.T) {
	t.Run("Unlimited", func(t *testing.T) {
		var limiter HostLimiter
		done, ok := limiter.Check(newHostRequest(t, "a.com"))
		assert.True(t, ok)
		assert.Zero(t, limiter.InFlight("a.com"))
		done()
	})

	t.Run("Limited", func(t *testing.T) {
		var (
			assert  = assert.New(t)
			limiter = HostLimiter{MaxPerHost: 1}
		)

		first, ok := limiter.Check(newHostRequest(t, "a.com"))
		assert.True(ok)
		assert.Equal(int64(1), limiter.InFlight("a.com"))

		_, ok = limiter.Check(newHostRequest(t, "a.com"))
		assert.False(ok)

		// other hosts are independent
		other, ok := limiter.Check(newHostRequest(t, "b.com"))
		assert.True(ok)
		assert.Equal(int64(1), limiter.InFlight("b.com"))

		first()
		first()
		assert.Zero(limiter.InFlight("a.com"))
		assert.Equal(int64(1), limiter.InFlight("b.com"))

		again, ok := limiter.Check(newHostRequest(t, "a.com"))
		assert.True(ok)

		again()
		other()
		assert.Zero(limiter.InFlight("a.com"))
		assert.Zero(limiter.InFlight("b.com"))
	})
}
