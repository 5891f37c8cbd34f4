// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBolt(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		path      = filepath.Join(t.TempDir(), "nested", "cache.db")
		logger, _ = logtest.NewNullLogger()
	)

	b, err := OpenBolt(path, logger)
	require.NoError(err)

	_, ok := b.Get("key")
	assert.False(ok)

	b.Set("key", []byte("value"))
	v, ok := b.Get("key")
	assert.True(ok)
	assert.Equal("value", string(v))
	require.NoError(b.Close())

	// entries survive reopening
	b, err = OpenBolt(path, nil)
	require.NoError(err)
	defer b.Close()

	v, ok = b.Get("key")
	assert.True(ok)
	assert.Equal("value", string(v))

	b.Delete("key")
	_, ok = b.Get("key")
	assert.False(ok)
}

func TestOpenBoltError(t *testing.T) {
	// a directory cannot be opened as a database file
	_, err := OpenBolt(t.TempDir(), nil)
	assert.Error(t, err)
}
