// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/sirupsen/logrus"
	"go.etcd.io/bbolt"
)

var bucketName = []byte("responses")

// Bolt is an httpcache.Cache that persists responses in a bbolt database,
// so that they survive restarts.
type Bolt struct {
	db     *bbolt.DB
	logger logrus.FieldLogger
}

var _ httpcache.Cache = (*Bolt)(nil)

// OpenBolt opens, creating if necessary, the database file at path.
// Storage errors are reported to logger, since httpcache.Cache cannot
// return them.  A nil logger means the logrus standard logger.
func OpenBolt(path string, logger logrus.FieldLogger) (*Bolt, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})

	if err != nil {
		db.Close()
		return nil, err
	}

	return &Bolt{
		db:     db,
		logger: logger.WithField("cache", path),
	}, nil
}

// Get returns a copy of the cached response bytes for key.
func (b *Bolt) Get(key string) (value []byte, ok bool) {
	err := b.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(bucketName).Get([]byte(key)); v != nil {
			// v is only valid for the life of the transaction
			value = append([]byte{}, v...)
			ok = true
		}

		return nil
	})

	if err != nil {
		b.logger.WithError(err).Error("unable to read cached response")
	}

	return
}

// Set stores the response bytes for key.
func (b *Bolt) Set(key string, value []byte) {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), value)
	})

	if err != nil {
		b.logger.WithError(err).Error("unable to cache response")
	}
}

// Delete removes key.
func (b *Bolt) Delete(key string) {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})

	if err != nil {
		b.logger.WithError(err).Error("unable to delete cached response")
	}
}

// Close closes the underlying database.
func (b *Bolt) Close() error {
	return b.db.Close()
}
