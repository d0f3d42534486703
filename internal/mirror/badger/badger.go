// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package badger

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/apex/log"
	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/staranto/catpreload/internal/preload"
)

const keyPrefix = "img:"

// Store mirrors preloaded images into an embedded badger database. Keys are
// namespaced by origin host the same way the disk mirror's directories are.
type Store struct {
	db *badgerdb.DB
	ns string
}

// Open opens, creating if needed, the database in dir. An empty dir opens an
// in-memory database.
func Open(dir, origin string) (*Store, error) {
	opts := badgerdb.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger mirror %s: %w", dir, err)
	}

	ns := "local"
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		ns = u.Host
	}
	return &Store{db: db, ns: ns}, nil
}

func (s *Store) key(key string) []byte {
	return []byte(keyPrefix + s.ns + "/" + key)
}

// Put implements preload.Mirror.
func (s *Store) Put(ctx context.Context, key string, img *preload.Image) error {
	b, err := preload.EncodeImage(img)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(s.key(key), b)
	})
	if err != nil {
		return fmt.Errorf("failed to mirror %s to badger: %w", key, err)
	}
	log.Debugf("mirrored %s to badger (%d bytes)", key, len(b))
	return nil
}

// Get implements preload.Mirror. A corrupt value is reported as missing and
// logged.
func (s *Store) Get(ctx context.Context, key string) (*preload.Image, bool, error) {
	var b []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(s.key(key))
		if err != nil {
			return err
		}
		b, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s from badger: %w", key, err)
	}

	img, err := preload.DecodeImage(b)
	if err != nil {
		log.WithError(err).Warnf("ignoring corrupt badger entry %s", key)
		return nil, false, nil
	}
	return img, true, nil
}

// Delete implements preload.Mirror.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(s.key(key))
	})
	if err != nil && !errors.Is(err, badgerdb.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete %s from badger: %w", key, err)
	}
	return nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ preload.Mirror = (*Store)(nil)
