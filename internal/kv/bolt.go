package kv

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// bucket is the single bbolt bucket all keys live in.
var bucket = []byte("bloomnet")

// BoltStore is a Store backed by a bbolt database file.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) the bbolt file at path and ensures the
// bucket exists. The open has a short timeout so a second process holding the
// file lock fails fast instead of hanging.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("kv.OpenBolt: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kv.OpenBolt: create bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Close releases the database file lock.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key, with ok=false when absent.
func (s *BoltStore) Get(key string) (string, bool, error) {
	var value string
	var ok bool
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucket).Get([]byte(key)); v != nil {
			value, ok = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("kv.BoltStore.Get: %w", err)
	}
	return value, ok, nil
}

// Set writes value under key in a single transaction.
func (s *BoltStore) Set(key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("kv.BoltStore.Set: %w", err)
	}
	return nil
}

// Remove deletes key. Deleting an absent key is a no-op.
func (s *BoltStore) Remove(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("kv.BoltStore.Remove: %w", err)
	}
	return nil
}
