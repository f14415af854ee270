// Package kv defines the persistent key-value collaborator the donation
// store writes through, plus the two drivers the app uses: a bbolt-backed
// file store for production and an in-memory store for tests.
//
// The contract is deliberately tiny — get, set, remove on string keys —
// so any persistent store can satisfy it.
package kv

// Store is the persistence contract.
// Get reports ok=false when the key is absent; absence is not an error.
// Set may fail when the underlying store is out of space; callers treat
// that as recoverable.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}
