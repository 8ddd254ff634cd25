// Package storage is the client's persistent key/value store.
//
// Two strategies exist. SQLiteStore keeps values in a local SQLite file that
// every client process on the machine shares, and publishes each write to a
// change log so other processes can follow along (see Watch). MemoryStore is
// a process-local map used when the file store cannot be opened; it is lost
// on exit and invisible to other processes.
//
// Open picks the strategy once; callers only see the Store interface.
package storage

import (
	"context"
	"time"
)

// Event reports a write made by another client process. Value is nil when
// the key was removed.
type Event struct {
	Key   string
	Value *string
}

// Store is a string key/value store. Failures are absorbed by the
// implementation: Get reports a missing key and Set degrades to memory.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	// Set stores value under key; a nil value removes the key.
	Set(ctx context.Context, key string, value *string)
	// Watch streams writes made by other processes, polling every interval.
	// The channel is closed when ctx ends.
	Watch(ctx context.Context, interval time.Duration) <-chan Event
	// Persistent reports whether values survive the process.
	Persistent() bool
	Close() error
}
