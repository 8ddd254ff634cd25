package metadata

import (
	"context"
	"time"
)

// Change is one entry of the store's change log. Value is nil when the key
// was removed.
type Change struct {
	ID     int64
	Key    string
	Value  *string
	Origin string
}

// Repository is the key/value table backing the persistent session store.
//
// Set and Delete append a Change tagged with origin in the same transaction,
// so other processes sharing the database can observe the write.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value, origin string) error
	Delete(ctx context.Context, key, origin string) error

	// LastChangeID returns the id of the newest change, or 0.
	LastChangeID(ctx context.Context) (int64, error)
	// ChangesSince lists changes with id > afterID written by anyone but
	// origin, oldest first.
	ChangesSince(ctx context.Context, afterID int64, origin string) ([]Change, error)
	// PruneChanges drops change records created before t.
	PruneChanges(ctx context.Context, before time.Time) error
}
