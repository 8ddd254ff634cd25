package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/myjournal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/myjournal/internal/logging"
)

// SQLiteStore keeps values in the metadata table of a local SQLite file.
//
// Each instance has a random origin id; writes are tagged with it so Watch
// can skip the instance's own changes. When the database fails at runtime
// the store keeps working from an in-process map.
type SQLiteStore struct {
	db       *sql.DB
	repo     metadata.Repository
	origin   string
	fallback *MemoryStore
	log      logging.Logger
}

func NewSQLiteStore(db *sql.DB, repo metadata.Repository, origin string, log logging.Logger) *SQLiteStore {
	return &SQLiteStore{
		db:       db,
		repo:     repo,
		origin:   origin,
		fallback: NewMemoryStore(),
		log:      log.With("origin", origin),
	}
}

// Origin is the id this instance tags its writes with.
func (s *SQLiteStore) Origin() string {
	return s.origin
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.repo.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "store read failed, using in-memory value", "key", key, "error", err)
		return s.fallback.Get(ctx, key)
	}
	return v, ok
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value *string) {
	var err error
	if value == nil {
		err = s.repo.Delete(ctx, key, s.origin)
	} else {
		err = s.repo.Set(ctx, key, *value, s.origin)
	}
	if err != nil {
		s.log.Warn(ctx, "store write failed, keeping value in memory", "key", key, "error", err)
		s.fallback.Set(ctx, key, value)
	}
}

func (s *SQLiteStore) Watch(ctx context.Context, interval time.Duration) <-chan Event {
	ch := make(chan Event, 16)

	last, err := s.repo.LastChangeID(ctx)
	if err != nil {
		s.log.Warn(ctx, "cannot read change log position", "error", err)
	}

	go func() {
		defer close(ch)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				changes, err := s.repo.ChangesSince(ctx, last, s.origin)
				if err != nil {
					if ctx.Err() == nil {
						s.log.Warn(ctx, "polling change log failed", "error", err)
					}
					continue
				}
				for _, c := range changes {
					last = c.ID
					s.log.Debug(ctx, "external store change", "key", c.Key, "from", c.Origin)
					select {
					case ch <- Event{Key: c.Key, Value: c.Value}:
					case <-ctx.Done():
						return
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}

func (s *SQLiteStore) Persistent() bool { return true }

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
