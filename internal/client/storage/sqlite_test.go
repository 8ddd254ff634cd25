package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/myjournal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/myjournal/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), path, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "journal.db"))

	assert.True(t, s.Persistent())
	assert.NotEmpty(t, s.Origin())

	s.Set(ctx, "myjournal:user", strPtr(`{"id":"1"}`))
	v, ok := s.Get(ctx, "myjournal:user")
	require.True(t, ok)
	assert.Equal(t, `{"id":"1"}`, v)

	s.Set(ctx, "myjournal:user", nil)
	_, ok = s.Get(ctx, "myjournal:user")
	assert.False(t, ok)
}

func TestSQLiteStore_ValuesSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	first, err := OpenSQLite(ctx, path, logging.Nop())
	require.NoError(t, err)
	first.Set(ctx, "k", strPtr("kept"))
	require.NoError(t, first.Close())

	second := openTestStore(t, path)
	v, ok := second.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "kept", v)
}

func TestSQLiteStore_WatchSeesOtherInstancesOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "journal.db")
	a := openTestStore(t, path)
	b := openTestStore(t, path)
	require.NotEqual(t, a.Origin(), b.Origin())

	aEvents := a.Watch(ctx, 10*time.Millisecond)
	bEvents := b.Watch(ctx, 10*time.Millisecond)

	a.Set(ctx, "k", strPtr("from-a"))
	a.Set(ctx, "k", nil)

	for _, want := range []*string{strPtr("from-a"), nil} {
		select {
		case ev := <-bEvents:
			assert.Equal(t, "k", ev.Key)
			assert.Equal(t, want, ev.Value)
		case <-time.After(2 * time.Second):
			t.Fatal("b did not observe a's write")
		}
	}

	select {
	case ev := <-aEvents:
		t.Fatalf("a observed its own write: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	select {
	case _, ok := <-bEvents:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("watch channel was not closed")
	}
}

func TestSQLiteStore_FallsBackToMemoryOnFailure(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewSQLiteStore(db, metadata.NewSQLiteRepository(db), "origin-1", logging.Nop())

	boom := errors.New("disk I/O error")

	mock.ExpectQuery("SELECT value FROM metadata").WillReturnError(boom)
	_, ok := s.Get(ctx, "k")
	assert.False(t, ok, "failed read is reported as absent")

	mock.ExpectBegin().WillReturnError(boom)
	s.Set(ctx, "k", strPtr("v"))

	mock.ExpectQuery("SELECT value FROM metadata").WillReturnError(boom)
	v, ok := s.Get(ctx, "k")
	require.True(t, ok, "failed write is kept in memory")
	assert.Equal(t, "v", v)

	mock.ExpectBegin().WillReturnError(boom)
	s.Set(ctx, "k", nil)

	mock.ExpectQuery("SELECT value FROM metadata").WillReturnError(boom)
	_, ok = s.Get(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_FallsBackToMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "journal.db")

	s := Open(context.Background(), path, logging.Nop())
	defer s.Close()

	_, isMem := s.(*MemoryStore)
	assert.True(t, isMem)
	assert.False(t, s.Persistent())
}

func TestOpen_UsesSQLite(t *testing.T) {
	s := Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"), logging.Nop())
	defer s.Close()

	_, isSQLite := s.(*SQLiteStore)
	assert.True(t, isSQLite)
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "journal.db"))

	require.NoError(t, RunMigrations(ctx, s.db))

	var n int
	require.NoError(t, s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('metadata','storage_events')`).Scan(&n))
	assert.Equal(t, 2, n)
}
