package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/myjournal/internal/client/models"
	"github.com/dmitrijs2005/myjournal/internal/client/storage"
	"github.com/dmitrijs2005/myjournal/internal/common"
	"github.com/dmitrijs2005/myjournal/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func testUser() *models.User {
	return &models.User{
		ID:        "u1",
		Username:  "janedoe1",
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestCache_SetUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	c := NewCache(ctx, store, logging.Nop())
	assert.Nil(t, c.Current())
	assert.False(t, c.IsAuthenticated())

	c.SetUser(ctx, testUser())
	assert.True(t, c.IsAuthenticated())

	_, ok := store.Get(ctx, common.SessionUserKey)
	require.True(t, ok)

	restored := NewCache(ctx, store, logging.Nop())
	assert.Equal(t, testUser(), restored.Current())

	c.SetUser(ctx, nil)
	_, ok = store.Get(ctx, common.SessionUserKey)
	assert.False(t, ok, "logging out removes the stored user")
	assert.Nil(t, NewCache(ctx, store, logging.Nop()).Current())
}

func TestNewCache_UndecodableValueMeansLoggedOut(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	store.Set(ctx, common.SessionUserKey, strPtr("{not json"))

	c := NewCache(ctx, store, logging.Nop())
	assert.Nil(t, c.Current())
}

func TestCache_CurrentReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := NewCache(ctx, storage.NewMemoryStore(), logging.Nop())
	c.SetUser(ctx, testUser())

	u := c.Current()
	u.Username = "mallory"
	assert.Equal(t, "janedoe1", c.Current().Username)
}

func TestCache_SubscribeReplaysThenUpdates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewCache(ctx, storage.NewMemoryStore(), logging.Nop())
	c.SetUser(ctx, testUser())

	sub := c.Subscribe(ctx)
	assert.Equal(t, testUser(), receive(t, sub), "current value is replayed")

	c.SetUser(ctx, nil)
	assert.Nil(t, receive(t, sub))

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-sub:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestCache_SubscribeKeepsLatestForSlowReader(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewCache(ctx, storage.NewMemoryStore(), logging.Nop())
	sub := c.Subscribe(ctx)

	c.SetUser(ctx, testUser())
	c.SetUser(ctx, nil)
	c.SetUser(ctx, &models.User{ID: "u2", Username: "johnsmith"})

	u := receive(t, sub)
	require.NotNil(t, u)
	assert.Equal(t, "u2", u.ID)
}

func TestCache_AuthChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewCache(ctx, storage.NewMemoryStore(), logging.Nop())
	changes := c.AuthChanges(ctx)
	assert.False(t, receive(t, changes))

	c.SetUser(ctx, testUser())
	assert.True(t, receive(t, changes))
}

func TestCache_WatchAppliesRemoteChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "journal.db")
	storeA, err := storage.OpenSQLite(ctx, path, logging.Nop())
	require.NoError(t, err)
	defer storeA.Close()
	storeB, err := storage.OpenSQLite(ctx, path, logging.Nop())
	require.NoError(t, err)
	defer storeB.Close()

	a := NewCache(ctx, storeA, logging.Nop())
	b := NewCache(ctx, storeB, logging.Nop())

	sub := b.Subscribe(ctx)
	assert.Nil(t, receive(t, sub))

	watchDone := make(chan struct{})
	go func() {
		b.Watch(ctx, 10*time.Millisecond)
		close(watchDone)
	}()
	a.SetUser(ctx, testUser())
	assert.Equal(t, testUser(), receive(t, sub))
	assert.True(t, b.IsAuthenticated())

	// an unrelated key is ignored
	storeA.Set(ctx, common.KeyPrefix+"other", strPtr("x"))

	a.SetUser(ctx, nil)
	assert.Nil(t, receive(t, sub))
	assert.False(t, b.IsAuthenticated())

	cancel()
	select {
	case <-watchDone:
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop with its context")
	}
}

func TestCache_WatchUndecodableRemoteValueMeansLoggedOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "journal.db")
	storeA, err := storage.OpenSQLite(ctx, path, logging.Nop())
	require.NoError(t, err)
	defer storeA.Close()
	storeB, err := storage.OpenSQLite(ctx, path, logging.Nop())
	require.NoError(t, err)
	defer storeB.Close()

	b := NewCache(ctx, storeB, logging.Nop())
	b.SetUser(ctx, testUser())
	sub := b.Subscribe(ctx)
	receive(t, sub)

	go b.Watch(ctx, 10*time.Millisecond)

	storeA.Set(ctx, common.SessionUserKey, strPtr("garbage"))
	assert.Nil(t, receive(t, sub))
}

func TestCache_WatchPicksUpWritesMadeBeforeItStarted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "journal.db")
	storeA, err := storage.OpenSQLite(ctx, path, logging.Nop())
	require.NoError(t, err)
	defer storeA.Close()
	storeB, err := storage.OpenSQLite(ctx, path, logging.Nop())
	require.NoError(t, err)
	defer storeB.Close()

	a := NewCache(ctx, storeA, logging.Nop())
	b := NewCache(ctx, storeB, logging.Nop())
	require.False(t, b.IsAuthenticated())

	// written while b is still busy starting up
	a.SetUser(ctx, testUser())

	go b.Watch(ctx, 10*time.Millisecond)

	require.Eventually(t, b.IsAuthenticated, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, testUser(), b.Current())
}

func TestCache_WatchKeepsNewerLocalWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "journal.db")
	storeA, err := storage.OpenSQLite(ctx, path, logging.Nop())
	require.NoError(t, err)
	defer storeA.Close()
	storeB, err := storage.OpenSQLite(ctx, path, logging.Nop())
	require.NoError(t, err)
	defer storeB.Close()

	a := NewCache(ctx, storeA, logging.Nop())
	b := NewCache(ctx, storeB, logging.Nop())

	go b.Watch(ctx, 100*time.Millisecond)

	// both writes land before the first poll; b's is the newer one
	other := &models.User{ID: "u2", Username: "johndoe2"}
	a.SetUser(ctx, other)
	b.SetUser(ctx, testUser())

	time.Sleep(300 * time.Millisecond)

	raw, ok := storeB.Get(ctx, common.SessionUserKey)
	require.True(t, ok)
	assert.Contains(t, raw, `"id":"u1"`)
	assert.Equal(t, testUser(), b.Current())
}
