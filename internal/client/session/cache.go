// Package session holds the client's view of who is logged in.
//
// Cache is the single source of truth for the current user. It mirrors the
// user into the persistent store so a restarted client resumes the session,
// and follows writes made by other client processes sharing the store.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/dmitrijs2005/myjournal/internal/client/models"
	"github.com/dmitrijs2005/myjournal/internal/client/storage"
	"github.com/dmitrijs2005/myjournal/internal/common"
	"github.com/dmitrijs2005/myjournal/internal/logging"
)

type Cache struct {
	store storage.Store
	log   logging.Logger

	mu   sync.RWMutex
	user *models.User
	subs map[chan *models.User]struct{}
}

// NewCache loads the persisted user. A missing or undecodable value means
// nobody is logged in.
func NewCache(ctx context.Context, store storage.Store, log logging.Logger) *Cache {
	c := &Cache{
		store: store,
		log:   log,
		subs:  make(map[chan *models.User]struct{}),
	}
	if raw, ok := store.Get(ctx, common.SessionUserKey); ok {
		c.user = c.decode(ctx, &raw)
	}
	return c
}

// Current returns a copy of the current user, or nil.
func (c *Cache) Current() *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.user)
}

func (c *Cache) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil
}

// Subscribe delivers the current user immediately and every later change
// until ctx ends, when the channel is closed. A slow reader only sees the
// latest value.
func (c *Cache) Subscribe(ctx context.Context) <-chan *models.User {
	ch := make(chan *models.User, 1)

	c.mu.Lock()
	ch <- clone(c.user)
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	go func() {
		<-ctx.Done()
		c.mu.Lock()
		delete(c.subs, ch)
		close(ch)
		c.mu.Unlock()
	}()

	return ch
}

// AuthChanges is Subscribe mapped to "is somebody logged in".
func (c *Cache) AuthChanges(ctx context.Context) <-chan bool {
	users := c.Subscribe(ctx)
	out := make(chan bool, 1)

	go func() {
		defer close(out)
		for u := range users {
			select {
			case <-out:
			default:
			}
			out <- u != nil
		}
	}()

	return out
}

// SetUser replaces the current user and writes it through to the store;
// nil logs out and removes the stored value.
func (c *Cache) SetUser(ctx context.Context, u *models.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.user = clone(u)
	c.persist(ctx)
	c.notify()
}

// Watch applies session changes written by other processes until ctx ends.
// Applied changes are not written back to the store.
//
// The stored value is re-read once the change log is being followed, so
// writes made between NewCache and Watch are not lost. Each event re-reads
// the key as well: events describe past writes, and a later local SetUser
// must not be overwritten by an older remote one.
func (c *Cache) Watch(ctx context.Context, interval time.Duration) {
	events := c.store.Watch(ctx, interval)
	c.reload(ctx)

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Key != common.SessionUserKey {
				continue
			}
			c.reload(ctx)

		case <-ctx.Done():
			return
		}
	}
}

// reload replaces the in-memory user with the stored one and notifies
// subscribers if it changed.
func (c *Cache) reload(ctx context.Context) {
	var u *models.User
	if raw, ok := c.store.Get(ctx, common.SessionUserKey); ok {
		u = c.decode(ctx, &raw)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if sameUser(c.user, u) {
		return
	}
	c.log.Debug(ctx, "session changed by another client", "authenticated", u != nil)
	c.user = u
	c.notify()
}

func (c *Cache) persist(ctx context.Context) {
	if c.user == nil {
		c.store.Set(ctx, common.SessionUserKey, nil)
		return
	}
	b, err := json.Marshal(c.user)
	if err != nil {
		c.log.Error(ctx, "cannot encode session user", "error", err)
		return
	}
	raw := string(b)
	c.store.Set(ctx, common.SessionUserKey, &raw)
}

// notify must be called with mu held.
func (c *Cache) notify() {
	for ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- clone(c.user)
	}
}

func (c *Cache) decode(ctx context.Context, raw *string) *models.User {
	if raw == nil || *raw == "" {
		return nil
	}
	var u models.User
	if err := json.Unmarshal([]byte(*raw), &u); err != nil {
		c.log.Warn(ctx, "ignoring unreadable stored session", "error", err)
		return nil
	}
	return &u
}

func clone(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func sameUser(a, b *models.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.Username == b.Username && a.CreatedAt.Equal(b.CreatedAt)
}
