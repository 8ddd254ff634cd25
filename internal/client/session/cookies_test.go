package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/myjournal/internal/client/storage"
	"github.com/dmitrijs2005/myjournal/internal/common"
	"github.com/dmitrijs2005/myjournal/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiURL = "http://localhost:3000/api"

func cookieNames(cs []*http.Cookie) map[string]string {
	out := make(map[string]string, len(cs))
	for _, c := range cs {
		out[c.Name] = c.Value
	}
	return out
}

func TestCookieJar_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	u, _ := url.Parse(apiURL + "/auth/login")

	first, err := NewCookieJar(ctx, store, apiURL, logging.Nop())
	require.NoError(t, err)
	first.SetCookies(u, []*http.Cookie{{Name: "sid", Value: "abc", Path: "/"}})

	raw, ok := store.Get(ctx, common.SessionCookiesKey)
	require.True(t, ok)
	assert.JSONEq(t, `[{"name":"sid","value":"abc","path":"/"}]`, raw)

	second, err := NewCookieJar(ctx, store, apiURL, logging.Nop())
	require.NoError(t, err)
	entries, _ := url.Parse(apiURL + "/entries")
	assert.Equal(t, map[string]string{"sid": "abc"}, cookieNames(second.Cookies(entries)))
}

func TestCookieJar_FollowsStoreChanges(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	u, _ := url.Parse(apiURL + "/auth/me")

	a, err := NewCookieJar(ctx, store, apiURL, logging.Nop())
	require.NoError(t, err)
	b, err := NewCookieJar(ctx, store, apiURL, logging.Nop())
	require.NoError(t, err)
	assert.Empty(t, b.Cookies(u))

	a.SetCookies(u, []*http.Cookie{{Name: "sid", Value: "xyz", Path: "/"}})
	assert.Equal(t, map[string]string{"sid": "xyz"}, cookieNames(b.Cookies(u)))

	// server expires the cookie on logout
	b.SetCookies(u, []*http.Cookie{{Name: "sid", Value: "", Path: "/", MaxAge: -1}})
	_, ok := store.Get(ctx, common.SessionCookiesKey)
	assert.False(t, ok)
	assert.Empty(t, a.Cookies(u))
}

func TestCookieJar_IgnoresUnreadableStoredValue(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	store.Set(ctx, common.SessionCookiesKey, strPtr("nope"))

	j, err := NewCookieJar(ctx, store, apiURL, logging.Nop())
	require.NoError(t, err)
	u, _ := url.Parse(apiURL)
	assert.Empty(t, j.Cookies(u))
}

func TestNewCookieJar_InvalidURL(t *testing.T) {
	_, err := NewCookieJar(context.Background(), storage.NewMemoryStore(), "http://[::1", logging.Nop())
	assert.Error(t, err)
}

func parseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestCookieJar_KeepsPathScopeAcrossInstances(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	first, err := NewCookieJar(ctx, store, apiURL, logging.Nop())
	require.NoError(t, err)
	first.SetCookies(parseURL(t, apiURL+"/auth/login"), []*http.Cookie{
		{Name: "scoped", Value: "1", Path: "/api/entries"},
		{Name: "sibling", Value: "2", Path: "/admin"},
		{Name: "implicit", Value: "3"},
	})

	second, err := NewCookieJar(ctx, store, apiURL, logging.Nop())
	require.NoError(t, err)

	tests := []struct {
		url  string
		want map[string]string
	}{
		{apiURL + "/entries", map[string]string{"scoped": "1"}},
		{apiURL + "/auth/me", map[string]string{"implicit": "3"}},
		{"http://localhost:3000/admin/x", map[string]string{"sibling": "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, cookieNames(second.Cookies(parseURL(t, tt.url))))
		})
	}
}

func TestCookieJar_KeepsExpiry(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	j, err := NewCookieJar(ctx, store, apiURL, logging.Nop())
	require.NoError(t, err)
	before := time.Now()
	j.SetCookies(parseURL(t, apiURL+"/auth/login"), []*http.Cookie{{Name: "sid", Value: "abc", Path: "/", MaxAge: 3600}})

	raw, ok := store.Get(ctx, common.SessionCookiesKey)
	require.True(t, ok)
	var stored []storedCookie
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].Expires)
	assert.WithinDuration(t, before.Add(time.Hour), *stored[0].Expires, 5*time.Second)
}

func TestCookieJar_DropsExpiredStoredCookies(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	past := time.Now().Add(-time.Minute).UTC().Format(time.RFC3339)
	future := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	store.Set(ctx, common.SessionCookiesKey, strPtr(`[`+
		`{"name":"old","value":"1","path":"/","expires":"`+past+`"},`+
		`{"name":"sid","value":"2","path":"/","expires":"`+future+`"}]`))

	j, err := NewCookieJar(ctx, store, apiURL, logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"sid": "2"}, cookieNames(j.Cookies(parseURL(t, apiURL+"/entries"))))
}

// countingStore counts writes reaching the store.
type countingStore struct {
	*storage.MemoryStore
	mu   sync.Mutex
	sets int
}

func (s *countingStore) Set(ctx context.Context, key string, value *string) {
	s.mu.Lock()
	s.sets++
	s.mu.Unlock()
	s.MemoryStore.Set(ctx, key, value)
}

func TestCookieJar_SkipsUnchangedWrites(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{MemoryStore: storage.NewMemoryStore()}
	u := parseURL(t, apiURL+"/entries")

	j, err := NewCookieJar(ctx, store, apiURL, logging.Nop())
	require.NoError(t, err)

	for range 3 {
		j.SetCookies(u, []*http.Cookie{{Name: "sid", Value: "abc", Path: "/"}})
	}
	assert.Equal(t, 1, store.sets)

	j.SetCookies(u, []*http.Cookie{{Name: "sid", Value: "rotated", Path: "/"}})
	assert.Equal(t, 2, store.sets)

	// deleting a cookie that was never stored writes nothing
	j.SetCookies(u, []*http.Cookie{{Name: "other", Value: "", Path: "/", MaxAge: -1}})
	assert.Equal(t, 2, store.sets)

	raw, _ := store.Get(ctx, common.SessionCookiesKey)
	assert.True(t, strings.Contains(raw, "rotated"))
}
