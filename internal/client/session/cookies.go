package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/myjournal/internal/client/storage"
	"github.com/dmitrijs2005/myjournal/internal/common"
	"github.com/dmitrijs2005/myjournal/internal/logging"
	"golang.org/x/net/publicsuffix"
)

// storedCookie keeps the attributes that decide where and until when a
// cookie is sent. A nil Expires is a session cookie.
type storedCookie struct {
	Name    string     `json:"name"`
	Value   string     `json:"value"`
	Path    string     `json:"path,omitempty"`
	Domain  string     `json:"domain,omitempty"`
	Secure  bool       `json:"secure,omitempty"`
	Expires *time.Time `json:"expires,omitempty"`
}

func (c storedCookie) sameSlot(o storedCookie) bool {
	return c.Name == o.Name && c.Path == o.Path && strings.EqualFold(c.Domain, o.Domain)
}

func (c storedCookie) expired(now time.Time) bool {
	return c.Expires != nil && !c.Expires.After(now)
}

func (c storedCookie) httpCookie() *http.Cookie {
	hc := &http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path, Domain: c.Domain, Secure: c.Secure}
	if c.Expires != nil {
		hc.Expires = *c.Expires
	}
	return hc
}

// CookieJar is an http.CookieJar for the API whose contents are kept in the
// persistent store, so every client process sharing the store presents the
// same session cookie.
type CookieJar struct {
	store storage.Store
	log   logging.Logger
	base  *url.URL

	mu    sync.Mutex
	jar   *cookiejar.Jar
	saved []storedCookie
	raw   string
}

func NewCookieJar(ctx context.Context, store storage.Store, apiURL string, log logging.Logger) (*CookieJar, error) {
	base, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", apiURL, err)
	}

	j := &CookieJar{store: store, log: log, base: base}
	if err := j.reload(ctx); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *CookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	ctx := context.Background()

	j.mu.Lock()
	defer j.mu.Unlock()

	j.syncLocked(ctx)
	j.jar.SetCookies(u, cookies)

	now := time.Now()
	for _, c := range cookies {
		sc, keep := toStored(u, c, now)
		j.saved = slices.DeleteFunc(j.saved, sc.sameSlot)
		if keep {
			j.saved = append(j.saved, sc)
		}
	}
	j.persistLocked(ctx, now)
}

func (j *CookieJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.syncLocked(context.Background())
	return j.jar.Cookies(u)
}

// syncLocked picks up cookies written by another process.
func (j *CookieJar) syncLocked(ctx context.Context) {
	raw, _ := j.store.Get(ctx, common.SessionCookiesKey)
	if raw == j.raw {
		return
	}
	if err := j.reload(ctx); err != nil {
		j.log.Warn(ctx, "cannot reload stored cookies", "error", err)
	}
}

func (j *CookieJar) reload(ctx context.Context) error {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return fmt.Errorf("failed to create cookie jar: %w", err)
	}

	raw, ok := j.store.Get(ctx, common.SessionCookiesKey)
	j.jar, j.raw, j.saved = jar, raw, nil
	if !ok || raw == "" {
		return nil
	}

	var stored []storedCookie
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		j.log.Warn(ctx, "ignoring unreadable stored cookies", "error", err)
		return nil
	}

	now := time.Now()
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		if c.Name == "" || c.expired(now) {
			continue
		}
		if !strings.HasPrefix(c.Path, "/") {
			c.Path = "/"
		}
		j.saved = append(j.saved, c)
		cookies = append(cookies, c.httpCookie())
	}
	jar.SetCookies(j.base, cookies)
	return nil
}

// persistLocked writes the saved cookies back to the store, skipping the
// write when nothing changed.
func (j *CookieJar) persistLocked(ctx context.Context, now time.Time) {
	j.saved = slices.DeleteFunc(j.saved, func(c storedCookie) bool { return c.expired(now) })
	slices.SortFunc(j.saved, func(a, b storedCookie) int {
		if n := strings.Compare(a.Name, b.Name); n != 0 {
			return n
		}
		if n := strings.Compare(a.Path, b.Path); n != 0 {
			return n
		}
		return strings.Compare(a.Domain, b.Domain)
	})

	raw := ""
	if len(j.saved) > 0 {
		b, err := json.Marshal(j.saved)
		if err != nil {
			j.log.Error(ctx, "cannot encode cookies", "error", err)
			return
		}
		raw = string(b)
	}
	if raw == j.raw {
		return
	}

	j.raw = raw
	if raw == "" {
		j.store.Set(ctx, common.SessionCookiesKey, nil)
		return
	}
	j.store.Set(ctx, common.SessionCookiesKey, &raw)
}

// toStored converts a Set-Cookie received for u. keep is false when the
// cookie deletes its slot.
func toStored(u *url.URL, c *http.Cookie, now time.Time) (sc storedCookie, keep bool) {
	sc = storedCookie{
		Name:   c.Name,
		Value:  c.Value,
		Path:   c.Path,
		Domain: strings.TrimPrefix(c.Domain, "."),
		Secure: c.Secure,
	}
	if !strings.HasPrefix(sc.Path, "/") {
		sc.Path = defaultPath(u.Path)
	}

	switch {
	case c.MaxAge < 0:
		return sc, false
	case c.MaxAge > 0:
		exp := now.Add(time.Duration(c.MaxAge) * time.Second).UTC()
		sc.Expires = &exp
	case !c.Expires.IsZero():
		if !c.Expires.After(now) {
			return sc, false
		}
		exp := c.Expires.UTC()
		sc.Expires = &exp
	}
	return sc, true
}

// defaultPath is the cookie path used when Set-Cookie has none: the
// directory of the request path.
func defaultPath(p string) string {
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return "/"
	}
	return p[:i]
}
