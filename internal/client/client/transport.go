package client

import (
	"context"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

type skipUnauthorizedKey struct{}

// WithoutUnauthorizedHook marks requests made with ctx so a 401 response
// does not reach the unauthorized hook. The logout call uses it, since the
// hook itself logs out.
func WithoutUnauthorizedHook(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipUnauthorizedKey{}, true)
}

func unauthorizedHookSkipped(ctx context.Context) bool {
	v, _ := ctx.Value(skipUnauthorizedKey{}).(bool)
	return v
}

// Transport decorates every API request: it sends the session cookies,
// keeps cookies set by the server, and reports 401 responses.
type Transport struct {
	base    http.RoundTripper
	jar     http.CookieJar
	limiter *rate.Limiter

	mu             sync.RWMutex
	onUnauthorized func(ctx context.Context)
}

// NewTransport wraps base (http.DefaultTransport when nil). A positive
// ratePerSecond caps the outbound request rate.
func NewTransport(base http.RoundTripper, jar http.CookieJar, ratePerSecond float64) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	t := &Transport{base: base, jar: jar}
	if ratePerSecond > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}
	return t
}

// OnUnauthorized registers fn to run after any 401 response, before the
// response is handed back to the caller.
func (t *Transport) OnUnauthorized(fn func(ctx context.Context)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onUnauthorized = fn
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	out := req.Clone(ctx)
	if t.jar != nil {
		for _, c := range t.jar.Cookies(out.URL) {
			out.AddCookie(c)
		}
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if t.jar != nil {
		if cookies := resp.Cookies(); len(cookies) > 0 {
			t.jar.SetCookies(out.URL, cookies)
		}
	}

	if resp.StatusCode == http.StatusUnauthorized && !unauthorizedHookSkipped(ctx) {
		t.mu.RLock()
		hook := t.onUnauthorized
		t.mu.RUnlock()
		if hook != nil {
			hook(WithoutUnauthorizedHook(ctx))
		}
	}

	return resp, nil
}
