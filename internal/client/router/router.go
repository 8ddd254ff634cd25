// Package router maps paths to client pages and enforces who may see them.
//
// Routes and guards depend only on the session state; resolving a path never
// touches the network.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/myjournal/internal/logging"
)

type Page string

const (
	PageLogin   Page = "login"
	PageHome    Page = "home"
	PageEntries Page = "entries"
)

const (
	PathLogin   = "/login"
	PathHome    = "/home"
	PathEntries = "/entries"
)

// maxRedirects bounds redirect chains so a misconfigured table cannot loop.
const maxRedirects = 10

var (
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrNoRoute          = errors.New("no route")
)

// Route is one entry of the table. Path "**" matches anything not matched
// before it. A route either shows Page (after Guard, if any) or redirects.
type Route struct {
	Path       string
	Page       Page
	Guard      Guard
	RedirectTo string
}

// DefaultRoutes is the client's route table.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "login", Page: PageLogin, Guard: GuestGuard},
		{Path: "home", Page: PageHome, Guard: AuthGuard},
		{Path: "entries", Page: PageEntries, Guard: AuthGuard},
		{Path: "", RedirectTo: PathHome},
		{Path: "**", RedirectTo: PathHome},
	}
}

// Router tracks the current page.
type Router struct {
	routes []Route
	state  AuthState
	log    logging.Logger

	mu      sync.RWMutex
	current Page
	path    string
}

func New(routes []Route, state AuthState, log logging.Logger) *Router {
	return &Router{routes: routes, state: state, log: log}
}

// Resolve follows redirects and guards from path and returns the page that
// would be shown and its path, without changing the current page.
func (r *Router) Resolve(path string) (Page, string, error) {
	for i := 0; i <= maxRedirects; i++ {
		route, ok := r.match(path)
		if !ok {
			return "", "", fmt.Errorf("%w for %q", ErrNoRoute, path)
		}
		if route.RedirectTo != "" {
			path = route.RedirectTo
			continue
		}
		if route.Guard != nil {
			if d := route.Guard(r.state); !d.Allow {
				path = d.RedirectTo
				continue
			}
		}
		return route.Page, "/" + route.Path, nil
	}
	return "", "", fmt.Errorf("%w starting at %q", ErrTooManyRedirects, path)
}

// NavigateByURL resolves path and makes the result the current page.
func (r *Router) NavigateByURL(ctx context.Context, path string) error {
	page, final, err := r.Resolve(path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.current, r.path = page, final
	r.mu.Unlock()

	r.log.Debug(ctx, "navigated", "requested", path, "page", string(page))
	return nil
}

// Current returns the current page and its path.
func (r *Router) Current() (Page, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current, r.path
}

func (r *Router) match(path string) (Route, bool) {
	p := strings.Trim(path, "/")
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	for _, route := range r.routes {
		if route.Path == "**" || route.Path == p {
			return route, true
		}
	}
	return Route{}, false
}
