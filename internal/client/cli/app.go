package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/myjournal/internal/client/client"
	"github.com/dmitrijs2005/myjournal/internal/client/config"
	"github.com/dmitrijs2005/myjournal/internal/client/pages"
	"github.com/dmitrijs2005/myjournal/internal/client/router"
	"github.com/dmitrijs2005/myjournal/internal/client/services"
	"github.com/dmitrijs2005/myjournal/internal/client/session"
	"github.com/dmitrijs2005/myjournal/internal/client/storage"
	"github.com/dmitrijs2005/myjournal/internal/logging"
)

// App wires the client together and drives it from a terminal.
type App struct {
	config *config.Config
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer

	store     storage.Store
	cache     *session.Cache
	transport *client.Transport
	auth      services.AuthService
	router    *router.Router

	loginPage   *pages.LoginPage
	homePage    *pages.HomePage
	entriesPage *pages.EntriesPage
	confirmer   *consoleConfirmer
}

// NewApp opens the session store and builds every component. The returned
// App must be closed.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	store := storage.Open(ctx, c.DBPath, log)
	if !store.Persistent() {
		log.Warn(ctx, "session will not be kept after exit")
	}

	jar, err := session.NewCookieJar(ctx, store, c.APIURL, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	cache := session.NewCache(ctx, store, log)
	transport := client.NewTransport(nil, jar, c.RateLimit)
	api := client.NewHTTPClient(c.APIURL, transport, c.RequestTimeout)

	auth := services.NewAuthService(api, cache, log)
	r := router.New(router.DefaultRoutes(), cache, log)
	auth.SetNavigator(r)
	transport.OnUnauthorized(func(ctx context.Context) {
		auth.Logout(ctx, true)
	})

	reader := bufio.NewReader(in)
	notifier := &consoleNotifier{out: out}
	confirmer := &consoleConfirmer{reader: reader, out: out}

	return &App{
		config:      c,
		log:         log,
		reader:      reader,
		out:         out,
		store:       store,
		cache:       cache,
		transport:   transport,
		auth:        auth,
		router:      r,
		loginPage:   pages.NewLoginPage(auth, r, notifier, log),
		homePage:    pages.NewHomePage(cache),
		entriesPage: pages.NewEntriesPage(services.NewEntryService(api), notifier, confirmer, log),
		confirmer:   confirmer,
	}, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

// Run checks the session once, starts following session changes made by
// other clients and serves the REPL until the user exits.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.auth.Initialize(ctx)

	go a.cache.Watch(ctx, a.config.SyncInterval)
	go a.followSession(ctx)

	if err := a.router.NavigateByURL(ctx, "/"); err != nil {
		return err
	}

	a.printf("Welcome to MyJournal (type 'help' for commands)\n")
	a.showPage(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

// followSession re-applies the route guards whenever the user logs in or
// out, including from another client.
func (a *App) followSession(ctx context.Context) {
	for range a.cache.AuthChanges(ctx) {
		page, path := a.router.Current()
		if path == "" {
			continue
		}
		next, _, err := a.router.Resolve(path)
		if err != nil || next == page {
			continue
		}
		if err := a.router.NavigateByURL(ctx, path); err != nil {
			a.log.Warn(ctx, "re-navigation after session change failed", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.cache.IsAuthenticated()
}

func (a *App) getStatus() string {
	s := ""
	if u := a.cache.Current(); u != nil {
		s = u.Username + " "
	}
	if page, _ := a.router.Current(); page != "" {
		s += string(page)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}
