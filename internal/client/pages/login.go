package pages

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/myjournal/internal/client/client"
	"github.com/dmitrijs2005/myjournal/internal/client/router"
	"github.com/dmitrijs2005/myjournal/internal/client/services"
	"github.com/dmitrijs2005/myjournal/internal/logging"
)

// LoginPage signs the user in.
type LoginPage struct {
	auth   services.AuthService
	nav    services.Navigator
	notify Notifier
	log    logging.Logger

	mu      sync.Mutex
	loading bool
}

func NewLoginPage(auth services.AuthService, nav services.Navigator, notify Notifier, log logging.Logger) *LoginPage {
	return &LoginPage{auth: auth, nav: nav, notify: notify, log: log}
}

func (p *LoginPage) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Submit validates the form and logs in. On success the user is taken to
// the home page.
func (p *LoginPage) Submit(ctx context.Context, form LoginForm) error {
	if err := form.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	p.loading = true
	p.mu.Unlock()

	_, err := p.auth.Login(ctx, form.Username, form.Password)

	p.mu.Lock()
	p.loading = false
	p.mu.Unlock()

	if err != nil {
		msg, ok := client.ServerMessage(err)
		if !ok {
			msg = "Login failed"
		}
		p.notify.Notify(failure(msg))
		return err
	}

	p.notify.Notify(Notice{Message: "Logged in!", Action: "OK", Duration: successDuration})
	if err := p.nav.NavigateByURL(ctx, router.PathHome); err != nil {
		p.log.Warn(ctx, "navigation after login failed", "error", err)
	}
	return nil
}
