package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/myjournal/internal/client/models"
	"github.com/dmitrijs2005/myjournal/internal/client/pages"
	"github.com/dmitrijs2005/myjournal/internal/client/router"
	"github.com/dmitrijs2005/myjournal/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

var ErrNotLoggedIn = errors.New("not logged in")

// removeTitle is typed at the title prompt to clear an entry's title.
const removeTitle = "-"

// Open navigates to path and shows the resulting page.
func (a *App) Open(ctx context.Context, path string) error {
	if err := a.router.NavigateByURL(ctx, path); err != nil {
		return err
	}
	a.showPage(ctx)
	return nil
}

func (a *App) showPage(ctx context.Context) {
	page, _ := a.router.Current()
	switch page {
	case router.PageLogin:
		a.printf("Please log in (type 'login').\n")
	case router.PageHome:
		a.printf("%s\nType 'entries' to open your journal or 'logout' to sign out.\n", a.homePage.Greeting())
	case router.PageEntries:
		if err := a.entriesPage.Load(ctx); err == nil {
			a.printEntries()
		}
	}
}

// Login prompts for credentials and submits the login form. Invalid input
// is reported with the field hints and never reaches the server.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		a.printf("Already logged in.\n")
		return nil
	}
	if err := a.router.NavigateByURL(ctx, router.PathLogin); err != nil {
		return err
	}

	username, err := getSimpleText(a.reader, "Username ("+pages.UsernameHint+")", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	err = a.loginPage.Submit(ctx, pages.LoginForm{Username: username, Password: password})
	if err != nil {
		a.reportFormError(err)
		return err
	}
	a.showPage(ctx)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx, true)
	a.printf("Logged out.\n")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u := a.auth.Me(ctx)
	if u == nil {
		a.printf("Not logged in.\n")
		return ErrNotLoggedIn
	}
	a.printf("%s (id %s, member since %s)\n", u.Username, u.ID, pages.FormatTimestamp(u.CreatedAt))
	return nil
}

// List reloads and prints the journal.
func (a *App) List(ctx context.Context) error {
	if err := a.requireEntries(ctx); err != nil {
		return err
	}
	if err := a.entriesPage.Load(ctx); err != nil {
		return err
	}
	a.printEntries()
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	if err := a.requireEntries(ctx); err != nil {
		return err
	}
	e, ok := a.findEntry(id)
	if !ok {
		a.printf("No entry %s.\n", id)
		return common.ErrNotFound
	}
	renderEntry(a.out, e)
	return nil
}

// Create prompts for a new entry.
func (a *App) Create(ctx context.Context) error {
	if err := a.requireEntries(ctx); err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "Title (optional)", a.out)
	if err != nil {
		return err
	}
	body, err := getMultiline(a.reader, "Body", a.out)
	if err != nil {
		return err
	}

	return a.createEntry(ctx, pages.EntryForm{Title: title, Body: body})
}

func (a *App) createEntry(ctx context.Context, form pages.EntryForm) error {
	err := a.entriesPage.Create(ctx, form)
	switch {
	case err == nil:
		a.printEntries()
	case errors.Is(err, common.ErrBusy):
		a.printf("Still saving the previous entry.\n")
	default:
		a.reportFormError(err)
	}
	return err
}

// Edit opens the editor for id and prompts for the changes. An empty
// answer keeps the current value.
func (a *App) Edit(ctx context.Context, id string) error {
	if err := a.requireEntries(ctx); err != nil {
		return err
	}
	if a.entriesPage.EditingID() != id {
		if err := a.entriesPage.ToggleEdit(id); err != nil {
			a.printf("No entry %s.\n", id)
			return err
		}
	}
	current := a.entriesPage.EditForm()

	title, err := getSimpleText(a.reader,
		fmt.Sprintf("Title [%s] (Enter keeps it, %q removes it)", current.Title, removeTitle), a.out)
	if err != nil {
		return err
	}
	body, err := getMultiline(a.reader, "Body (empty keeps the current text)", a.out)
	if err != nil {
		return err
	}

	form := pages.EditForm{Title: title, Body: body}
	if title == removeTitle {
		form = pages.EditForm{Body: body, ClearTitle: true}
	}
	if form.Body == "" {
		form.Body = current.Body
	}
	return a.saveEdit(ctx, id, form)
}

func (a *App) saveEdit(ctx context.Context, id string, form pages.EditForm) error {
	err := a.entriesPage.SaveEdit(ctx, id, form)
	switch {
	case err == nil:
		a.printEntries()
	case errors.Is(err, common.ErrBusy):
		a.printf("Still saving the previous edit.\n")
	default:
		a.reportFormError(err)
	}
	return err
}

// Cancel closes the open editor.
func (a *App) Cancel(ctx context.Context) error {
	return a.entriesPage.ToggleEdit("")
}

func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.requireEntries(ctx); err != nil {
		return err
	}
	if err := a.entriesPage.Delete(ctx, id); err != nil {
		return err
	}
	a.printEntries()
	return nil
}

// requireEntries moves to the entries page, loading it on first visit.
// It fails when the guards send the user elsewhere.
func (a *App) requireEntries(ctx context.Context) error {
	if page, _ := a.router.Current(); page == router.PageEntries {
		return nil
	}
	if err := a.router.NavigateByURL(ctx, router.PathEntries); err != nil {
		return err
	}
	if page, _ := a.router.Current(); page != router.PageEntries {
		a.printf("Please log in first (type 'login').\n")
		return ErrNotLoggedIn
	}
	return a.entriesPage.Load(ctx)
}

func (a *App) findEntry(id string) (models.Entry, bool) {
	for _, e := range a.entriesPage.Entries() {
		if e.ID == id {
			return e, true
		}
	}
	return models.Entry{}, false
}

func (a *App) printEntries() {
	entries := a.entriesPage.Entries()
	if len(entries) == 0 {
		a.printf("No entries yet. Create your first one with 'new' ✨\n")
		return
	}
	renderEntries(a.out, entries)
}

func (a *App) reportFormError(err error) {
	var fe *pages.FormError
	if !errors.As(err, &fe) {
		return
	}
	for field, msg := range fe.Fields {
		a.printf("  %s: %s\n", field, msg)
	}
}
