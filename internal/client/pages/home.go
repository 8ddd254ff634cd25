package pages

import "github.com/dmitrijs2005/myjournal/internal/client/models"

// CurrentUser is the session lookup the home page needs.
type CurrentUser interface {
	Current() *models.User
}

type HomePage struct {
	session CurrentUser
}

func NewHomePage(session CurrentUser) *HomePage {
	return &HomePage{session: session}
}

func (p *HomePage) Greeting() string {
	u := p.session.Current()
	if u == nil {
		return "Welcome to MyJournal."
	}
	return "Welcome back, " + u.Username + "!"
}
