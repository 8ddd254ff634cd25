package pages

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/myjournal/internal/client/models"
	"github.com/dmitrijs2005/myjournal/internal/client/services"
	"github.com/dmitrijs2005/myjournal/internal/common"
	"github.com/dmitrijs2005/myjournal/internal/logging"
)

// TimestampLayout is how entry times are shown.
const TimestampLayout = "Jan 2, 2006, 3:04 PM"

const deletePrompt = "Delete this entry?"

var ErrNotEditing = errors.New("entry is not being edited")

func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(TimestampLayout)
}

// EntriesPage is the journal list with its new-entry form and a single
// inline editor.
type EntriesPage struct {
	entries services.EntryService
	notify  Notifier
	confirm Confirmer
	log     logging.Logger

	mu         sync.Mutex
	list       []models.Entry
	loading    bool
	creating   bool
	savingEdit bool
	editingID  string
	editForm   EditForm
	newForm    EntryForm
}

func NewEntriesPage(entries services.EntryService, notify Notifier, confirm Confirmer, log logging.Logger) *EntriesPage {
	return &EntriesPage{entries: entries, notify: notify, confirm: confirm, log: log}
}

// Entries returns a copy of the list, newest first as delivered.
func (p *EntriesPage) Entries() []models.Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Entry, len(p.list))
	copy(out, p.list)
	return out
}

func (p *EntriesPage) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

func (p *EntriesPage) Creating() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.creating
}

func (p *EntriesPage) SavingEdit() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.savingEdit
}

// EditingID is the id of the entry whose editor is open, or "".
func (p *EntriesPage) EditingID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.editingID
}

// EditForm is the open editor's form, seeded from the entry.
func (p *EntriesPage) EditForm() EditForm {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.editForm
}

// NewForm is the last submitted new-entry form; it is cleared on success.
func (p *EntriesPage) NewForm() EntryForm {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.newForm
}

// Load replaces the list with the server's.
func (p *EntriesPage) Load(ctx context.Context) error {
	p.setFlag(&p.loading, true)
	defer p.setFlag(&p.loading, false)

	list, err := p.entries.List(ctx)
	if err != nil {
		p.log.Warn(ctx, "loading entries failed", "error", err)
		p.notify.Notify(failure("Failed to load entries"))
		return err
	}

	p.mu.Lock()
	p.list = list
	p.mu.Unlock()
	return nil
}

// Create submits the new-entry form and puts the result first in the list.
// A submission while another is in flight returns common.ErrBusy.
func (p *EntriesPage) Create(ctx context.Context, form EntryForm) error {
	if err := form.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	if p.creating {
		p.mu.Unlock()
		return common.ErrBusy
	}
	p.creating = true
	p.newForm = form
	p.mu.Unlock()
	defer p.setFlag(&p.creating, false)

	created, err := p.entries.Create(ctx, models.EntryCreate{
		Title: models.NormalizeTitle(form.Title),
		Body:  form.Body,
	})
	if err != nil {
		p.log.Warn(ctx, "creating entry failed", "error", err)
		p.notify.Notify(failure("Failed to save entry"))
		return err
	}

	p.mu.Lock()
	p.list = append([]models.Entry{*created}, p.list...)
	p.newForm = EntryForm{}
	p.mu.Unlock()

	p.notify.Notify(success("Entry saved"))
	return nil
}

// ToggleEdit opens the editor for id, closing any other. Toggling the open
// entry again, or passing "", closes the editor.
func (p *EntriesPage) ToggleEdit(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id == "" || id == p.editingID {
		p.editingID = ""
		return nil
	}

	for _, e := range p.list {
		if e.ID != id {
			continue
		}
		p.editForm = EditForm{Body: e.Body}
		if e.Title != nil {
			p.editForm.Title = *e.Title
		}
		p.editingID = id
		return nil
	}
	return common.ErrNotFound
}

// SaveEdit sends the edit of the open entry. Blank title is omitted, so the
// server keeps the current one.
func (p *EntriesPage) SaveEdit(ctx context.Context, id string, form EditForm) error {
	if err := form.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	if p.editingID == "" || p.editingID != id {
		p.mu.Unlock()
		return ErrNotEditing
	}
	if p.savingEdit {
		p.mu.Unlock()
		return common.ErrBusy
	}
	p.savingEdit = true
	p.editForm = form
	p.mu.Unlock()
	defer p.setFlag(&p.savingEdit, false)

	updated, err := p.entries.Update(ctx, id, editUpdate(form))
	if err != nil {
		p.log.Warn(ctx, "updating entry failed", "id", id, "error", err)
		p.notify.Notify(failure("Failed to update entry"))
		return err
	}

	p.mu.Lock()
	for i := range p.list {
		if p.list[i].ID == id {
			p.list[i] = *updated
		}
	}
	if p.editingID == id {
		p.editingID = ""
	}
	p.mu.Unlock()

	p.notify.Notify(success("Entry updated"))
	return nil
}

// Delete asks for confirmation, then removes the entry. Declining is not an
// error.
func (p *EntriesPage) Delete(ctx context.Context, id string) error {
	if !p.confirm.Confirm(ctx, deletePrompt) {
		return nil
	}

	if err := p.entries.Remove(ctx, id); err != nil {
		p.log.Warn(ctx, "deleting entry failed", "id", id, "error", err)
		p.notify.Notify(failure("Failed to delete entry"))
		return err
	}

	p.mu.Lock()
	kept := p.list[:0:0]
	for _, e := range p.list {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	p.list = kept
	if p.editingID == id {
		p.editingID = ""
	}
	p.mu.Unlock()

	p.notify.Notify(success("Entry deleted"))
	return nil
}

func (p *EntriesPage) setFlag(flag *bool, v bool) {
	p.mu.Lock()
	*flag = v
	p.mu.Unlock()
}

func editUpdate(form EditForm) models.EntryUpdate {
	var u models.EntryUpdate
	if form.ClearTitle {
		u.ClearTitle = true
	} else if t := models.NormalizeTitle(form.Title); t != nil {
		u.Title = t
	}
	if form.Body != "" {
		body := form.Body
		u.Body = &body
	}
	return u
}
