package pages

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/myjournal/internal/client/models"
)

type recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.Message)
	}
	return out
}

type answer bool

func (a answer) Confirm(context.Context, string) bool { return bool(a) }

// fakeEntries implements services.EntryService.
type fakeEntries struct {
	mu sync.Mutex

	listRet   []models.Entry
	listErr   error
	createRet *models.Entry
	createErr error
	updateRet *models.Entry
	updateErr error
	removeErr error

	// block, when set, holds Create until closed
	block chan struct{}

	creates []models.EntryCreate
	updates []models.EntryUpdate
	removed []string
}

func (f *fakeEntries) List(context.Context) ([]models.Entry, error) {
	return f.listRet, f.listErr
}

func (f *fakeEntries) Create(_ context.Context, in models.EntryCreate) (*models.Entry, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, in)
	return f.createRet, f.createErr
}

func (f *fakeEntries) Update(_ context.Context, _ string, in models.EntryUpdate) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, in)
	return f.updateRet, f.updateErr
}

func (f *fakeEntries) Remove(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	return f.removeErr
}

func strPtr(s string) *string { return &s }

func sampleEntries() []models.Entry {
	return []models.Entry{
		{ID: "e2", Title: strPtr("Second"), Body: "two"},
		{ID: "e1", Body: "one"},
	}
}
