package services

import (
	"context"

	"github.com/dmitrijs2005/myjournal/internal/client/client"
	"github.com/dmitrijs2005/myjournal/internal/client/models"
)

// EntryService exposes the journal entry API. Calls map one to one onto
// HTTP requests.
type EntryService interface {
	List(ctx context.Context) ([]models.Entry, error)
	Create(ctx context.Context, in models.EntryCreate) (*models.Entry, error)
	Update(ctx context.Context, id string, in models.EntryUpdate) (*models.Entry, error)
	Remove(ctx context.Context, id string) error
}

type entryService struct {
	client client.Client
}

func NewEntryService(c client.Client) EntryService {
	return &entryService{client: c}
}

func (s *entryService) List(ctx context.Context) ([]models.Entry, error) {
	return s.client.ListEntries(ctx)
}

func (s *entryService) Create(ctx context.Context, in models.EntryCreate) (*models.Entry, error) {
	return s.client.CreateEntry(ctx, in)
}

func (s *entryService) Update(ctx context.Context, id string, in models.EntryUpdate) (*models.Entry, error) {
	return s.client.UpdateEntry(ctx, id, in)
}

func (s *entryService) Remove(ctx context.Context, id string) error {
	return s.client.DeleteEntry(ctx, id)
}
