package client

import (
	"context"

	"github.com/dmitrijs2005/myjournal/internal/client/models"
)

type Client interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	Me(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error

	ListEntries(ctx context.Context) ([]models.Entry, error)
	CreateEntry(ctx context.Context, in models.EntryCreate) (*models.Entry, error)
	UpdateEntry(ctx context.Context, id string, in models.EntryUpdate) (*models.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
}
