package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/myjournal/internal/client/models"
)

// fakeClient implements client.Client for unit tests.
type fakeClient struct {
	mu sync.Mutex

	LoginRet  *models.User
	LoginErr  error
	MeRet     *models.User
	MeErr     error
	LogoutErr error

	ListRet   []models.Entry
	ListErr   error
	CreateRet *models.Entry
	CreateErr error
	UpdateRet *models.Entry
	UpdateErr error
	DeleteErr error

	LoginCalls  int
	MeCalls     int
	LogoutCalls int

	LastLoginUser string
	LastLoginPass string
	LastCreate    models.EntryCreate
	LastUpdateID  string
	LastUpdate    models.EntryUpdate
	LastDeleteID  string
}

func (f *fakeClient) Login(_ context.Context, username, password string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginCalls++
	f.LastLoginUser, f.LastLoginPass = username, password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Me(context.Context) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MeCalls++
	return f.MeRet, f.MeErr
}

func (f *fakeClient) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LogoutCalls++
	return f.LogoutErr
}

func (f *fakeClient) ListEntries(context.Context) ([]models.Entry, error) {
	return f.ListRet, f.ListErr
}

func (f *fakeClient) CreateEntry(_ context.Context, in models.EntryCreate) (*models.Entry, error) {
	f.LastCreate = in
	return f.CreateRet, f.CreateErr
}

func (f *fakeClient) UpdateEntry(_ context.Context, id string, in models.EntryUpdate) (*models.Entry, error) {
	f.LastUpdateID, f.LastUpdate = id, in
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeClient) DeleteEntry(_ context.Context, id string) error {
	f.LastDeleteID = id
	return f.DeleteErr
}

type fakeNavigator struct {
	paths []string
}

func (n *fakeNavigator) NavigateByURL(_ context.Context, path string) error {
	n.paths = append(n.paths, path)
	return nil
}
