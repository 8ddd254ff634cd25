package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/myjournal/internal/client/models"
)

// HTTPClient implements Client against the journal REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the API rooted at baseURL. A zero
// timeout means requests are bounded only by their context.
func NewHTTPClient(baseURL string, transport http.RoundTripper, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: transport, Timeout: timeout},
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.User, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{username, password}, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil || resp.User.ID == "" {
		return nil, fmt.Errorf("login: %w", ErrNoUser)
	}
	return resp.User, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u *models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	if u == nil || u.ID == "" {
		return nil, fmt.Errorf("me: %w", ErrNoUser)
	}
	return u, nil
}

// Logout never triggers the unauthorized hook; see WithoutUnauthorizedHook.
func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(WithoutUnauthorizedHook(ctx), http.MethodPost, "/auth/logout", struct{}{}, nil)
}

func (c *HTTPClient) ListEntries(ctx context.Context) ([]models.Entry, error) {
	entries := []models.Entry{}
	if err := c.do(ctx, http.MethodGet, "/entries", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *HTTPClient) CreateEntry(ctx context.Context, in models.EntryCreate) (*models.Entry, error) {
	var e models.Entry
	if err := c.do(ctx, http.MethodPost, "/entries", in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *HTTPClient) UpdateEntry(ctx context.Context, id string, in models.EntryUpdate) (*models.Entry, error) {
	var e models.Entry
	if err := c.do(ctx, http.MethodPut, "/entries/"+url.PathEscape(id), in.Fields(), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *HTTPClient) DeleteEntry(ctx context.Context, id string) error {
	var resp models.DeleteResponse
	return c.do(ctx, http.MethodDelete, "/entries/"+url.PathEscape(id), nil, &resp)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatus(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func mapStatus(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var payload struct {
		Message string `json:"message"`
	}
	if b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); err == nil && len(b) > 0 {
		if json.Unmarshal(b, &payload) == nil {
			apiErr.Message = payload.Message
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		apiErr.Err = ErrUnauthorized
	}
	return apiErr
}
