// Package feed fetches the five pre-aggregated dashboard feeds from the
// backend API and decodes them into pass-through Go types.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrUnexpectedStatus is returned for any non-2xx upstream response.
	ErrUnexpectedStatus = errors.New("feed: unexpected status")
	// ErrUnknownSlot is returned for a slot name outside the five feeds.
	ErrUnknownSlot = errors.New("feed: unknown slot")
)

const maxBodyBytes = 4 << 20

// Client issues plain GET requests against the backend API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client rooted at baseURL (for example http://127.0.0.1:8000/api).
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// Fetch performs one GET for the slot and returns the raw body.
func (c *Client) Fetch(ctx context.Context, slot Slot) ([]byte, error) {
	if c == nil {
		return nil, errors.New("feed: client not initialised")
	}
	if !slot.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSlot, string(slot))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+slot.Path(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed: get %s: %w", slot, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%w %d from %s", ErrUnexpectedStatus, resp.StatusCode, slot)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("feed: read %s: %w", slot, err)
	}
	return body, nil
}
