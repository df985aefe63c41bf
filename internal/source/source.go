// Package source reads schedule documents from a local path or an http(s) URL, so a
// generator can run against the schedule.json a site already publishes.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	UserAgent = "schedule-ics/1.0 (github.com/pfrederiksen/event-schedule)"
	Timeout   = 30 * time.Second
	// MaxSize caps how much of a remote document is read
	MaxSize = 32 << 20
)

// Fetcher reads documents over HTTP or from disk
type Fetcher struct {
	client *http.Client
}

// New creates a Fetcher with the default timeout
func New() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: Timeout,
		},
	}
}

// IsURL reports whether location should be fetched over HTTP
func IsURL(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Read returns the document at location, fetching URLs and reading anything else from disk
func (f *Fetcher) Read(ctx context.Context, location string) ([]byte, error) {
	if IsURL(location) {
		return f.Fetch(ctx, location)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", location, err)
	}
	return data, nil
}

// Fetch downloads url
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status code: %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if len(data) > MaxSize {
		return nil, fmt.Errorf("fetching %s: document larger than %d bytes", url, MaxSize)
	}
	return data, nil
}
