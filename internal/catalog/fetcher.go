// Package catalog fetches a store's product feed (CSV over HTTP) and
// flattens it to the textual table included in completion requests.
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultTTL        = 5 * time.Minute
	defaultMaxElapsed = 15 * time.Second
)

type cacheEntry struct {
	text      string
	fetchedAt time.Time
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithTTL overrides how long a fetched catalog is reused.
func WithTTL(ttl time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.ttl = ttl
	}
}

// Fetcher retrieves and caches catalog feeds per URL. Fetches are retried
// under exponential backoff; the completion request itself is never
// retried, but the feed is a plain collaborator with no such constraint.
type Fetcher struct {
	client     *http.Client
	ttl        time.Duration
	maxElapsed time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewFetcher creates a catalog fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:     &http.Client{Timeout: 10 * time.Second},
		ttl:        defaultTTL,
		maxElapsed: defaultMaxElapsed,
		cache:      make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the flattened catalog text for url, serving from cache
// within the TTL. An empty url yields an empty catalog.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", nil
	}

	f.mu.Lock()
	if entry, ok := f.cache[url]; ok && time.Since(entry.fetchedAt) < f.ttl {
		f.mu.Unlock()
		return entry.text, nil
	}
	f.mu.Unlock()

	var text string
	operation := func() error {
		var err error
		text, err = f.fetchOnce(ctx, url)
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = f.maxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", fmt.Errorf("catalog fetch failed: %w", err)
	}

	f.mu.Lock()
	f.cache[url] = cacheEntry{text: text, fetchedAt: time.Now()}
	f.mu.Unlock()

	return text, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", backoff.Permanent(err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("catalog feed returned status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return Flatten(string(body))
}

// Flatten converts raw CSV into one line per row with fields joined by
// " | ", the shape the completion prompt expects.
func Flatten(raw string) (string, error) {
	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var lines []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse catalog csv: %w", err)
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		lines = append(lines, strings.Join(record, " | "))
	}
	return strings.Join(lines, "\n"), nil
}
