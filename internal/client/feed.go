package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/joltlabs/jolt/internal/domain/model"
	"github.com/joltlabs/jolt/pkg/logger"
)

// Fetcher retrieves the full current event list, used once on connect to
// reconcile state that existed before the channel opened.
type Fetcher interface {
	FetchEvents(ctx context.Context) ([]model.Event, error)
}

// HTTPFetcher fetches the event list from the server's read API.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher creates a fetcher against baseURL (no trailing slash).
func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{baseURL: baseURL, client: http.DefaultClient}
}

// FetchEvents retrieves all persisted events newest first.
func (f *HTTPFetcher) FetchEvents(ctx context.Context) ([]model.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/events", nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch events: unexpected status %d", resp.StatusCode)
	}
	var events []model.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	return events, nil
}

// Feed is the client-local read-only event list: seeded from a full
// fetch, extended by broadcast pushes, newest first. Broadcasts racing
// the initial fetch are not deduplicated; the feed reflects exactly what
// the two paths delivered.
type Feed struct {
	mu     sync.RWMutex
	events []model.Event
	log    logger.Logger
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{log: logger.Get().Named("feed")}
}

// Run seeds the feed from the fetcher and then consumes broadcasts until
// ctx is done or the broadcast channel closes. A failed fetch degrades
// to an empty list rather than aborting.
func (f *Feed) Run(ctx context.Context, fetcher Fetcher, broadcasts <-chan model.Event) {
	events, err := fetcher.FetchEvents(ctx)
	if err != nil {
		f.log.Warn(ctx, "initial fetch failed; starting with empty list", logger.Error(err))
		events = nil
	}
	f.mu.Lock()
	f.events = events
	f.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-broadcasts:
			if !ok {
				return
			}
			f.prepend(e)
		}
	}
}

func (f *Feed) prepend(e model.Event) {
	f.mu.Lock()
	f.events = append([]model.Event{e}, f.events...)
	f.mu.Unlock()
}

// Snapshot returns a copy of the current list, newest first.
func (f *Feed) Snapshot() []model.Event {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]model.Event, len(f.events))
	copy(out, f.events)
	return out
}

// Len returns the current list length.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.events)
}
