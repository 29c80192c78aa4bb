package record

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ErrEmptyRecordID is returned when Fetch is called without a record ID.
var ErrEmptyRecordID = errors.New("record id must not be empty")

// ErrRecordNotFound is returned when the store has no record for the ID.
var ErrRecordNotFound = errors.New("record not found")

// ErrStoreStatus is returned when the store answers with an unexpected
// HTTP status.
var ErrStoreStatus = errors.New("unexpected record store status")

// Store retrieves source records by ID. Implementations own their
// transport, credentials, and caching; the core only consumes the
// returned Record.
type Store interface {
	Fetch(ctx context.Context, id string) (Record, error)
}

const (
	defaultTimeout     = 15 * time.Second
	defaultCacheTTL    = 5 * time.Minute
	defaultCacheSweep  = 10 * time.Minute
	maxRecordBodyBytes = 4 << 20
)

// HTTPStore fetches records over HTTP with bearer authentication and a
// short-lived in-memory cache. A webhook burst for the same record hits
// the remote API once.
type HTTPStore struct {
	baseURL string
	token   string
	client  *http.Client
	cache   *gocache.Cache
}

// NewHTTPStore creates an HTTPStore for the given base URL. The token may
// be empty when the store does not require authentication. cacheTTL <= 0
// selects the default.
func NewHTTPStore(baseURL, token string, cacheTTL time.Duration) *HTTPStore {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	return &HTTPStore{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: defaultTimeout},
		cache:   gocache.New(cacheTTL, defaultCacheSweep),
	}
}

// Fetch retrieves a record by ID, serving repeat requests from the cache
// until the TTL lapses.
func (s *HTTPStore) Fetch(ctx context.Context, id string) (Record, error) {
	if id == "" {
		return nil, ErrEmptyRecordID
	}

	if cached, found := s.cache.Get(id); found {
		rec, ok := cached.(Record)
		if ok {
			slog.Debug("record: cache hit", "id", id)

			return rec, nil
		}
	}

	rec, err := s.fetchRemote(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(id, rec)

	return rec, nil
}

func (s *HTTPStore) fetchRemote(ctx context.Context, id string) (Record, error) {
	endpoint := s.baseURL + "/records/" + url.PathEscape(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building record request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching record %q: %w", id, err)
	}
	defer resp.Body.Close() //nolint:errcheck // nothing to do with a close error on a read body

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("record %q: %w", id, ErrRecordNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("record %q: %w: %d", id, ErrStoreStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRecordBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading record %q body: %w", id, err)
	}

	return Decode(body)
}
