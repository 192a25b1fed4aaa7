// Package geocode queries the national address search API, with a Redis
// read-through cache in front of it.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/oikia/backend-go/internal/config"
	"github.com/oikia/backend-go/internal/database"
)

// ErrUpstream indicates the address API answered with a non-success status.
var ErrUpstream = errors.New("address search upstream error")

const searchLimit = 5

// SearchResult is the GeoJSON feature collection returned by the address API,
// passed through untouched.
type SearchResult struct {
	Payload json.RawMessage
	Cached  bool
}

// Searcher resolves free-text address queries.
type Searcher interface {
	Search(ctx context.Context, query string) (*SearchResult, error)
}

type searcher struct {
	baseURL string
	cache   *database.RedisClient
	ttl     time.Duration
	client  *http.Client
	logger  *slog.Logger
}

// NewSearcher creates a new address searcher instance. The cache may be nil;
// every query then goes to the upstream API.
func NewSearcher(cfg *config.Config, cache *database.RedisClient, logger *slog.Logger) Searcher {
	return &searcher{
		baseURL: cfg.AddressAPIBaseURL,
		cache:   cache,
		ttl:     time.Duration(cfg.AddressCacheTTL) * time.Second,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

func cacheKey(query string) string {
	return "address:search:" + query
}

// Search returns up to five candidate addresses for the query. Cache hits
// skip the upstream call entirely.
func (s *searcher) Search(ctx context.Context, query string) (*SearchResult, error) {
	key := cacheKey(query)

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return &SearchResult{Payload: json.RawMessage(cached), Cached: true}, nil
		}
	}

	endpoint := fmt.Sprintf("%s/search/?q=%s&limit=%d", s.baseURL, url.QueryEscape(query), searchLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("address search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("⚠️ [Geocode] Upstream returned non-OK status", "status", resp.StatusCode, "query", query)
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("address search: %w", err)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: invalid payload", ErrUpstream)
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, string(body), s.ttl)
	}

	return &SearchResult{Payload: body, Cached: false}, nil
}
