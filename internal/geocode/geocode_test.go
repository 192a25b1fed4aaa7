package geocode

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oikia/backend-go/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newUncachedSearcher(baseURL string) Searcher {
	cfg := &config.Config{AddressAPIBaseURL: baseURL, AddressCacheTTL: 600}
	return NewSearcher(cfg, nil, testLogger())
}

func TestSearch_ProxiesUpstream(t *testing.T) {
	var gotQuery, gotLimit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer server.Close()

	searcher := newUncachedSearcher(server.URL)

	result, err := searcher.Search(context.Background(), "10 rue de rivoli paris")
	require.NoError(t, err)

	assert.Equal(t, "10 rue de rivoli paris", gotQuery)
	assert.Equal(t, "5", gotLimit)
	assert.False(t, result.Cached)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(result.Payload))
}

func TestSearch_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	searcher := newUncachedSearcher(server.URL)

	_, err := searcher.Search(context.Background(), "anywhere")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestSearch_InvalidPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	searcher := newUncachedSearcher(server.URL)

	_, err := searcher.Search(context.Background(), "anywhere")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestSearch_NoCacheHitsUpstreamEveryTime(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer server.Close()

	searcher := newUncachedSearcher(server.URL)

	for i := 0; i < 3; i++ {
		_, err := searcher.Search(context.Background(), "same query")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}
