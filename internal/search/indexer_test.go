package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/estatehub/estatehub-backend/internal/domain"
	"github.com/estatehub/estatehub-backend/pkg/elasticsearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	body   string
}

func newIndexer(t *testing.T) (*ESIndexer, func() []recorded) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/" {
			_, _ = io.WriteString(w, `{"version":{"number":"8.15.0","build_flavor":"default"}}`)
			return
		}
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, recorded{r.Method, r.URL.Path, string(body)})
		mu.Unlock()

		switch {
		case r.Method == http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case strings.HasSuffix(r.URL.Path, "/_search"):
			_, _ = io.WriteString(w, `{"suggest":{"autocomplete":[{"options":[{"text":"Sea View Flat"}]}]}}`)
		default:
			_, _ = io.WriteString(w, `{"result":"ok","acknowledged":true}`)
		}
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	idx, err := NewESIndexer(context.Background(), client, "listings")
	require.NoError(t, err)

	return idx, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), calls...)
	}
}

func TestNewESIndexerCreatesIndex(t *testing.T) {
	_, calls := newIndexer(t)
	got := calls()
	require.Len(t, got, 2)
	assert.Equal(t, http.MethodHead, got[0].method)
	assert.Equal(t, http.MethodPut, got[1].method)
	assert.Contains(t, got[1].body, `"completion"`)
}

func TestIndexPublicListing(t *testing.T) {
	idx, calls := newIndexer(t)
	l := &domain.Listing{ID: "l-1", Title: "Sea View Flat", City: "Mumbai", Moderation: domain.ModerationPublished}

	require.NoError(t, idx.Index(context.Background(), l))
	last := calls()[len(calls())-1]
	assert.Equal(t, "/listings/_doc/l-1", last.path)

	var doc ListingDocument
	require.NoError(t, json.Unmarshal([]byte(last.body), &doc))
	assert.Equal(t, []string{"Sea View Flat", "Sea View Flat Mumbai"}, doc.TitleSuggest)
}

func TestIndexNonPublicListingRemovesIt(t *testing.T) {
	idx, calls := newIndexer(t)
	l := &domain.Listing{ID: "l-2", Title: "Draft", Moderation: domain.ModerationDraft}

	require.NoError(t, idx.Index(context.Background(), l))
	last := calls()[len(calls())-1]
	assert.Equal(t, http.MethodDelete, last.method)
	assert.Equal(t, "/listings/_doc/l-2", last.path)
}

func TestSuggest(t *testing.T) {
	idx, _ := newIndexer(t)

	got, err := idx.Suggest(context.Background(), "sea", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sea View Flat"}, got)

	empty, err := idx.Suggest(context.Background(), "  ", 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNop(t *testing.T) {
	var idx Indexer = Nop{}
	got, err := idx.Suggest(context.Background(), "sea", 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
