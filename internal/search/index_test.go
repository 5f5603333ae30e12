package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStubIndex fakes an Elasticsearch node. The v8 client checks the
// product header on every response.
func newStubIndex(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Index, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	idx, err := New(Config{Addresses: []string{server.URL}}, logger.NewNoOp())
	require.NoError(t, err)
	return idx, server
}

func TestBulkIndex(t *testing.T) {
	var bulkBody string
	idx, _ := newStubIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/_bulk") {
			body, _ := io.ReadAll(r.Body)
			bulkBody = string(body)
			_, _ = w.Write([]byte(`{"errors":false,"items":[]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	rows := []domain.Internship{
		{Key: "acme|intern|https://example.com/1", Title: "Software Intern", Company: "Acme"},
		{Key: "globex|intern|https://example.com/2", Title: "Data Intern", Company: "Globex"},
	}

	err := idx.BulkIndex(context.Background(), rows)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(bulkBody), "\n")
	require.Len(t, lines, 4)

	var action map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &action))
	assert.Equal(t, "internships", action["index"]["_index"])
	assert.Equal(t, "acme|intern|https://example.com/1", action["index"]["_id"])
}

func TestBulkIndexEmpty(t *testing.T) {
	idx, _ := newStubIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected for empty batch")
	})

	require.NoError(t, idx.BulkIndex(context.Background(), nil))
}

func TestSearch(t *testing.T) {
	idx, _ := newStubIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/_search") {
			_, _ = w.Write([]byte(`{
				"hits": {"hits": [
					{"_source": {"key": "acme|intern|https://example.com/1", "title": "Software Intern", "company": "Acme"}}
				]}
			}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	rows, err := idx.Search(context.Background(), "software", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Software Intern", rows[0].Title)
	assert.Equal(t, "Acme", rows[0].Company)
}
