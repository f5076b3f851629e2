package elasticsearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"myMarketplace/domain"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	body   string
}

func newTestIndex(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*ProductIndex, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{method: r.Method, path: r.URL.Path, body: string(body)})
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	return NewProductIndex(client, "products"), &requests
}

func TestProductIndex_Index(t *testing.T) {
	idx, requests := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	err := idx.Index(context.Background(), domain.Product{ID: 7, SellerID: 2, Name: "Kettle", Price: 99})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/products/_doc/7", req.path)

	var doc productDocument
	require.NoError(t, json.Unmarshal([]byte(req.body), &doc))
	assert.Equal(t, "Kettle", doc.Name)
}

func TestProductIndex_Search(t *testing.T) {
	idx, requests := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":2},"hits":[{"_source":{"id":5}},{"_source":{"id":3}}]}}`))
	})

	total, ids, err := idx.Search(context.Background(), "ketle", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []uint{5, 3}, ids)

	require.Len(t, *requests, 1)
	assert.Equal(t, "/products/_search", (*requests)[0].path)
	assert.True(t, strings.Contains((*requests)[0].body, `"multi_match"`))
	assert.True(t, strings.Contains((*requests)[0].body, `"fuzziness":"AUTO"`))
}

func TestProductIndex_DeleteIgnoresMissing(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})

	assert.NoError(t, idx.Delete(context.Background(), 9))
}

func TestProductIndex_SearchError(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})

	_, _, err := idx.Search(context.Background(), "x", 0, 10)
	assert.Error(t, err)
}
