package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wahajaslm/tarco/internal/config"
	"github.com/wahajaslm/tarco/internal/port"
)

func indexFor(t *testing.T, handler http.HandlerFunc) *Index {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(&config.QdrantConfig{URL: srv.URL, Collection: "nomenclature_chunks", Dimension: 3})
}

func TestEnsureCollectionTreatsConflictAsSuccess(t *testing.T) {
	q := indexFor(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, http.MethodPut, req.Method)
		assert.Equal(t, "/collections/nomenclature_chunks", req.URL.Path)
		w.WriteHeader(http.StatusConflict)
	})
	assert.NoError(t, q.EnsureCollection(context.Background()))
}

func TestIndexAssignsPointIDs(t *testing.T) {
	q := indexFor(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/collections/nomenclature_chunks/points", req.URL.Path)
		var body struct {
			Points []struct {
				ID      string                 `json:"id"`
				Payload map[string]interface{} `json:"payload"`
			} `json:"points"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		require.Len(t, body.Points, 2)
		assert.NotEmpty(t, body.Points[0].ID)
		assert.NotEqual(t, body.Points[0].ID, body.Points[1].ID)
		assert.Equal(t, "61102000", body.Points[0].Payload["code"])
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	})

	err := q.Index(context.Background(), []port.IndexPoint{
		{Vector: []float32{1, 0, 0}, Code: "61102000", Text: "cotton pullovers"},
		{Vector: []float32{0, 1, 0}, Code: "61103000", Text: "synthetic pullovers"},
	})
	assert.NoError(t, err)
}

func TestSearchParsesHits(t *testing.T) {
	q := indexFor(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/collections/nomenclature_chunks/points/search", req.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": []map[string]interface{}{
				{"score": 0.91, "payload": map[string]string{"code": "61102000", "text": "cotton pullovers", "level": "8"}},
			},
		})
	})

	results, err := q.Search(context.Background(), []float32{1, 0, 0}, 5, map[string]string{"level": "8"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0.91, results[0].Score)
	assert.Equal(t, "61102000", results[0].Code)
	assert.Equal(t, "cotton pullovers", results[0].Text)
	assert.Equal(t, "8", results[0].Metadata["level"])
}

func TestCount(t *testing.T) {
	q := indexFor(t, func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"result": map[string]int{"count": 42}})
	})

	n, err := q.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}
