package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wahajaslm/tarco/internal/config"
)

func embedderFor(t *testing.T, handler http.HandlerFunc) *OllamaEmbedder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOllamaEmbedder(&config.ModelsConfig{
		OllamaURL:      srv.URL,
		EmbeddingModel: "all-minilm",
		TimeoutSecs:    5,
	}, 3)
}

func TestEmbed(t *testing.T) {
	e := embedderFor(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/api/embeddings", req.URL.Path)
		var body struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "all-minilm", body.Model)
		assert.Equal(t, "cotton pullovers", body.Prompt)
		json.NewEncoder(w).Encode(map[string]interface{}{"embedding": []float32{0.1, 0.2, 0.3}})
	})

	vec, err := e.Embed(context.Background(), "cotton pullovers")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, 3, e.Dimension())
}

func TestEmbedEmptyVector(t *testing.T) {
	e := embedderFor(t, func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"embedding": []float32{}})
	})

	_, err := e.Embed(context.Background(), "anything")
	assert.Error(t, err)
}

func TestEmbedServerError(t *testing.T) {
	e := embedderFor(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := e.Embed(context.Background(), "anything")
	assert.Error(t, err)
}
