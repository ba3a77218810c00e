package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wahajaslm/tarco/internal/calibrate"
	"github.com/wahajaslm/tarco/internal/config"
	"github.com/wahajaslm/tarco/internal/domain"
	"github.com/wahajaslm/tarco/internal/port"
	"github.com/wahajaslm/tarco/internal/service"
	"github.com/wahajaslm/tarco/mocks"
)

func classifyRouter(t *testing.T) (*gin.Engine, *mocks.MockEmbedder, *mocks.MockVectorIndex, *mocks.MockReranker, *mocks.MockSessionStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	embedder := &mocks.MockEmbedder{}
	index := &mocks.MockVectorIndex{}
	reranker := &mocks.MockReranker{}
	sessions := &mocks.MockSessionStore{}
	refs := &mocks.MockReferenceRepository{}

	calibrator := calibrate.New(0.62, 0.07)
	require.NoError(t, calibrator.SetModel(calibrate.Model{
		Means:   []float64{0, 0, 0, 0, 0},
		Stds:    []float64{1, 1, 1, 1, 1},
		Weights: []float64{2, 0, 0, 0, 0},
		Trained: true,
	}))

	svc := service.NewClassifyService(embedder, index, reranker, calibrator, sessions, refs, config.ClassifyConfig{
		ConfidenceThreshold: 0.62,
		MarginThreshold:     0.07,
		TopKRetrieval:       32,
		TopKRerank:          5,
	})
	h := NewClassifyHandler(svc)

	r := gin.New()
	r.POST("/classify", h.Classify)
	r.POST("/classify/answer", h.Answer)
	return r, embedder, index, reranker, sessions
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestClassifyEndpoint(t *testing.T) {
	r, embedder, index, reranker, _ := classifyRouter(t)

	top, second := 2.0, 1.0
	embedder.On("Embed", mock.Anything, "cotton hoodie").Return([]float32{0.1}, nil)
	index.On("Search", mock.Anything, mock.Anything, 32, map[string]string(nil)).Return([]port.SearchResult{
		{Score: 0.9, Code: "61102000", Text: "cotton pullovers"},
		{Score: 0.8, Code: "61103000", Text: "synthetic pullovers"},
	}, nil)
	reranker.On("Rerank", mock.Anything, "cotton hoodie", mock.Anything, 5).Return([]domain.Candidate{
		{Code: "61102000", Text: "cotton pullovers", RerankScore: &top},
		{Code: "61103000", Text: "synthetic pullovers", RerankScore: &second},
	}, nil)

	w := postJSON(t, r, "/classify", gin.H{"product_description": "cotton hoodie"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Result domain.ClassificationResult `json:"result"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "61102000", resp.Data.Result.Code)
	assert.False(t, resp.Data.Result.Abstained)
}

func TestClassifyEndpointMissingBody(t *testing.T) {
	r, _, _, _, _ := classifyRouter(t)
	w := postJSON(t, r, "/classify", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnswerEndpointConsumedSession(t *testing.T) {
	r, _, _, _, sessions := classifyRouter(t)
	sessions.On("Get", mock.Anything, "gone").Return(nil, domain.ErrSessionNotFound)

	w := postJSON(t, r, "/classify/answer", gin.H{"question_id": "gone", "selected_option": "a"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "SESSION_NOT_FOUND", resp.Error.Code)
}

func TestAnswerEndpointResolves(t *testing.T) {
	r, _, _, _, sessions := classifyRouter(t)
	score := 1.2
	session := &domain.ClarificationSession{
		ID: "session-1",
		PendingCandidates: []domain.Candidate{
			{Code: "61102000", Text: "cotton pullovers", RerankScore: &score},
		},
	}
	sessions.On("Get", mock.Anything, "session-1").Return(session, nil)
	sessions.On("Consume", mock.Anything, "session-1").Return(session, nil)

	w := postJSON(t, r, "/classify/answer", gin.H{"question_id": "session-1", "selected_option": "a"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data domain.ClassificationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "61102000", resp.Data.Code)
	assert.Equal(t, 1.0, resp.Data.Confidence)
	assert.Equal(t, domain.MethodProvidedByUser, resp.Data.Method)
}
