package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wahajaslm/tarco/internal/calibrate"
	"github.com/wahajaslm/tarco/internal/config"
	"github.com/wahajaslm/tarco/internal/domain"
	"github.com/wahajaslm/tarco/internal/port"
	"github.com/wahajaslm/tarco/mocks"
)

var classifyCfg = config.ClassifyConfig{
	ConfidenceThreshold: 0.62,
	MarginThreshold:     0.07,
	TopKRetrieval:       32,
	TopKRerank:          5,
}

type classifyFixture struct {
	embedder *mocks.MockEmbedder
	index    *mocks.MockVectorIndex
	reranker *mocks.MockReranker
	sessions *mocks.MockSessionStore
	refs     *mocks.MockReferenceRepository
	svc      *ClassifyService
}

func newClassifyFixture(t *testing.T, calibrator *calibrate.Calibrator) *classifyFixture {
	t.Helper()
	f := &classifyFixture{
		embedder: &mocks.MockEmbedder{},
		index:    &mocks.MockVectorIndex{},
		reranker: &mocks.MockReranker{},
		sessions: &mocks.MockSessionStore{},
		refs:     &mocks.MockReferenceRepository{},
	}
	f.svc = NewClassifyService(f.embedder, f.index, f.reranker, calibrator, f.sessions, f.refs, classifyCfg)
	return f
}

func trainedCalibrator(t *testing.T) *calibrate.Calibrator {
	t.Helper()
	c := calibrate.New(0.62, 0.07)
	require.NoError(t, c.SetModel(calibrate.Model{
		Means:   []float64{0, 0, 0, 0, 0},
		Stds:    []float64{1, 1, 1, 1, 1},
		Weights: []float64{2, 0, 0, 0, 0},
		Trained: true,
	}))
	return c
}

func rerankScored(code, text string, score float64) domain.Candidate {
	return domain.Candidate{Code: code, Text: text, RerankScore: &score}
}

func TestClassifySuccess(t *testing.T) {
	f := newClassifyFixture(t, trainedCalibrator(t))

	vector := []float32{0.1, 0.2}
	f.embedder.On("Embed", mock.Anything, "cotton hoodie").Return(vector, nil)
	f.index.On("Search", mock.Anything, vector, 32, map[string]string(nil)).Return([]port.SearchResult{
		{Score: 0.91, Code: "61102000", Text: "cotton pullovers"},
		{Score: 0.85, Code: "61103000", Text: "synthetic pullovers"},
	}, nil)
	f.reranker.On("Rerank", mock.Anything, "cotton hoodie", mock.Anything, 5).Return([]domain.Candidate{
		rerankScored("61102000", "cotton pullovers", 2.0),
		rerankScored("61103000", "synthetic pullovers", 1.0),
	}, nil)

	outcome, err := f.svc.Classify(context.Background(), "cotton hoodie", "PK", "DE")
	require.NoError(t, err)

	assert.False(t, outcome.Result.Abstained)
	assert.Equal(t, "61102000", outcome.Result.Code)
	assert.Equal(t, domain.MethodRetrievalRerankCalibrate, outcome.Result.Method)
	assert.Greater(t, outcome.Result.Confidence, 0.62)
	assert.Equal(t, 1.0, outcome.Result.Margin)
	assert.Nil(t, outcome.Question)
}

func TestClassifySingleCandidateAbstainsOnZeroMargin(t *testing.T) {
	// One reranked candidate has no runner-up, so the margin is zero no
	// matter how high its score. The feature gap still equals the top
	// score, which must not leak into the margin decision.
	f := newClassifyFixture(t, trainedCalibrator(t))

	f.embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	f.index.On("Search", mock.Anything, mock.Anything, 32, map[string]string(nil)).Return([]port.SearchResult{
		{Score: 0.91, Code: "61102000", Text: "cotton pullovers"},
	}, nil)
	f.reranker.On("Rerank", mock.Anything, mock.Anything, mock.Anything, 5).Return([]domain.Candidate{
		rerankScored("61102000", "cotton pullovers", 2.0),
	}, nil)
	f.refs.On("GetItem", mock.Anything, "61102000").Return(&domain.ReferenceItem{Code: "61102000"}, nil)

	outcome, err := f.svc.Classify(context.Background(), "cotton hoodie", "", "")
	require.NoError(t, err)

	assert.True(t, outcome.Result.Abstained)
	assert.Equal(t, domain.ReasonLowConfidence, outcome.Result.Reason)
	assert.Equal(t, 0.0, outcome.Result.Margin)
	assert.Empty(t, outcome.Result.Code)
	f.sessions.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestClassifyEmptyDescription(t *testing.T) {
	f := newClassifyFixture(t, trainedCalibrator(t))
	_, err := f.svc.Classify(context.Background(), "", "", "")
	assert.True(t, errors.Is(err, domain.ErrMissingDescription))
}

func TestClassifyNoCandidatesRetrieved(t *testing.T) {
	f := newClassifyFixture(t, trainedCalibrator(t))
	f.embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	f.index.On("Search", mock.Anything, mock.Anything, 32, map[string]string(nil)).Return([]port.SearchResult{}, nil)

	outcome, err := f.svc.Classify(context.Background(), "unknowable widget", "", "")
	require.NoError(t, err)
	assert.True(t, outcome.Result.Abstained)
	assert.Equal(t, domain.ReasonNoCandidatesRetrieved, outcome.Result.Reason)
	assert.Empty(t, outcome.Result.Code)
}

func TestClassifyEmbeddingFailureFailsClosed(t *testing.T) {
	f := newClassifyFixture(t, trainedCalibrator(t))
	f.embedder.On("Embed", mock.Anything, mock.Anything).Return(nil, errors.New("model down"))

	outcome, err := f.svc.Classify(context.Background(), "cotton hoodie", "", "")
	require.NoError(t, err)
	assert.True(t, outcome.Result.Abstained)
	assert.Equal(t, domain.ReasonClassificationError, outcome.Result.Reason)
}

func TestClassifyRerankFailureFailsClosed(t *testing.T) {
	f := newClassifyFixture(t, trainedCalibrator(t))
	f.embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	f.index.On("Search", mock.Anything, mock.Anything, 32, map[string]string(nil)).Return([]port.SearchResult{
		{Score: 0.9, Code: "6110", Text: "pullovers"},
	}, nil)
	f.reranker.On("Rerank", mock.Anything, mock.Anything, mock.Anything, 5).Return(nil, domain.ErrRerankUnavailable)

	outcome, err := f.svc.Classify(context.Background(), "cotton hoodie", "", "")
	require.NoError(t, err)
	assert.True(t, outcome.Result.Abstained)
	assert.Equal(t, domain.ReasonClassificationError, outcome.Result.Reason)
}

func TestClassifyLowConfidenceBuildsQuestion(t *testing.T) {
	// An untrained calibrator scores 0.5, which is below the threshold.
	f := newClassifyFixture(t, calibrate.New(0.62, 0.07))

	f.embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	f.index.On("Search", mock.Anything, mock.Anything, 32, map[string]string(nil)).Return([]port.SearchResult{
		{Score: 0.91, Code: "61102000", Text: "cotton pullovers"},
		{Score: 0.85, Code: "61103000", Text: "synthetic pullovers"},
	}, nil)
	f.reranker.On("Rerank", mock.Anything, mock.Anything, mock.Anything, 5).Return([]domain.Candidate{
		rerankScored("61102000", "cotton pullovers", 1.2),
		rerankScored("61103000", "synthetic pullovers", 1.1),
	}, nil)
	f.refs.On("GetItem", mock.Anything, "61102000").Return(&domain.ReferenceItem{Code: "61102000"}, nil)
	f.refs.On("GetItem", mock.Anything, "61103000").Return(&domain.ReferenceItem{Code: "61103000"}, nil)
	f.sessions.On("Put", mock.Anything, mock.Anything).Return(nil)

	outcome, err := f.svc.Classify(context.Background(), "hoodie", "PK", "DE")
	require.NoError(t, err)

	assert.True(t, outcome.Result.Abstained)
	assert.Equal(t, domain.ReasonLowConfidence, outcome.Result.Reason)
	assert.Equal(t, 0.5, outcome.Result.Confidence)

	require.NotNil(t, outcome.Question)
	assert.NotEmpty(t, outcome.Question.ID)
	require.Len(t, outcome.Question.Options, 2)
	assert.Equal(t, "a", outcome.Question.Options[0].ID)
	assert.Equal(t, "b", outcome.Question.Options[1].ID)
	assert.Equal(t, "61102000", outcome.Question.Options[0].Code)

	stored := f.sessions.Calls[0].Arguments.Get(1).(*domain.ClarificationSession)
	assert.Equal(t, outcome.Question.ID, stored.ID)
	assert.Equal(t, "PK", stored.Origin)
	assert.Equal(t, "DE", stored.Destination)
}

func TestClassifyLowConfidenceWithOneResolvableCandidateHasNoQuestion(t *testing.T) {
	f := newClassifyFixture(t, calibrate.New(0.62, 0.07))

	f.embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	f.index.On("Search", mock.Anything, mock.Anything, 32, map[string]string(nil)).Return([]port.SearchResult{
		{Score: 0.91, Code: "61102000", Text: "cotton pullovers"},
		{Score: 0.85, Code: "99999999", Text: "stale entry"},
	}, nil)
	f.reranker.On("Rerank", mock.Anything, mock.Anything, mock.Anything, 5).Return([]domain.Candidate{
		rerankScored("61102000", "cotton pullovers", 1.2),
		rerankScored("99999999", "stale entry", 1.1),
	}, nil)
	f.refs.On("GetItem", mock.Anything, "61102000").Return(&domain.ReferenceItem{Code: "61102000"}, nil)
	f.refs.On("GetItem", mock.Anything, "99999999").Return(nil, domain.ErrNotFound)

	outcome, err := f.svc.Classify(context.Background(), "hoodie", "", "")
	require.NoError(t, err)
	assert.True(t, outcome.Result.Abstained)
	assert.Nil(t, outcome.Question)
	f.sessions.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestAnswerClarification(t *testing.T) {
	f := newClassifyFixture(t, trainedCalibrator(t))
	session := &domain.ClarificationSession{
		ID:            "session-1",
		OriginalQuery: "hoodie",
		Origin:        "PK",
		Destination:   "DE",
		PendingCandidates: []domain.Candidate{
			rerankScored("61102000", "cotton pullovers", 1.2),
			rerankScored("61103000", "synthetic pullovers", 1.1),
		},
		CreatedAt: time.Now(),
	}
	f.sessions.On("Get", mock.Anything, "session-1").Return(session, nil)
	f.sessions.On("Consume", mock.Anything, "session-1").Return(session, nil)

	result, got, err := f.svc.AnswerClarification(context.Background(), "session-1", "b")
	require.NoError(t, err)
	assert.Equal(t, session, got)
	assert.Equal(t, "61103000", result.Code)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, domain.MethodProvidedByUser, result.Method)
	assert.True(t, result.ClarificationUsed)
	assert.Equal(t, "b", result.SelectedOption)
}

func TestAnswerClarificationInvalidOptionKeepsSession(t *testing.T) {
	f := newClassifyFixture(t, trainedCalibrator(t))
	session := &domain.ClarificationSession{
		ID:                "session-1",
		PendingCandidates: []domain.Candidate{rerankScored("61102000", "cotton pullovers", 1.2)},
		CreatedAt:         time.Now(),
	}
	f.sessions.On("Get", mock.Anything, "session-1").Return(session, nil)

	_, _, err := f.svc.AnswerClarification(context.Background(), "session-1", "z")
	assert.True(t, errors.Is(err, domain.ErrInvalidOption))

	// A mistyped option must not burn the session; a corrected retry
	// still succeeds.
	f.sessions.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything)
	f.sessions.On("Consume", mock.Anything, "session-1").Return(session, nil)

	result, _, err := f.svc.AnswerClarification(context.Background(), "session-1", "a")
	require.NoError(t, err)
	assert.Equal(t, "61102000", result.Code)
}

func TestAnswerClarificationConsumedSession(t *testing.T) {
	f := newClassifyFixture(t, trainedCalibrator(t))
	f.sessions.On("Get", mock.Anything, "session-1").Return(nil, domain.ErrSessionNotFound)

	_, _, err := f.svc.AnswerClarification(context.Background(), "session-1", "a")
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
}
