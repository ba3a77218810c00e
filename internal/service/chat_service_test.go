package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wahajaslm/tarco/internal/domain"
	"github.com/wahajaslm/tarco/internal/port"
	"github.com/wahajaslm/tarco/mocks"
)

func TestChatResolveEndToEnd(t *testing.T) {
	cf := newClassifyFixture(t, trainedCalibrator(t))
	bf := newBuilderFixture(t)
	bf.expectHappyPath()

	extractor := &mocks.MockQueryExtractor{}
	extractor.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractedQuery{
		Origin:             "PK",
		Destination:        "DE",
		ProductDescription: "cotton hoodie",
	}, nil)

	explainer := &mocks.MockExplainer{}
	explainer.On("Annotate", mock.Anything, mock.Anything).Return(&domain.Annotations{
		HumanSummary:       "A cotton pullover imported from Pakistan into Germany.",
		HallucinationGuard: true,
	}, nil)

	vector := []float32{0.1}
	cf.embedder.On("Embed", mock.Anything, "cotton hoodie").Return(vector, nil)
	cf.index.On("Search", mock.Anything, vector, 32, map[string]string(nil)).Return([]port.SearchResult{
		{Score: 0.91, Code: "61102000", Text: "cotton pullovers"},
		{Score: 0.85, Code: "61103000", Text: "synthetic pullovers"},
	}, nil)
	cf.reranker.On("Rerank", mock.Anything, "cotton hoodie", mock.Anything, 5).Return([]domain.Candidate{
		rerankScored("61102000", "cotton pullovers", 2.0),
		rerankScored("61103000", "synthetic pullovers", 1.0),
	}, nil)

	chat := NewChatService(extractor, cf.svc, bf.svc, explainer)
	outcome, err := chat.Resolve(context.Background(), "I want to ship cotton hoodies from Pakistan to Germany")
	require.NoError(t, err)

	assert.False(t, outcome.Result.Abstained)
	assert.Equal(t, "61102000", outcome.Result.Code)
	require.NotNil(t, outcome.Response)
	assert.Equal(t, "61102000", outcome.Response.QueryParameters.Code)
	require.NotNil(t, outcome.Response.ClassificationMeta)
	assert.Equal(t, domain.MethodRetrievalRerankCalibrate, outcome.Response.ClassificationMeta.Method)
	require.NotNil(t, outcome.Response.Annotations)
	assert.True(t, outcome.Response.Annotations.HallucinationGuard)
}

func TestChatResolveWithoutRouteSkipsPayload(t *testing.T) {
	cf := newClassifyFixture(t, trainedCalibrator(t))
	bf := newBuilderFixture(t)

	extractor := &mocks.MockQueryExtractor{}
	extractor.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractedQuery{
		ProductDescription: "cotton hoodie",
	}, nil)

	vector := []float32{0.1}
	cf.embedder.On("Embed", mock.Anything, "cotton hoodie").Return(vector, nil)
	cf.index.On("Search", mock.Anything, vector, 32, map[string]string(nil)).Return([]port.SearchResult{
		{Score: 0.91, Code: "61102000", Text: "cotton pullovers"},
		{Score: 0.85, Code: "61103000", Text: "synthetic pullovers"},
	}, nil)
	cf.reranker.On("Rerank", mock.Anything, "cotton hoodie", mock.Anything, 5).Return([]domain.Candidate{
		rerankScored("61102000", "cotton pullovers", 2.0),
		rerankScored("61103000", "synthetic pullovers", 1.0),
	}, nil)

	chat := NewChatService(extractor, cf.svc, bf.svc, nil)
	outcome, err := chat.Resolve(context.Background(), "what is the code for cotton hoodies?")
	require.NoError(t, err)

	assert.Equal(t, "61102000", outcome.Result.Code)
	assert.Nil(t, outcome.Response)
	bf.refs.AssertNotCalled(t, "ImportMeasures", mock.Anything, mock.Anything, mock.Anything)
}

func TestChatAnswerCompletesOriginalQuery(t *testing.T) {
	cf := newClassifyFixture(t, trainedCalibrator(t))
	bf := newBuilderFixture(t)
	bf.expectHappyPath()

	session := &domain.ClarificationSession{
		ID:            "session-1",
		OriginalQuery: "hoodie",
		Origin:        "PK",
		Destination:   "DE",
		PendingCandidates: []domain.Candidate{
			rerankScored("61102000", "cotton pullovers", 1.2),
			rerankScored("61103000", "synthetic pullovers", 1.1),
		},
	}
	cf.sessions.On("Get", mock.Anything, "session-1").Return(session, nil)
	cf.sessions.On("Consume", mock.Anything, "session-1").Return(session, nil)

	chat := NewChatService(&mocks.MockQueryExtractor{}, cf.svc, bf.svc, nil)
	outcome, err := chat.Answer(context.Background(), "session-1", "a")
	require.NoError(t, err)

	assert.Equal(t, "61102000", outcome.Result.Code)
	assert.Equal(t, 1.0, outcome.Result.Confidence)
	assert.Equal(t, domain.MethodProvidedByUser, outcome.Result.Method)
	require.NotNil(t, outcome.Response)
	require.NotNil(t, outcome.Response.ClassificationMeta)
	assert.Equal(t, domain.MethodProvidedByUser, outcome.Response.ClassificationMeta.Method)
}

func TestChatResolveFallsBackToRawMessage(t *testing.T) {
	cf := newClassifyFixture(t, trainedCalibrator(t))
	bf := newBuilderFixture(t)

	extractor := &mocks.MockQueryExtractor{}
	extractor.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractedQuery{}, nil)

	vector := []float32{0.1}
	cf.embedder.On("Embed", mock.Anything, "wool scarves").Return(vector, nil)
	cf.index.On("Search", mock.Anything, vector, 32, map[string]string(nil)).Return([]port.SearchResult{}, nil)

	chat := NewChatService(extractor, cf.svc, bf.svc, nil)
	outcome, err := chat.Resolve(context.Background(), "wool scarves")
	require.NoError(t, err)
	assert.True(t, outcome.Result.Abstained)
	assert.Equal(t, domain.ReasonNoCandidatesRetrieved, outcome.Result.Reason)
}
