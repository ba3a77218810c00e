package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/wahajaslm/tarco/internal/calibrate"
	"github.com/wahajaslm/tarco/internal/config"
	"github.com/wahajaslm/tarco/internal/domain"
	"github.com/wahajaslm/tarco/internal/port"
	"github.com/wahajaslm/tarco/internal/rerank"
)

// optionIDs are assigned to clarifying options by position.
var optionIDs = []string{"a", "b", "c"}

// maxClarifyOptions caps the clarifying question at the top three resolvable
// candidates.
const maxClarifyOptions = 3

// ClassifyOutcome is what a classification request produces: a terminal
// result, and, when the pipeline abstained with enough distinct candidates, a
// clarifying question the caller can answer.
type ClassifyOutcome struct {
	Result   domain.ClassificationResult `json:"result"`
	Question *domain.ClarifyingQuestion  `json:"clarifying_question,omitempty"`
}

// ClassifyService runs the retrieval, reranking, and calibration pipeline.
// Every failure inside the pipeline surfaces as an abstention, never as a
// guessed code.
type ClassifyService struct {
	embedder   port.Embedder
	index      port.VectorIndex
	reranker   port.Reranker
	calibrator *calibrate.Calibrator
	sessions   port.SessionStore
	refs       port.ReferenceRepository
	cfg        config.ClassifyConfig
}

// NewClassifyService creates the classification pipeline service.
func NewClassifyService(
	embedder port.Embedder,
	index port.VectorIndex,
	reranker port.Reranker,
	calibrator *calibrate.Calibrator,
	sessions port.SessionStore,
	refs port.ReferenceRepository,
	cfg config.ClassifyConfig,
) *ClassifyService {
	return &ClassifyService{
		embedder:   embedder,
		index:      index,
		reranker:   reranker,
		calibrator: calibrator,
		sessions:   sessions,
		refs:       refs,
		cfg:        cfg,
	}
}

// Classify maps a free-text product description to a commodity code or
// abstains. Origin and destination are carried into the clarification session
// so an answered question can resume the original request.
func (s *ClassifyService) Classify(ctx context.Context, description, origin, destination string) (*ClassifyOutcome, error) {
	if description == "" {
		return nil, domain.ErrMissingDescription
	}

	vector, err := s.embedder.Embed(ctx, description)
	if err != nil {
		log.Printf("classify service: embedding failed: %v", err)
		return abstain(domain.ReasonClassificationError), nil
	}

	hits, err := s.index.Search(ctx, vector, s.cfg.TopKRetrieval, nil)
	if err != nil {
		log.Printf("classify service: retrieval failed: %v", err)
		return abstain(domain.ReasonClassificationError), nil
	}
	if len(hits) == 0 {
		return abstain(domain.ReasonNoCandidatesRetrieved), nil
	}

	candidates := make([]domain.Candidate, len(hits))
	for i, h := range hits {
		candidates[i] = domain.Candidate{
			Code:           h.Code,
			Text:           h.Text,
			RetrievalScore: h.Score,
		}
	}

	reranked, err := s.reranker.Rerank(ctx, description, candidates, s.cfg.TopKRerank)
	if err != nil {
		log.Printf("classify service: reranking failed: %v", err)
		return abstain(domain.ReasonClassificationError), nil
	}
	if len(reranked) == 0 {
		return abstain(domain.ReasonNoCandidatesAfterReranking), nil
	}

	features := rerank.Features(reranked)
	if !finite(features) {
		log.Printf("classify service: non-finite features for query %q", description)
		return abstain(domain.ReasonInsufficientFeatures), nil
	}

	confidence := s.calibrator.Score(features)

	// The decision margin is the distance between the two best reranked
	// scores. A lone candidate has no runner-up to beat, so its margin is
	// zero and the margin threshold forces an abstention.
	margin := 0.0
	if len(reranked) >= 2 {
		margin = candidateScore(reranked[0]) - candidateScore(reranked[1])
	}

	if doAbstain, reason := s.calibrator.Decide(confidence, margin); doAbstain {
		outcome := abstain(reason)
		outcome.Result.Confidence = confidence
		outcome.Result.Margin = margin
		outcome.Result.TopCandidates = reranked

		question, err := s.buildQuestion(ctx, description, origin, destination, reranked)
		if err != nil {
			log.Printf("classify service: clarifying question unavailable: %v", err)
			return outcome, nil
		}
		outcome.Question = question
		return outcome, nil
	}

	return &ClassifyOutcome{
		Result: domain.ClassificationResult{
			Code:          reranked[0].Code,
			Confidence:    confidence,
			Margin:        margin,
			Method:        domain.MethodRetrievalRerankCalibrate,
			TopCandidates: reranked,
		},
	}, nil
}

// AnswerClarification resolves a pending session with the chosen option. The
// option is validated against the stored session first, so a mistyped option
// leaves the session intact for a corrected retry. Only a resolvable
// selection consumes the session; Consume is atomic, so two racing valid
// answers still yield exactly one success. The consumed session is returned
// so callers can resume the original request's route.
func (s *ClassifyService) AnswerClarification(ctx context.Context, sessionID, optionID string) (*domain.ClassificationResult, *domain.ClarificationSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	options := optionsFromCandidates(session.PendingCandidates)
	var chosen *domain.ClarifyingOption
	for i := range options {
		if options[i].ID == optionID {
			chosen = &options[i]
			break
		}
	}
	if chosen == nil {
		return nil, session, domain.ErrInvalidOption
	}
	if chosen.Code == "" {
		return &domain.ClassificationResult{
			Abstained:         true,
			Reason:            domain.ReasonNoCodeInResult,
			Method:            domain.MethodProvidedByUser,
			ClarificationUsed: true,
			SelectedOption:    optionID,
		}, session, nil
	}

	session, err = s.sessions.Consume(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	return &domain.ClassificationResult{
		Code:              chosen.Code,
		Confidence:        1.0,
		Method:            domain.MethodProvidedByUser,
		ClarificationUsed: true,
		SelectedOption:    optionID,
	}, session, nil
}

// buildQuestion assembles a clarifying question from the top candidates whose
// codes resolve in the reference store. Fewer than two resolvable candidates
// means a question would not help, so none is produced.
func (s *ClassifyService) buildQuestion(ctx context.Context, query, origin, destination string, candidates []domain.Candidate) (*domain.ClarifyingQuestion, error) {
	resolvable := make([]domain.Candidate, 0, maxClarifyOptions)
	for _, c := range candidates {
		if len(resolvable) == maxClarifyOptions {
			break
		}
		if c.Code == "" {
			continue
		}
		if _, err := s.refs.GetItem(ctx, c.Code); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		resolvable = append(resolvable, c)
	}
	if len(resolvable) < 2 {
		return nil, fmt.Errorf("only %d resolvable candidates", len(resolvable))
	}

	session := &domain.ClarificationSession{
		ID:                uuid.New().String(),
		OriginalQuery:     query,
		Origin:            origin,
		Destination:       destination,
		PendingCandidates: resolvable,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &domain.ClarifyingQuestion{
		ID:       session.ID,
		Question: "Which of these best matches your product?",
		Options:  optionsFromCandidates(resolvable),
	}, nil
}

func optionsFromCandidates(candidates []domain.Candidate) []domain.ClarifyingOption {
	options := make([]domain.ClarifyingOption, 0, len(candidates))
	for i, c := range candidates {
		if i == len(optionIDs) {
			break
		}
		options = append(options, domain.ClarifyingOption{
			ID:          optionIDs[i],
			Code:        c.Code,
			Description: c.Text,
			Score:       candidateScore(c),
		})
	}
	return options
}

// candidateScore prefers the rerank score and falls back to the retrieval
// score for candidates the reranker never touched.
func candidateScore(c domain.Candidate) float64 {
	if c.RerankScore != nil {
		return *c.RerankScore
	}
	return c.RetrievalScore
}

func abstain(reason domain.AbstainReason) *ClassifyOutcome {
	return &ClassifyOutcome{
		Result: domain.ClassificationResult{
			Abstained: true,
			Reason:    reason,
			Method:    domain.MethodRetrievalRerankCalibrate,
		},
	}
}

func finite(fv domain.FeatureVector) bool {
	for _, v := range fv.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
