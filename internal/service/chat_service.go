package service

import (
	"context"
	"log"

	"github.com/wahajaslm/tarco/internal/domain"
	"github.com/wahajaslm/tarco/internal/port"
)

// ChatOutcome is the response to a conversational trade query. Exactly one of
// Question or Response is set on success; a terminal abstention carries only
// the Result.
type ChatOutcome struct {
	Result   domain.ClassificationResult `json:"result"`
	Question *domain.ClarifyingQuestion  `json:"clarifying_question,omitempty"`
	Response *domain.ComplianceResponse  `json:"response,omitempty"`
}

// ChatService turns free-text trade questions into compliance payloads: it
// extracts parameters, classifies the product, and hands classified codes to
// the deterministic builder. Annotation failures never block the payload.
type ChatService struct {
	extractor port.QueryExtractor
	classify  *ClassifyService
	builder   *BuilderService
	explainer port.Explainer
}

// NewChatService creates the conversational resolver.
func NewChatService(extractor port.QueryExtractor, classify *ClassifyService, builder *BuilderService, explainer port.Explainer) *ChatService {
	return &ChatService{
		extractor: extractor,
		classify:  classify,
		builder:   builder,
		explainer: explainer,
	}
}

// Resolve answers a free-text message. When the classifier abstains with a
// clarifying question, the question is returned for the user to answer via
// Answer.
func (s *ChatService) Resolve(ctx context.Context, message string) (*ChatOutcome, error) {
	extracted, err := s.extractor.Extract(ctx, message)
	if err != nil {
		extracted = &port.ExtractedQuery{}
	}
	description := extracted.ProductDescription
	if description == "" {
		description = message
	}

	outcome, err := s.classify.Classify(ctx, description, extracted.Origin, extracted.Destination)
	if err != nil {
		return nil, err
	}
	if outcome.Result.Abstained {
		return &ChatOutcome{Result: outcome.Result, Question: outcome.Question}, nil
	}

	return s.respond(ctx, outcome.Result, extracted.Origin, extracted.Destination, description)
}

// Answer resolves a pending clarifying question and, when the original
// message carried a route, completes the deterministic payload for it.
func (s *ChatService) Answer(ctx context.Context, sessionID, optionID string) (*ChatOutcome, error) {
	result, session, err := s.classify.AnswerClarification(ctx, sessionID, optionID)
	if err != nil {
		return nil, err
	}
	if result.Abstained {
		return &ChatOutcome{Result: *result}, nil
	}
	return s.respond(ctx, *result, session.Origin, session.Destination, session.OriginalQuery)
}

func (s *ChatService) respond(ctx context.Context, result domain.ClassificationResult, origin, destination, description string) (*ChatOutcome, error) {
	outcome := &ChatOutcome{Result: result}

	// Without a full route there is nothing deterministic to build.
	if origin == "" || destination == "" {
		return outcome, nil
	}

	resp, err := s.builder.Build(ctx, result.Code, origin, destination, description)
	if err != nil {
		return nil, err
	}
	resp.ClassificationMeta = &domain.ClassificationMeta{
		Method:     result.Method,
		Confidence: result.Confidence,
		Abstained:  result.Abstained,
	}

	if s.explainer != nil {
		annotations, err := s.explainer.Annotate(ctx, resp)
		if err != nil {
			log.Printf("chat service: annotation failed: %v", err)
		} else {
			resp.Annotations = annotations
		}
	}

	outcome.Response = resp
	return outcome, nil
}
