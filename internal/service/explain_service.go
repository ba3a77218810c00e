package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/wahajaslm/tarco/internal/config"
	"github.com/wahajaslm/tarco/internal/domain"
	"github.com/wahajaslm/tarco/internal/port"
)

const disclaimer = "Informational only. Verify rates and requirements with the customs authority before filing."

const annotatePrompt = `You are annotating a customs compliance payload.
Paraphrase the facts below for a human reader. Do not add, change, or invent
any numbers, rates, codes, or dates that are not present in the facts.
Respond with only a JSON object in this shape:
{"human_summary": "<text>", "compliance_notes": ["<text>", ...]}

Facts:
%s`

// ExplainService produces human-readable annotations for an already-built
// payload. Model output is screened: any numeric token that does not appear
// in the payload discards the whole generation and falls back to a template
// summary. The deterministic values are never touched.
type ExplainService struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewExplainService creates the annotation generator.
func NewExplainService(cfg *config.ModelsConfig) *ExplainService {
	return &ExplainService{
		baseURL: cfg.OllamaURL,
		model:   cfg.LLMModel,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
		},
	}
}

var _ port.Explainer = (*ExplainService)(nil)

func (s *ExplainService) Annotate(ctx context.Context, resp *domain.ComplianceResponse) (*domain.Annotations, error) {
	annotations := templateAnnotations(resp)

	facts, err := json.Marshal(resp.DeterministicValues)
	if err != nil {
		return annotations, nil
	}

	generated, err := s.generate(ctx, fmt.Sprintf(annotatePrompt, facts))
	if err != nil {
		log.Printf("explain service: generation failed, using template summary: %v", err)
		return annotations, nil
	}

	var parsed struct {
		HumanSummary    string   `json:"human_summary"`
		ComplianceNotes []string `json:"compliance_notes"`
	}
	if err := json.Unmarshal([]byte(extractJSON(generated)), &parsed); err != nil {
		log.Printf("explain service: unparseable generation, using template summary: %v", err)
		return annotations, nil
	}

	allowed := numericTokens(string(facts))
	if introducesNumbers(parsed.HumanSummary, allowed) || introducesNumbers(strings.Join(parsed.ComplianceNotes, " "), allowed) {
		log.Printf("explain service: generation introduced numbers, using template summary")
		return annotations, nil
	}

	if parsed.HumanSummary != "" {
		annotations.HumanSummary = parsed.HumanSummary
	}
	if len(parsed.ComplianceNotes) > 0 {
		annotations.ComplianceNotes = parsed.ComplianceNotes
	}
	return annotations, nil
}

func (s *ExplainService) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  s.model,
		Prompt: prompt,
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama generate: unexpected status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return parsed.Response, nil
}

// templateAnnotations builds the fallback summary straight from payload
// fields, so an unreachable model still yields a usable response.
func templateAnnotations(resp *domain.ComplianceResponse) *domain.Annotations {
	dv := resp.DeterministicValues
	qp := resp.QueryParameters

	summary := fmt.Sprintf("Commodity code %s, imported from %s into %s.", qp.Code, qp.Origin, qp.Destination)
	if res := dv.ApplicableRateResolution; res != nil && res.ChosenDutyRatePercent != nil {
		if res.PreferencePossible {
			summary += fmt.Sprintf(" A preferential duty rate of %.1f%% applies with proof of origin.", *res.ChosenDutyRatePercent)
			if res.FallbackIfNoProofPercent != nil {
				summary += fmt.Sprintf(" Without proof the rate is %.1f%%.", *res.FallbackIfNoProofPercent)
			}
		} else {
			summary += fmt.Sprintf(" The standard duty rate is %.1f%%.", *res.ChosenDutyRatePercent)
		}
	}

	var notes []string
	for _, u := range dv.Unknowns {
		notes = append(notes, fmt.Sprintf("No data for %s: %s.", u.Field, u.Reason))
	}

	certs := make([]domain.CertificateExplanation, 0, len(dv.MeasureConditions))
	seen := map[string]bool{}
	for _, c := range dv.MeasureConditions {
		if c.CertificateCode == "" || seen[c.CertificateCode] {
			continue
		}
		seen[c.CertificateCode] = true
		certs = append(certs, domain.CertificateExplanation{
			Code:         c.CertificateCode,
			WhatItIs:     c.Notes,
			WhenRequired: c.Action,
		})
	}

	return &domain.Annotations{
		HumanSummary:            summary,
		CertificateExplanations: certs,
		ComplianceNotes:         notes,
		HallucinationGuard:      true,
		Disclaimer:              disclaimer,
	}
}

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

func numericTokens(s string) map[string]bool {
	tokens := map[string]bool{}
	for _, t := range numberPattern.FindAllString(s, -1) {
		tokens[t] = true
	}
	return tokens
}

// introducesNumbers reports whether text contains a numeric token absent from
// the allowed set.
func introducesNumbers(text string, allowed map[string]bool) bool {
	for _, t := range numberPattern.FindAllString(text, -1) {
		if !allowed[t] {
			return true
		}
	}
	return false
}
