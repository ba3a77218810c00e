package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/wahajaslm/tarco/internal/config"
	"github.com/wahajaslm/tarco/internal/port"
)

const extractPrompt = `Extract trade query parameters from the user message.
Respond with only a JSON object, no prose, in this shape:
{"origin": "<ISO country code or empty>", "destination": "<ISO country code or empty>", "product_description": "<text or empty>", "quantity": <integer or null>}

User message: %s`

// ExtractService pulls origin, destination, and product description out of a
// free-text chat message via an Ollama-hosted model. Extraction is best
// effort; a model failure yields an empty result, not an error the chat flow
// must branch on.
type ExtractService struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewExtractService creates the chat parameter extractor.
func NewExtractService(cfg *config.ModelsConfig) *ExtractService {
	return &ExtractService{
		baseURL: cfg.OllamaURL,
		model:   cfg.LLMModel,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
		},
	}
}

var _ port.QueryExtractor = (*ExtractService)(nil)

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (s *ExtractService) Extract(ctx context.Context, message string) (*port.ExtractedQuery, error) {
	raw, err := s.generate(ctx, fmt.Sprintf(extractPrompt, message))
	if err != nil {
		return &port.ExtractedQuery{}, nil
	}

	var extracted port.ExtractedQuery
	if err := json.Unmarshal([]byte(extractJSON(raw)), &extracted); err != nil {
		return &port.ExtractedQuery{}, nil
	}
	extracted.Origin = strings.ToUpper(strings.TrimSpace(extracted.Origin))
	extracted.Destination = strings.ToUpper(strings.TrimSpace(extracted.Destination))
	extracted.ProductDescription = strings.TrimSpace(extracted.ProductDescription)
	return &extracted, nil
}

func (s *ExtractService) generate(ctx context.Context, prompt string) (string, error) {
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

// extractJSON strips any prose a model wraps around its JSON object.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
