package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"leadership-chatbot-server/internal/config"
	"leadership-chatbot-server/internal/observability"
)

const systemPrompt = `You are a virtual mentor for a Leadership Skills course. Your role is to provide comprehensive, accurate, and relevant answers to questions about leadership skills. Adhere to the following guidelines:

1. Exclusive Use of Course Content: Use ONLY the information provided in the course transcripts. Do not use external knowledge or sources.
2. Accurate Reference: Always include the relevant week and topic title(s) in your answer, formatting it as: [Week X: Topic Title].
3. Handling Unanswerable Questions: If the question cannot be answered using the provided transcripts, state this clearly.
4. Strict Non-Inference Policy: Do not infer information not explicitly stated in the provided content.
5. Structured and Clear Responses: Ensure your responses are well-structured and directly quote from the transcript when appropriate.
6. Mentor-like Tone: Phrase your responses as a supportive virtual mentor, offering guidance and insights based on the course material.
7. Comprehensive Answers: Provide thorough answers, elaborating on key points and connecting ideas from different parts of the course when relevant.
8. Consistency: Maintain consistency in style and adherence to the guidelines throughout your responses.

Remember, accuracy and relevance to the provided course content are paramount.`

type searchParams struct {
	SimilarityTopK int      `json:"similarity_top_k"`
	NodeTypes      []string `json:"node_types"`
	Rerank         bool     `json:"rerank"`
	RerankTopN     int      `json:"rerank_top_n"`
	FilterMode     string   `json:"filter_mode"`
	Multimodal     bool     `json:"multimodal"`
}

type runRequest struct {
	IndexName      string       `json:"index_name"`
	ProjectName    string       `json:"project_name"`
	OrganizationID string       `json:"organization_id,omitempty"`
	Query          string       `json:"query"`
	SystemPrompt   string       `json:"system_prompt"`
	SearchParams   searchParams `json:"search_params"`
}

type runResponse struct {
	Response string `json:"response"`
}

// LlamaCloudProvider calls the hosted retrieval-agent endpoint. The handle
// is built once at bootstrap and shared across requests; it holds no mutable
// state beyond the HTTP client's connection pool.
type LlamaCloudProvider struct {
	cfg    config.ProviderConfig
	client *http.Client
	logger *observability.Logger
}

// NewLlamaCloudProvider builds the provider handle. The HTTP client carries
// no timeout of its own: the remote agent's internal timeout policy governs,
// and the caller blocks until the call settles.
func NewLlamaCloudProvider(cfg config.ProviderConfig, logger *observability.Logger) *LlamaCloudProvider {
	return &LlamaCloudProvider{
		cfg:    cfg,
		client: &http.Client{},
		logger: logger,
	}
}

// Ask runs one best-effort query against the managed index. It never errors:
// configuration, transport, status and decode failures all degrade to
// FallbackResponse.
func (p *LlamaCloudProvider) Ask(ctx context.Context, question string) string {
	answer, err := p.run(ctx, question)
	if err != nil {
		p.logger.Error("answer_provider_failed", map[string]any{"error": err.Error()})
		return FallbackResponse
	}

	return answer
}

func (p *LlamaCloudProvider) run(ctx context.Context, question string) (string, error) {
	if p.cfg.APIKey == "" {
		return "", fmt.Errorf("provider API key is not configured")
	}

	payload := runRequest{
		IndexName:      p.cfg.IndexName,
		ProjectName:    p.cfg.ProjectName,
		OrganizationID: p.cfg.OrganizationID,
		Query:          question,
		SystemPrompt:   systemPrompt,
		SearchParams: searchParams{
			SimilarityTopK: 30,
			NodeTypes:      []string{"chunk"},
			Rerank:         true,
			RerankTopN:     6,
			FilterMode:     "accurate",
			Multimodal:     false,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode provider request: %w", err)
	}

	url := strings.TrimRight(p.cfg.BaseURL, "/") + "/api/v1/agents/run"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	if p.cfg.OpenAIAPIKey != "" {
		req.Header.Set("X-OpenAI-Api-Key", p.cfg.OpenAIAPIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var decoded runResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode provider response: %w", err)
	}
	if decoded.Response == "" {
		return "", fmt.Errorf("provider returned an empty response")
	}

	return decoded.Response, nil
}
