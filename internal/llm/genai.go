package llm

import (
	"context"
	"strings"

	httpclient "lead-summarizer/internal/common/http"
)

// GenAI calls an internal text-generation gateway.
type GenAI struct {
	client    *httpclient.Client
	baseURL   string
	maxTokens int
}

func NewGenAI(client *httpclient.Client, baseURL string, maxTokens int) *GenAI {
	return &GenAI{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		maxTokens: maxTokens,
	}
}

type genAIRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

type genAIResponse struct {
	Text string `json:"text"`
}

func (g *GenAI) Invoke(ctx context.Context, modelID, prompt string, temperature float64) (string, error) {
	var resp genAIResponse
	err := g.client.PostJSON(ctx, g.baseURL+"/api/ai/generate", genAIRequest{
		Model:       modelID,
		Prompt:      prompt,
		Temperature: temperature,
		MaxTokens:   g.maxTokens,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
