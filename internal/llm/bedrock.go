package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// BedrockAPI is the slice of the bedrock-runtime client used here.
type BedrockAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Bedrock invokes Llama-family text models through bedrock-runtime.
type Bedrock struct {
	api       BedrockAPI
	maxGenLen int
}

func NewBedrock(api BedrockAPI, maxGenLen int) *Bedrock {
	return &Bedrock{api: api, maxGenLen: maxGenLen}
}

type bedrockRequest struct {
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	MaxGenLen   int     `json:"max_gen_len,omitempty"`
}

type bedrockResponse struct {
	Generation string `json:"generation"`
}

func (b *Bedrock) Invoke(ctx context.Context, modelID, prompt string, temperature float64) (string, error) {
	body, err := json.Marshal(bedrockRequest{
		Prompt:      prompt,
		Temperature: temperature,
		MaxGenLen:   b.maxGenLen,
	})
	if err != nil {
		return "", err
	}

	out, err := b.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return "", err
	}

	var resp bedrockResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("bedrock: malformed response body: %w", err)
	}
	return resp.Generation, nil
}
