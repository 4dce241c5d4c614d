// Package llm invokes the hosted language model that writes lead summaries.
package llm

import (
	"context"
	"fmt"
	"time"

	awsclient "lead-summarizer/internal/common/aws"
	"lead-summarizer/internal/common/config"
	"lead-summarizer/internal/common/errors"
	httpclient "lead-summarizer/internal/common/http"
	"lead-summarizer/internal/common/logger"
	"lead-summarizer/internal/common/metrics"
)

// Invoker sends one prompt to a model and returns its completion text.
type Invoker interface {
	Invoke(ctx context.Context, modelID, prompt string, temperature float64) (string, error)
}

// New builds the invoker selected by cfg.Provider, wrapped with timing and
// error normalization.
func New(ctx context.Context, cfg config.ModelConfig, log logger.Logger) (Invoker, error) {
	var (
		inner Invoker
		err   error
	)

	switch cfg.Provider {
	case config.ProviderBedrock:
		var client *awsclient.BedrockClient
		client, err = awsclient.NewBedrockClient(ctx, cfg.Bedrock.Region)
		if err == nil {
			inner = NewBedrock(client, cfg.MaxTokens)
		}
	case config.ProviderAnthropic:
		inner = NewAnthropic(cfg.Anthropic.APIKey, cfg.Anthropic.BaseURL, cfg.MaxTokens)
	case config.ProviderGenAI:
		client := httpclient.NewClient(config.GetDuration(cfg.Timeout))
		if cfg.GenAI.APIKey != "" {
			client = client.WithHeader("Authorization", "Bearer "+cfg.GenAI.APIKey)
		}
		inner = NewGenAI(client, cfg.GenAI.BaseURL, cfg.MaxTokens)
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	return Instrument(inner, cfg.Provider, config.GetDuration(cfg.Timeout), log), nil
}

type instrumented struct {
	next     Invoker
	provider string
	timeout  time.Duration
	logger   logger.Logger
}

// Instrument applies the per-call timeout, records latency and wraps
// failures as MODEL_INVOCATION_FAILED.
func Instrument(next Invoker, provider string, timeout time.Duration, log logger.Logger) Invoker {
	return &instrumented{
		next:     next,
		provider: provider,
		timeout:  timeout,
		logger:   log.WithFields(map[string]interface{}{"provider": provider}),
	}
}

func (i *instrumented) Invoke(ctx context.Context, modelID, prompt string, temperature float64) (string, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := i.next.Invoke(ctx, modelID, prompt, temperature)
	elapsed := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.ModelInvocationDuration.WithLabelValues(i.provider, status).Observe(elapsed.Seconds())

	if err != nil {
		i.logger.Error("model invocation failed", map[string]interface{}{
			"modelId":   modelID,
			"latencyMs": elapsed.Milliseconds(),
			"error":     err,
		})
		return "", errors.NewModelInvocationError(modelID, err)
	}

	i.logger.Info("model invoked", map[string]interface{}{
		"modelId":         modelID,
		"latencyMs":       elapsed.Milliseconds(),
		"completionChars": len(text),
	})
	return text, nil
}
