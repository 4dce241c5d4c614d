package main

import (
	"context"
	"fmt"
	"io"
	"time"

	awsclient "lead-summarizer/internal/common/aws"
	"lead-summarizer/internal/common/config"
	"lead-summarizer/internal/common/observability"
	"lead-summarizer/internal/llm"
	"lead-summarizer/internal/notify"
	"lead-summarizer/internal/store"
	generateleadsummary "lead-summarizer/internal/workers/sales/generate-lead-summary"

	"go.uber.org/zap"
)

// pipeline holds the wired enrichment handler and everything it owns.
type pipeline struct {
	Handler *generateleadsummary.Handler
	Store   store.Store
	obs     *observability.Observability
	closer  io.Closer
}

func (p *pipeline) Close() {
	if p.closer != nil {
		if err := p.closer.Close(); err != nil {
			zapLog.Warn("failed to close document store", zap.Error(err))
		}
	}
	p.obs.Shutdown()
}

// initPipeline connects the model, the document store and the optional
// notifier. Store connections are retried with backoff.
func initPipeline(ctx context.Context) (*pipeline, error) {
	obs, err := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	})
	if err != nil {
		zapLog.Warn("observability setup incomplete", zap.Error(err))
	}

	model, err := llm.New(ctx, cfg.Model, log)
	if err != nil {
		obs.Shutdown()
		return nil, fmt.Errorf("init model: %w", err)
	}

	var (
		st     store.Store
		closer io.Closer
	)
	err = retryWithBackoff(func() error {
		var err error
		st, closer, err = store.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		if err := st.Ping(ctx); err != nil {
			_ = closer.Close()
			return err
		}
		return nil
	}, 10, 2*time.Second, fmt.Sprintf("%s store connection", cfg.Store.Backend), nil)
	if err != nil {
		obs.Shutdown()
		return nil, err
	}

	notifier, err := newNotifier(ctx, cfg.Notifications)
	if err != nil {
		_ = closer.Close()
		obs.Shutdown()
		return nil, fmt.Errorf("init notifier: %w", err)
	}

	handler, err := generateleadsummary.NewHandler(generateleadsummary.HandlerOptions{
		AppConfig:     cfg,
		Model:         model,
		Store:         st,
		Notifier:      notifier,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		_ = closer.Close()
		obs.Shutdown()
		return nil, err
	}

	return &pipeline{Handler: handler, Store: st, obs: obs, closer: closer}, nil
}

func newNotifier(ctx context.Context, cfg config.NotificationConfig) (notify.Notifier, error) {
	if !cfg.SNS.Enabled {
		return notify.Nop{}, nil
	}
	client, err := awsclient.NewSNSClient(ctx, cfg.SNS.Region)
	if err != nil {
		return nil, err
	}
	zapLog.Info("high-priority alerts enabled", zap.String("topicArn", cfg.SNS.TopicARN))
	return notify.NewSNSNotifier(client, cfg.SNS.TopicARN, log), nil
}

// retryWithBackoff attempts to execute a function with exponential backoff.
// A nil retryable retries every error.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, operationName string, retryable func(error) bool) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return fmt.Errorf("%s failed: %w", operationName, err)
		}

		if i < maxRetries-1 {
			zapLog.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
