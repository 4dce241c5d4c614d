package generateleadsummary

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"lead-summarizer/internal/common/config"
	"lead-summarizer/internal/common/errors"
	"lead-summarizer/internal/common/logger"
	"lead-summarizer/internal/common/metrics"
	"lead-summarizer/internal/common/observability"
	"lead-summarizer/internal/llm"
	"lead-summarizer/internal/models"
	"lead-summarizer/internal/notify"
	"lead-summarizer/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "generate-lead-summary"

// Handler runs the enrichment pipeline for one lead: prompt, model call,
// extraction, merge and upsert.
type Handler struct {
	config    *Config
	model     llm.Invoker
	store     store.Store
	notifier  notify.Notifier
	obs       *observability.Observability
	logger    logger.Logger
	jobErrors *errors.JobErrorHandler
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Model         llm.Invoker
	Store         store.Store
	Notifier      notify.Notifier
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Model == nil {
		return nil, fmt.Errorf("%s: model invoker is required", TaskType)
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("%s: document store is required", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json", "stdout")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}

	return &Handler{
		config:    cfg,
		model:     opts.Model,
		store:     opts.Store,
		notifier:  notifier,
		obs:       opts.Observability,
		logger:    log,
		jobErrors: errors.NewJobErrorHandler(log),
	}, nil
}

// Execute enriches one lead and persists the merged document. Model and
// write failures are returned; a failed read of the prior document is
// logged and treated as an empty document.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()
	out, err := h.execute(ctx, input)

	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.EnrichmentsTotal.WithLabelValues(status).Inc()
	h.obs.RecordEnrichment(ctx, time.Since(start), status)
	return out, err
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.LeadID == "" || len(input.SalesLead) == 0 {
		return nil, errors.NewValidationError(MissingFieldsMessage)
	}

	key := NormalizeKey(input.LeadID, h.config.KeyNamespace)
	log := h.logger.WithFields(map[string]interface{}{"leadKey": key})
	log.Info("enrichment requested", map[string]interface{}{
		"leadId":       input.LeadID,
		"priorChanges": len(input.OldData),
	})

	prompt := BuildPrompt(input.SalesLead, input.OldData)

	completion, err := h.invokeModel(ctx, prompt)
	if err != nil {
		return nil, err
	}

	summary, recommendation := Extract(completion)
	highPriority := input.SalesLead.HighPriority()
	recommendation = WithPriorityWarning(FormatBullets(recommendation), highPriority)

	prior := h.readPrior(ctx, key, log)
	doc := models.Enrich(prior, input.SalesLead, summary, recommendation)

	if err := h.upsert(ctx, key, doc); err != nil {
		log.Error("document upsert failed", map[string]interface{}{"error": err})
		return nil, err
	}
	log.Info("document upserted", map[string]interface{}{
		"highPriority":  highPriority,
		"preservedKeys": len(prior),
	})

	out := &Output{LeadID: key, Summary: summary, Recommendation: recommendation}

	if highPriority {
		alert := notify.Alert{
			LeadID:         key,
			CompanyName:    input.SalesLead.String(models.FieldCompanyName, ""),
			Summary:        summary,
			Recommendation: recommendation,
		}
		if err := h.notifier.NotifyHighPriority(ctx, alert); err != nil {
			log.Warn("high-priority alert failed", map[string]interface{}{"error": err})
		}
	}

	return out, nil
}

func (h *Handler) invokeModel(ctx context.Context, prompt string) (string, error) {
	ctx, span := h.obs.StartSpan(ctx, "model.invoke", attribute.String("model.id", h.config.ModelID))
	start := time.Now()

	completion, err := h.model.Invoke(ctx, h.config.ModelID, prompt, h.config.Temperature)
	if err != nil {
		var stdErr *errors.StandardError
		if !stderrors.As(err, &stdErr) {
			err = errors.NewModelInvocationError(h.config.ModelID, err)
		}
	}

	h.obs.RecordStage(ctx, "model", time.Since(start), err)
	observability.EndSpan(span, err)
	return completion, err
}

func (h *Handler) readPrior(ctx context.Context, key string, log logger.Logger) models.Document {
	ctx, span := h.obs.StartSpan(ctx, "store.get", attribute.String("lead.key", key))
	start := time.Now()

	prior, err := h.store.Get(ctx, key)
	switch {
	case err == nil:
	case stderrors.Is(err, store.ErrNotFound):
		log.Debug("no prior document", nil)
		prior, err = models.Document{}, nil
	default:
		readErr := errors.NewDocumentReadError(key, err)
		log.Warn("prior document read failed, merging against empty document", map[string]interface{}{
			"errorCode": string(readErr.Code),
			"error":     err,
		})
		prior = models.Document{}
	}

	h.obs.RecordStage(ctx, "read", time.Since(start), err)
	observability.EndSpan(span, err)
	return prior
}

func (h *Handler) upsert(ctx context.Context, key string, doc models.Document) error {
	ctx, span := h.obs.StartSpan(ctx, "store.upsert", attribute.String("lead.key", key))
	start := time.Now()

	err := h.store.Upsert(ctx, key, doc)
	if err != nil {
		err = errors.NewDocumentWriteError(key, err)
	}

	h.obs.RecordStage(ctx, "upsert", time.Since(start), err)
	observability.EndSpan(span, err)
	return err
}

// Handle runs the pipeline for a workflow job. Job variables carry the same
// fields as the HTTP request body.
func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := ParseRequest([]byte(job.GetVariables()))
	if err != nil {
		return h.failJob(ctx, client, job, err)
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		return h.failJob(ctx, client, job, err)
	}

	if err := h.completeJob(ctx, client, job, output); err != nil {
		return h.failJob(ctx, client, job, err)
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	return nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) error {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
	h.jobErrors.HandleJobError(ctx, client, job, err)
	return err
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("failed to build complete command: %w", err))
	}
	if _, err := cmd.Send(ctx); err != nil {
		return errors.NewInternalError(fmt.Errorf("failed to complete job: %w", err))
	}
	return nil
}
