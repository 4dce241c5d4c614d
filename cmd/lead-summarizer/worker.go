package main

import (
	"os/signal"
	"syscall"
	"time"

	"lead-summarizer/internal/common/camunda"
	"lead-summarizer/internal/common/config"
	generateleadsummary "lead-summarizer/internal/workers/sales/generate-lead-summary"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the enrichment job worker against a Zeebe broker",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidateWorker(cfg); err != nil {
			return err
		}
		if !config.IsWorkerEnabled(cfg, generateleadsummary.TaskType) {
			zapLog.Info("worker disabled", zap.String("taskType", generateleadsummary.TaskType))
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer p.Close()

		var client *camunda.Client
		err = retryWithBackoff(func() error {
			var err error
			client, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				ConnectionTimeout:      config.GetDuration(cfg.Camunda.Timeout),
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, "Zeebe client initialization", camunda.IsRetryableConnectionError)
		if err != nil {
			return err
		}
		defer client.Close()
		zapLog.Info("Zeebe client connected", zap.String("broker", cfg.Camunda.BrokerAddress))

		wcfg := config.GetWorkerConfig(cfg, generateleadsummary.TaskType)
		w := camunda.NewWorker(client.GetClient(), camunda.WorkerOptions{
			TaskType:      generateleadsummary.TaskType,
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       config.GetDuration(wcfg.Timeout),
		}, p.Handler, log)

		<-ctx.Done()
		zapLog.Info("shutdown signal received, stopping worker")
		w.Stop()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
