// cmd/lead-summarizer/main.go
package main

import (
	"fmt"
	"os"

	"lead-summarizer/internal/common/config"
	"lead-summarizer/internal/common/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	cfg        *config.Config
	zapLog     *zap.Logger
	log        logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lead-summarizer",
	Short: "Sales lead enrichment service",
	Long:  "Summarizes sales leads with a hosted language model and merges the result into the lead's stored document.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFromFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
		log = logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
			"service": cfg.App.Name,
			"version": cfg.App.Version,
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zapLog != nil {
			_ = zapLog.Sync()
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (default: configs/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
