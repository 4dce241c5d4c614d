package generateleadsummary

import (
	"fmt"
	"time"

	"lead-summarizer/internal/common/config"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	ModelID       string        `mapstructure:"model_id"`
	Temperature   float64       `mapstructure:"temperature"`
	KeyNamespace  string        `mapstructure:"key_namespace"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       90 * time.Second,
		ModelID:       "meta.llama3-70b-instruct-v1:0",
		Temperature:   0.7,
		KeyNamespace:  "lead",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.ModelID == "" {
		return fmt.Errorf("model_id is required")
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("temperature must be within [0, 1]")
	}
	return nil
}

// createConfigFromAppConfig layers the application config over the defaults.
// A non-nil custom config wins outright.
func createConfigFromAppConfig(appCfg *config.Config, custom *Config) *Config {
	if custom != nil {
		return custom
	}

	cfg := DefaultConfig()
	if appCfg == nil {
		return cfg
	}

	if appCfg.Model.ModelID != "" {
		cfg.ModelID = appCfg.Model.ModelID
	}
	if appCfg.Model.Temperature != 0 {
		cfg.Temperature = appCfg.Model.Temperature
	}
	if appCfg.Store.KeyNamespace != "" {
		cfg.KeyNamespace = appCfg.Store.KeyNamespace
	}

	workerCfg := config.GetWorkerConfig(appCfg, TaskType)
	cfg.Enabled = workerCfg.Enabled
	if workerCfg.MaxJobsActive > 0 {
		cfg.MaxJobsActive = workerCfg.MaxJobsActive
	}
	if workerCfg.Timeout > 0 {
		cfg.Timeout = config.GetDuration(workerCfg.Timeout)
	}
	return cfg
}
