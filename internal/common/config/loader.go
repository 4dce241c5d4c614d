// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml over it
// and applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return decode(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	bindKnownKeys(v)
	return v
}

// bindKnownKeys registers every leaf key so AutomaticEnv can override values
// that are absent from the yaml files (MODEL_PROVIDER, STORE_BACKEND, ...).
func bindKnownKeys(v *viper.Viper) {
	for _, key := range []string{
		"app.name", "app.version", "app.environment",
		"server.address", "server.read_timeout", "server.write_timeout",
		"model.provider", "model.model_id", "model.temperature", "model.max_tokens", "model.timeout",
		"model.bedrock.region", "model.anthropic.api_key", "model.anthropic.base_url",
		"model.genai.base_url", "model.genai.api_key",
		"store.backend", "store.key_namespace",
		"camunda.broker_address", "camunda.max_jobs_active", "camunda.timeout", "camunda.request_timeout",
		"database.couchbase.connection_string", "database.couchbase.username", "database.couchbase.password",
		"database.couchbase.bucket", "database.couchbase.scope", "database.couchbase.collection",
		"database.elasticsearch.url", "database.elasticsearch.username", "database.elasticsearch.password",
		"database.elasticsearch.index", "database.elasticsearch.refresh",
		"database.redis.address", "database.redis.password", "database.redis.db", "database.redis.key_prefix",
		"database.postgres.host", "database.postgres.port", "database.postgres.database",
		"database.postgres.user", "database.postgres.password", "database.postgres.sslmode", "database.postgres.table",
		"notifications.sns.enabled", "notifications.sns.region", "notifications.sns.topic_arn",
		"observability.service_name", "observability.jaeger_endpoint",
		"logging.level", "logging.format", "logging.output",
	} {
		_ = v.BindEnv(key)
	}
}

func decode(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up from the working directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills credentials from their conventional env names.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.Model.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	setIfEmpty(&cfg.Model.GenAI.APIKey, "GENAI_API_KEY")
	setIfEmpty(&cfg.Model.Bedrock.Region, "AWS_REGION")
	setIfEmpty(&cfg.Notifications.SNS.Region, "AWS_REGION")

	setIfEmpty(&cfg.Database.Couchbase.Username, "COUCHBASE_USERNAME")
	setIfEmpty(&cfg.Database.Couchbase.Password, "COUCHBASE_PASSWORD")
	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")
}

func setIfEmpty(field *string, envKey string) {
	if *field != "" {
		return
	}
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "lead-summarizer"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	// Server
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":5001"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 120000
	}

	// Model
	if cfg.Model.Provider == "" {
		cfg.Model.Provider = ProviderBedrock
	}
	if cfg.Model.ModelID == "" {
		cfg.Model.ModelID = "meta.llama3-70b-instruct-v1:0"
	}
	if cfg.Model.Temperature == 0 {
		cfg.Model.Temperature = 0.7
	}
	if cfg.Model.MaxTokens == 0 {
		cfg.Model.MaxTokens = 512
	}
	if cfg.Model.Timeout == 0 {
		cfg.Model.Timeout = 60000
	}
	if cfg.Model.Bedrock.Region == "" {
		cfg.Model.Bedrock.Region = "us-east-1"
	}

	// Store
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendCouchbase
	}
	if cfg.Store.KeyNamespace == "" {
		cfg.Store.KeyNamespace = "lead"
	}

	// Couchbase
	cb := &cfg.Database.Couchbase
	if cb.ConnectionString == "" {
		cb.ConnectionString = "couchbase://localhost"
	}
	if cb.Bucket == "" {
		cb.Bucket = "sales_lead"
	}
	if cb.Scope == "" {
		cb.Scope = "_default"
	}
	if cb.Collection == "" {
		cb.Collection = "_default"
	}
	if cb.ConnectTimeout == 0 {
		cb.ConnectTimeout = 10000
	}

	// Elasticsearch
	if cfg.Database.Elasticsearch.Index == "" {
		cfg.Database.Elasticsearch.Index = "sales_lead"
	}
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	// Postgres
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Postgres.Table == "" {
		cfg.Database.Postgres.Table = "lead_documents"
	}

	// Camunda
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 90000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}

	// Notifications
	if cfg.Notifications.SNS.Region == "" {
		cfg.Notifications.SNS.Region = cfg.Model.Bedrock.Region
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}

	// Logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.Model.Provider {
	case ProviderBedrock:
	case ProviderAnthropic:
		if cfg.Model.Anthropic.APIKey == "" {
			return fmt.Errorf("model.anthropic.api_key is required for provider %q", cfg.Model.Provider)
		}
	case ProviderGenAI:
		if cfg.Model.GenAI.BaseURL == "" {
			return fmt.Errorf("model.genai.base_url is required for provider %q", cfg.Model.Provider)
		}
	default:
		return fmt.Errorf("unknown model.provider %q", cfg.Model.Provider)
	}

	if cfg.Model.Temperature < 0 || cfg.Model.Temperature > 1 {
		return fmt.Errorf("model.temperature must be within [0, 1], got %v", cfg.Model.Temperature)
	}

	switch cfg.Store.Backend {
	case BackendCouchbase:
		if cfg.Database.Couchbase.Username == "" || cfg.Database.Couchbase.Password == "" {
			return fmt.Errorf("database.couchbase.username and password are required")
		}
	case BackendElasticsearch:
		if len(cfg.Database.Elasticsearch.GetAddresses()) == 0 {
			return fmt.Errorf("database.elasticsearch.addresses or url is required")
		}
	case BackendRedis:
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required")
		}
	case BackendPostgres:
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown store.backend %q", cfg.Store.Backend)
	}

	if cfg.Notifications.SNS.Enabled && cfg.Notifications.SNS.TopicARN == "" {
		return fmt.Errorf("notifications.sns.topic_arn is required when sns is enabled")
	}

	return nil
}

// ValidateWorker checks the settings only the workflow worker needs.
func ValidateWorker(cfg *Config) error {
	if cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       90000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
