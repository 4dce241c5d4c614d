package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearCredentialEnv(t *testing.T) {
	for _, key := range []string{
		"ANTHROPIC_API_KEY", "GENAI_API_KEY", "AWS_REGION",
		"COUCHBASE_USERNAME", "COUCHBASE_PASSWORD", "DB_USER", "DB_PASSWORD",
		"STORE_BACKEND", "MODEL_PROVIDER", "DATABASE_REDIS_ADDRESS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromFile_Defaults(t *testing.T) {
	clearCredentialEnv(t)
	path := writeConfig(t, `
store:
  backend: memory
workers:
  generate-lead-summary:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":5001", cfg.Server.Address)
	assert.Equal(t, ProviderBedrock, cfg.Model.Provider)
	assert.Equal(t, "meta.llama3-70b-instruct-v1:0", cfg.Model.ModelID)
	assert.InDelta(t, 0.7, cfg.Model.Temperature, 1e-9)
	assert.Equal(t, 512, cfg.Model.MaxTokens)
	assert.Equal(t, "us-east-1", cfg.Model.Bedrock.Region)
	assert.Equal(t, "us-east-1", cfg.Notifications.SNS.Region)
	assert.Equal(t, "lead", cfg.Store.KeyNamespace)

	assert.Equal(t, "couchbase://localhost", cfg.Database.Couchbase.ConnectionString)
	assert.Equal(t, "sales_lead", cfg.Database.Couchbase.Bucket)
	assert.Equal(t, "_default", cfg.Database.Couchbase.Scope)
	assert.Equal(t, "_default", cfg.Database.Couchbase.Collection)
	assert.Equal(t, "sales_lead", cfg.Database.Elasticsearch.Index)
	assert.Equal(t, "lead_documents", cfg.Database.Postgres.Table)

	worker := cfg.Workers["generate-lead-summary"]
	assert.True(t, worker.Enabled)
	assert.Equal(t, 5, worker.MaxJobsActive)
	assert.Equal(t, 3, worker.MaxRetries)

	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "lead-summarizer", cfg.Observability.ServiceName)
}

func TestLoadFromFile_EnvOverridesAndExpansion(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("DATABASE_REDIS_ADDRESS", "cache:6379")
	t.Setenv("TEST_ANTHROPIC_KEY", "sk-test")

	path := writeConfig(t, `
model:
  provider: anthropic
  anthropic:
    api_key: ${TEST_ANTHROPIC_KEY}
store:
  backend: memory
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Database.Redis.Address)
	assert.Equal(t, "sk-test", cfg.Model.Anthropic.APIKey)
}

func TestLoadFromFile_CredentialEnvFallback(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("COUCHBASE_USERNAME", "Administrator")
	t.Setenv("COUCHBASE_PASSWORD", "secret")

	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: lead-summarizer\n"))
	require.NoError(t, err)

	assert.Equal(t, BackendCouchbase, cfg.Store.Backend)
	assert.Equal(t, "Administrator", cfg.Database.Couchbase.Username)
	assert.Equal(t, "secret", cfg.Database.Couchbase.Password)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "couchbase without credentials",
			body:    "store:\n  backend: couchbase\n",
			wantErr: "database.couchbase.username and password are required",
		},
		{
			name:    "unknown provider",
			body:    "store:\n  backend: memory\nmodel:\n  provider: palm\n",
			wantErr: `unknown model.provider "palm"`,
		},
		{
			name:    "genai without base url",
			body:    "store:\n  backend: memory\nmodel:\n  provider: genai\n",
			wantErr: "model.genai.base_url is required",
		},
		{
			name:    "unknown backend",
			body:    "store:\n  backend: mongo\n",
			wantErr: `unknown store.backend "mongo"`,
		},
		{
			name:    "elasticsearch without addresses",
			body:    "store:\n  backend: elasticsearch\n",
			wantErr: "database.elasticsearch.addresses or url is required",
		},
		{
			name:    "sns enabled without topic",
			body:    "store:\n  backend: memory\nnotifications:\n  sns:\n    enabled: true\n",
			wantErr: "notifications.sns.topic_arn is required",
		},
		{
			name:    "temperature out of range",
			body:    "store:\n  backend: memory\nmodel:\n  temperature: 1.5\n",
			wantErr: "model.temperature must be within [0, 1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCredentialEnv(t)
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateWorker(t *testing.T) {
	assert.Error(t, ValidateWorker(&Config{}))
	assert.NoError(t, ValidateWorker(&Config{Camunda: CamundaConfig{BrokerAddress: "localhost:26500"}}))
}

func TestWorkerHelpers(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"generate-lead-summary": {Enabled: false, MaxJobsActive: 2},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "generate-lead-summary"))
	assert.True(t, IsWorkerEnabled(cfg, "other"))
	assert.Equal(t, 2, GetWorkerConfig(cfg, "generate-lead-summary").MaxJobsActive)
	assert.Equal(t, 90000, GetWorkerConfig(cfg, "other").Timeout)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
