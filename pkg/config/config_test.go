package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configData := `
astra:
  endpoint: "https://db-id-us-east-2.apps.astra.datastax.com"
  token: "AstraCS:test:token"
  keyspace: "analytics"
  collection: "engagement"
  metric: "cosine"

llm:
  base_url: "https://api.groq.com/openai/v1"
  api_key: "gsk-test"
  model: "mixtral-8x7b-32768"
  max_tokens: 1500
  temperature: 0.3

database:
  url: "postgres://localhost:5432/test"
  table_name: "engagement_posts"
  vector_dim: 768

seeder:
  csv_path: "testdata/posts.csv"
  batch_size: 50
  rate_limit: 1.5

dashboard:
  port: 9090
  csv_path: "testdata/posts.csv"
  streaming: true
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "https://db-id-us-east-2.apps.astra.datastax.com", config.Astra.Endpoint)
	assert.Equal(t, "AstraCS:test:token", config.Astra.Token)
	assert.Equal(t, "analytics", config.Astra.Keyspace)
	assert.Equal(t, "engagement", config.Astra.Collection)
	assert.Equal(t, "gsk-test", config.LLM.APIKey)
	assert.Equal(t, 1500, config.LLM.MaxTokens)
	assert.Equal(t, 0.3, config.LLM.Temperature)
	assert.Equal(t, "engagement_posts", config.Database.TableName)
	assert.Equal(t, 50, config.Seeder.BatchSize)
	assert.Equal(t, 9090, config.Dashboard.Port)
	assert.True(t, config.Dashboard.Streaming)
}

func TestLoadConfigDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	require.NoError(t, os.WriteFile(configPath, []byte("astra:\n  token: AstraCS:x:y\n"), 0644))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "default_keyspace", config.Astra.Keyspace)
	assert.Equal(t, "social_media_collection", config.Astra.Collection)
	assert.Equal(t, "cosine", config.Astra.Metric)
	assert.Equal(t, "nvidia", config.Astra.Provider)
	assert.Equal(t, "NV-Embed-QA", config.Astra.ModelName)
	assert.Equal(t, "https://api.groq.com/openai/v1", config.LLM.BaseURL)
	assert.Equal(t, "mixtral-8x7b-32768", config.LLM.Model)
	assert.Equal(t, 2000, config.LLM.MaxTokens)
	assert.Equal(t, 0.2, config.LLM.Temperature)
	assert.Equal(t, 20, config.Seeder.BatchSize)
	assert.Equal(t, 2.0, config.Seeder.RateLimit)
	assert.Equal(t, 8080, config.Dashboard.Port)
	assert.Equal(t, config.Seeder.CSVPath, config.Dashboard.CSVPath)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("ASTRA_DB_API_ENDPOINT", "https://env-db.apps.astra.datastax.com")
	t.Setenv("ASTRA_DB_APPLICATION_TOKEN", "AstraCS:env:token")
	t.Setenv("GROQ_API_KEY", "gsk-env")
	t.Setenv("DATABASE_URL", "postgres://env-db:5432/test")

	config := &Config{}
	mergeWithEnv(config)

	assert.Equal(t, "https://env-db.apps.astra.datastax.com", config.Astra.Endpoint)
	assert.Equal(t, "AstraCS:env:token", config.Astra.Token)
	assert.Equal(t, "gsk-env", config.LLM.APIKey)
	assert.Equal(t, "postgres://env-db:5432/test", config.Database.URL)
}

func TestConfigValidation(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		applyDefaults(c)
		c.Astra.Endpoint = "https://db-id.apps.astra.datastax.com"
		c.Astra.Token = "AstraCS:a:b"
		return c
	}

	tests := []struct {
		name     string
		mutate   func(*Config)
		wantErrs []string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name: "missing endpoint and token",
			mutate: func(c *Config) {
				c.Astra.Endpoint = ""
				c.Astra.Token = ""
			},
			wantErrs: []string{"astra.endpoint", "astra.token"},
		},
		{
			name: "bad token prefix",
			mutate: func(c *Config) {
				c.Astra.Token = "not-a-token"
			},
			wantErrs: []string{"astra.token"},
		},
		{
			name: "bad metric",
			mutate: func(c *Config) {
				c.Astra.Metric = "manhattan"
			},
			wantErrs: []string{"astra.metric"},
		},
		{
			name: "llm out of range",
			mutate: func(c *Config) {
				c.LLM.MaxTokens = 100000
				c.LLM.Temperature = 3.0
			},
			wantErrs: []string{"llm.max_tokens", "llm.temperature"},
		},
		{
			name: "bad llm base url",
			mutate: func(c *Config) {
				c.LLM.BaseURL = "api.groq.com/openai/v1"
			},
			wantErrs: []string{"llm.base_url"},
		},
		{
			name: "bad seeder settings",
			mutate: func(c *Config) {
				c.Seeder.BatchSize = 0
				c.Seeder.RateLimit = -1
			},
			wantErrs: []string{"seeder.batch_size", "seeder.rate_limit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)

			errs := c.Validate()
			assert.Len(t, errs, len(tt.wantErrs))
			for i, field := range tt.wantErrs {
				assert.Equal(t, field, errs[i].Field)
			}
		})
	}
}

func TestValidateDashboard(t *testing.T) {
	c := &Config{}
	applyDefaults(c)

	errs := c.ValidateDashboard()
	require.Len(t, errs, 1)
	assert.Equal(t, "llm.api_key", errs[0].Field)

	c.LLM.APIKey = "gsk-test"
	assert.Empty(t, c.ValidateDashboard())

	// A base URL without a scheme must fail before the first request does.
	c.LLM.BaseURL = "api.groq.com/openai/v1"
	errs = c.ValidateDashboard()
	require.Len(t, errs, 1)
	assert.Equal(t, "llm.base_url", errs[0].Field)
}
