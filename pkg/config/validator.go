package config

import (
	"fmt"
	"net/url"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validMetrics = []string{"cosine", "dot_product", "euclidean"}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate Astra config
	if c.Astra.Endpoint == "" {
		errors = append(errors, ValidationError{
			Field:   "astra.endpoint",
			Message: "database API endpoint is required (ASTRA_DB_API_ENDPOINT)",
		})
	} else if u, err := url.Parse(c.Astra.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "astra.endpoint",
			Message: "invalid database API endpoint",
		})
	}

	if c.Astra.Token == "" {
		errors = append(errors, ValidationError{
			Field:   "astra.token",
			Message: "application token is required (ASTRA_DB_APPLICATION_TOKEN)",
		})
	} else if !strings.HasPrefix(c.Astra.Token, "AstraCS:") {
		errors = append(errors, ValidationError{
			Field:   "astra.token",
			Message: "application token must start with AstraCS:",
		})
	}

	if c.Astra.Collection == "" {
		errors = append(errors, ValidationError{
			Field:   "astra.collection",
			Message: "collection name is required",
		})
	}

	if !contains(validMetrics, c.Astra.Metric) {
		errors = append(errors, ValidationError{
			Field:   "astra.metric",
			Message: fmt.Sprintf("metric must be one of %s", strings.Join(validMetrics, ", ")),
		})
	}

	// Validate LLM config
	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 8192 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 8192",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if err := validateLLMBaseURL(c.LLM.BaseURL); err != nil {
		errors = append(errors, *err)
	}

	// Validate Database config
	if c.Database.URL != "" {
		if _, err := url.Parse(c.Database.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
	}

	if c.Database.VectorDim < 1 {
		errors = append(errors, ValidationError{
			Field:   "database.vector_dim",
			Message: "vector_dim must be positive",
		})
	}

	// Validate Seeder config
	if c.Seeder.BatchSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "seeder.batch_size",
			Message: "batch_size must be positive",
		})
	}

	if c.Seeder.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "seeder.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	// Validate Dashboard config
	if c.Dashboard.Port < 1 || c.Dashboard.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "dashboard.port",
			Message: "port must be between 1 and 65535",
		})
	}

	return errors
}

// ValidateDashboard checks only the fields the dashboard binary needs; it
// does not require database credentials.
func (c *Config) ValidateDashboard() []ValidationError {
	var errors []ValidationError

	if c.LLM.APIKey == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.api_key",
			Message: "LLM API key is required (GROQ_API_KEY)",
		})
	}

	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 8192 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 8192",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if err := validateLLMBaseURL(c.LLM.BaseURL); err != nil {
		errors = append(errors, *err)
	}

	if c.Dashboard.CSVPath == "" {
		errors = append(errors, ValidationError{
			Field:   "dashboard.csv_path",
			Message: "csv_path is required",
		})
	}

	if c.Dashboard.Port < 1 || c.Dashboard.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "dashboard.port",
			Message: "port must be between 1 and 65535",
		})
	}

	return errors
}

func validateLLMBaseURL(baseURL string) *ValidationError {
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return &ValidationError{
			Field:   "llm.base_url",
			Message: "invalid LLM base URL",
		}
	}
	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
