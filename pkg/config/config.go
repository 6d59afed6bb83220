package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Astra struct {
		Endpoint   string `yaml:"endpoint"`
		Token      string `yaml:"token"`
		Keyspace   string `yaml:"keyspace"`
		Collection string `yaml:"collection"`
		Metric     string `yaml:"metric"`
		Provider   string `yaml:"provider"`
		ModelName  string `yaml:"model_name"`
	} `yaml:"astra"`

	LLM struct {
		BaseURL     string  `yaml:"base_url"`
		APIKey      string  `yaml:"api_key"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"llm"`

	Database struct {
		URL       string `yaml:"url"`
		TableName string `yaml:"table_name"`
		VectorDim int    `yaml:"vector_dim"`
	} `yaml:"database"`

	Embedder struct {
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
	} `yaml:"embedder"`

	Seeder struct {
		CSVPath   string  `yaml:"csv_path"`
		BatchSize int     `yaml:"batch_size"`
		RateLimit float64 `yaml:"rate_limit"`
	} `yaml:"seeder"`

	Dashboard struct {
		Port      int    `yaml:"port"`
		CSVPath   string `yaml:"csv_path"`
		Streaming bool   `yaml:"streaming"`
	} `yaml:"dashboard"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/lumos/config.yaml"),
			"/etc/lumos/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.Astra.Keyspace == "" {
		config.Astra.Keyspace = "default_keyspace"
	}
	if config.Astra.Collection == "" {
		config.Astra.Collection = "social_media_collection"
	}
	if config.Astra.Metric == "" {
		config.Astra.Metric = "cosine"
	}
	if config.Astra.Provider == "" {
		config.Astra.Provider = "nvidia"
	}
	if config.Astra.ModelName == "" {
		config.Astra.ModelName = "NV-Embed-QA"
	}

	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "https://api.groq.com/openai/v1"
	}
	if config.LLM.Model == "" {
		config.LLM.Model = "mixtral-8x7b-32768"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 2000
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.2
	}

	if config.Database.TableName == "" {
		config.Database.TableName = "posts"
	}
	if config.Database.VectorDim == 0 {
		config.Database.VectorDim = 768
	}

	if config.Embedder.BaseURL == "" {
		config.Embedder.BaseURL = "http://localhost:11434"
	}
	if config.Embedder.Model == "" {
		config.Embedder.Model = "nomic-embed-text:latest"
	}

	if config.Seeder.CSVPath == "" {
		config.Seeder.CSVPath = "data/social_media_engagement.csv"
	}
	if config.Seeder.BatchSize == 0 {
		config.Seeder.BatchSize = 20
	}
	if config.Seeder.RateLimit == 0 {
		config.Seeder.RateLimit = 2.0
	}

	if config.Dashboard.Port == 0 {
		config.Dashboard.Port = 8080
	}
	if config.Dashboard.CSVPath == "" {
		config.Dashboard.CSVPath = config.Seeder.CSVPath
	}
}

func mergeWithEnv(config *Config) {
	if endpoint := os.Getenv("ASTRA_DB_API_ENDPOINT"); endpoint != "" {
		config.Astra.Endpoint = endpoint
	}
	if token := os.Getenv("ASTRA_DB_APPLICATION_TOKEN"); token != "" {
		config.Astra.Token = token
	}
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		config.LLM.APIKey = key
	}
	if baseURL := os.Getenv("GROQ_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.Embedder.BaseURL = baseURL
	}
}
