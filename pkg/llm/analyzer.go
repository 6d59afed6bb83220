package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/prompts"
	"github.com/tmc/langchaingo/schema"

	"github.com/lumoshq/lumos/internal/models"
)

// AnalyzerConfig represents the configuration for the post analyzer.
type AnalyzerConfig struct {
	BaseURL     string // OpenAI-compatible endpoint, Groq by default
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Analyzer turns a post's metrics into a natural-language performance
// analysis using a hosted chat model.
type Analyzer struct {
	config AnalyzerConfig
	llm    llms.Model
	prompt prompts.PromptTemplate
}

const analysisTemplate = `### POST DATA:
{data}

### INSTRUCTION:
Analyze the performance of the post based on all available metrics in the dataset.
Structure your analysis as follows:

1. OVERALL PERFORMANCE:
- Compare key metrics to average, median, min, and max values
- Highlight standout metrics (both positive and negative)

2. STRENGTHS:
- List the top performing areas
- Explain what might have contributed to success

3. AREAS FOR IMPROVEMENT:
- Identify underperforming metrics
- Suggest specific actions for improvement

4. CONTENT ANALYSIS:
- Evaluate hashtag effectiveness
- Assess topic relevance and timing
- Analyze audio type impact

5. ACTIONABLE RECOMMENDATIONS:
- Provide 3-5 specific, data-driven recommendations
- Include timing, content type, and engagement strategies

Format the analysis using clear markdown headings and bullet points.

### ANALYSIS:
`

// NewWithConfig creates a new Analyzer with the given configuration.
func NewWithConfig(config AnalyzerConfig) (*Analyzer, error) {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.groq.com/openai/v1"
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("LLM API key is required")
	}
	if config.Model == "" {
		config.Model = "mixtral-8x7b-32768"
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return nil, fmt.Errorf("temperature must be between 0 and 2")
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 2000
	}

	model, err := openai.New(
		openai.WithBaseURL(config.BaseURL),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &Analyzer{
		config: config,
		llm:    model,
		prompt: prompts.NewPromptTemplate(analysisTemplate, []string{"data"}),
	}, nil
}

// Analyze generates the full analysis for a post in one call.
func (a *Analyzer) Analyze(ctx context.Context, post models.Post, stats models.TypeStats, perf models.Performance) (string, error) {
	content, err := a.buildMessages(post, stats, perf)
	if err != nil {
		return "", err
	}

	response, err := a.llm.GenerateContent(ctx, content,
		llms.WithTemperature(a.config.Temperature),
		llms.WithMaxTokens(a.config.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("analysis error: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}
	return response.Choices[0].Content, nil
}

// AnalyzeStream generates the analysis and delivers it in chunks as the
// model produces them. The channel closes when generation finishes; a
// generation error arrives as a final "Error:" chunk.
func (a *Analyzer) AnalyzeStream(ctx context.Context, post models.Post, stats models.TypeStats, perf models.Performance) (<-chan string, error) {
	content, err := a.buildMessages(post, stats, perf)
	if err != nil {
		return nil, err
	}

	resultChan := make(chan string)

	go func() {
		defer close(resultChan)

		_, err := a.llm.GenerateContent(ctx, content,
			llms.WithTemperature(a.config.Temperature),
			llms.WithMaxTokens(a.config.MaxTokens),
			llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
				select {
				case resultChan <- string(chunk):
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			}),
		)
		if err != nil {
			resultChan <- fmt.Sprintf("Error: %v", err)
		}
	}()

	return resultChan, nil
}

func (a *Analyzer) buildMessages(post models.Post, stats models.TypeStats, perf models.Performance) ([]llms.MessageContent, error) {
	data, err := json.MarshalIndent(map[string]any{
		"post_details":    post,
		"type_statistics": stats,
		"performance":     perf,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal analysis data: %w", err)
	}

	formatted, err := a.prompt.Format(map[string]any{"data": string(data)})
	if err != nil {
		return nil, fmt.Errorf("format prompt: %w", err)
	}

	return []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, formatted),
	}, nil
}
