package types

import (
	"context"

	"github.com/lumoshq/lumos/internal/models"
)

// Core interfaces
type DocumentStore interface {
	EnsureCollection(ctx context.Context) error
	Insert(ctx context.Context, docs []models.Document) (int, error)
	Close()
}

type Analyzer interface {
	Analyze(ctx context.Context, post models.Post, stats models.TypeStats, perf models.Performance) (string, error)
	AnalyzeStream(ctx context.Context, post models.Post, stats models.TypeStats, perf models.Performance) (<-chan string, error)
}

type Embedder interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}
