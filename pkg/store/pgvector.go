package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/lumoshq/lumos/internal/models"
	"github.com/lumoshq/lumos/internal/types"
)

type PGVectorStoreConfig struct {
	ConnString string
	TableName  string
	VectorDim  int
	OnBatch    func(inserted int)
}

// PGVectorStore is a local Postgres/pgvector alternative to the hosted
// database. Unlike the hosted service it cannot embed server-side, so the
// $vectorize text is embedded through the supplied embedder before insert.
type PGVectorStore struct {
	config   PGVectorStoreConfig
	pool     *pgxpool.Pool
	embedder types.Embedder
}

func NewPGVectorStore(config PGVectorStoreConfig, embedder types.Embedder) (*PGVectorStore, error) {
	if config.TableName == "" {
		config.TableName = "posts"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 768 // nomic-embed-text
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}

	pool, err := pgxpool.New(context.Background(), config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	return &PGVectorStore{
		config:   config,
		pool:     pool,
		embedder: embedder,
	}, nil
}

// EnsureCollection enables pgvector and creates the posts table and cosine
// index if they do not exist.
func (vs *PGVectorStore) EnsureCollection(ctx context.Context) error {
	_, err := vs.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %v", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			post_id TEXT NOT NULL,
			post_type TEXT,
			topic TEXT,
			hashtags_used TEXT,
			likes DOUBLE PRECISION,
			comments DOUBLE PRECISION,
			shares DOUBLE PRECISION,
			saves DOUBLE PRECISION,
			reach DOUBLE PRECISION,
			engagement_rate DOUBLE PRECISION,
			audio_type TEXT,
			vectorize TEXT,
			embedding vector(%d)
		)`, vs.config.TableName, vs.config.VectorDim)

	_, err = vs.pool.Exec(ctx, createTable)
	if err != nil {
		return fmt.Errorf("failed to create table: %v", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		vs.config.TableName, vs.config.TableName)

	_, err = vs.pool.Exec(ctx, createIndex)
	if err != nil {
		return fmt.Errorf("failed to create index: %v", err)
	}

	return nil
}

// Insert upserts documents inside one transaction, embedding each document's
// vectorize text first.
func (vs *PGVectorStore) Insert(ctx context.Context, docs []models.Document) (int, error) {
	tx, err := vs.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, post_id, post_type, topic, hashtags_used,
			likes, comments, shares, saves, reach, engagement_rate,
			audio_type, vectorize, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			likes = EXCLUDED.likes,
			comments = EXCLUDED.comments,
			shares = EXCLUDED.shares,
			saves = EXCLUDED.saves,
			reach = EXCLUDED.reach,
			engagement_rate = EXCLUDED.engagement_rate,
			vectorize = EXCLUDED.vectorize,
			embedding = EXCLUDED.embedding`,
		vs.config.TableName)

	inserted := 0
	for _, doc := range docs {
		id := doc.ID
		if id == "" {
			id = doc.PostID
		}

		embeddings, err := vs.embedder.CreateEmbedding(ctx, []string{doc.Vectorize})
		if err != nil {
			return inserted, fmt.Errorf("failed to create embeddings: %v", err)
		}
		if len(embeddings) == 0 {
			return inserted, fmt.Errorf("embedder returned no vector for %s", id)
		}

		_, err = tx.Exec(ctx, stmt,
			id,
			doc.PostID,
			doc.PostType,
			doc.Topic,
			doc.HashtagsUsed,
			doc.Likes,
			doc.Comments,
			doc.Shares,
			doc.Saves,
			doc.Reach,
			doc.EngagementRate,
			doc.AudioType,
			doc.Vectorize,
			pgvector.NewVector(embeddings[0]),
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert document: %v", err)
		}
		inserted++

		if vs.config.OnBatch != nil {
			vs.config.OnBatch(1)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %v", err)
	}

	return inserted, nil
}

func (vs *PGVectorStore) Close() {
	if vs.pool != nil {
		vs.pool.Close()
	}
}
