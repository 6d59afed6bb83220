package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/lumoshq/lumos/internal/models"
	"github.com/lumoshq/lumos/pkg/astra"
)

type DocumentStoreConfig struct {
	Collection string
	Metric     string
	Provider   string
	ModelName  string
	BatchSize  int
	RateLimit  float64 // batches per second against the hosted API
	OnBatch    func(inserted int)
}

// DocumentStore writes engagement documents into a vector-enabled collection
// on the hosted database. The service embeds the $vectorize field itself, so
// no local embedding model is involved.
type DocumentStore struct {
	config  DocumentStoreConfig
	client  *astra.Client
	limiter *rate.Limiter
}

func NewDocumentStore(client *astra.Client, config DocumentStoreConfig) (*DocumentStore, error) {
	if client == nil {
		return nil, fmt.Errorf("astra client is required")
	}
	if config.Collection == "" {
		config.Collection = "social_media_collection"
	}
	if config.Metric == "" {
		config.Metric = "cosine"
	}
	if config.Provider == "" {
		config.Provider = "nvidia"
	}
	if config.ModelName == "" {
		config.ModelName = "NV-Embed-QA"
	}
	if config.BatchSize == 0 {
		config.BatchSize = 20
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2.0
	}

	return &DocumentStore{
		config:  config,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}, nil
}

// EnsureCollection creates the vector-enabled collection if needed.
func (ds *DocumentStore) EnsureCollection(ctx context.Context) error {
	names, err := ds.client.FindCollections(ctx)
	if err != nil {
		return fmt.Errorf("find collections: %w", err)
	}
	for _, name := range names {
		if name == ds.config.Collection {
			return nil
		}
	}

	err = ds.client.CreateCollection(ctx, ds.config.Collection, astra.CollectionOptions{
		Metric:    ds.config.Metric,
		Provider:  ds.config.Provider,
		ModelName: ds.config.ModelName,
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

// Insert writes documents in rate-limited batches and returns how many the
// database acknowledged. Callers compare the count against the source row
// count; a mismatch means a document was rejected.
func (ds *DocumentStore) Insert(ctx context.Context, docs []models.Document) (int, error) {
	inserted := 0
	for i := 0; i < len(docs); i += ds.config.BatchSize {
		end := i + ds.config.BatchSize
		if end > len(docs) {
			end = len(docs)
		}

		if err := ds.limiter.Wait(ctx); err != nil {
			return inserted, err
		}

		batch := make([]any, 0, end-i)
		for _, doc := range docs[i:end] {
			if doc.ID == "" {
				doc.ID = uuid.NewString()
			}
			batch = append(batch, doc)
		}

		ids, err := ds.client.InsertMany(ctx, ds.config.Collection, batch)
		if err != nil {
			return inserted, fmt.Errorf("insert batch at row %d: %w", i, err)
		}
		inserted += len(ids)

		if ds.config.OnBatch != nil {
			ds.config.OnBatch(len(ids))
		}
	}
	return inserted, nil
}

// Close exists for interface parity; the HTTP client holds no resources.
func (ds *DocumentStore) Close() {}
