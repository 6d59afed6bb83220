package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/lumoshq/lumos/internal/models"
	"github.com/lumoshq/lumos/internal/types"
	"github.com/lumoshq/lumos/pkg/astra"
	cfgPkg "github.com/lumoshq/lumos/pkg/config"
	"github.com/lumoshq/lumos/pkg/dataset"
	"github.com/lumoshq/lumos/pkg/llm"
	"github.com/lumoshq/lumos/pkg/store"
)

type flags struct {
	ConfigPath string
	CSVPath    string
	Collection string
	Backend    string
	BatchSize  int
	RateLimit  float64
	Recreate   bool
}

func main() {
	f := parseFlags()

	if err := run(f); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() flags {
	var f flags

	flag.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	flag.StringVar(&f.CSVPath, "csv", "", "Path to the engagement CSV file")
	flag.StringVar(&f.Collection, "collection", "", "Collection name")
	flag.StringVar(&f.Backend, "backend", "astra", "Document store backend: astra or pgvector")
	flag.IntVar(&f.BatchSize, "batch-size", 0, "Batch size for bulk inserts")
	flag.Float64Var(&f.RateLimit, "rate-limit", 0, "Insert batches per second")
	flag.BoolVar(&f.Recreate, "recreate", false, "Drop the collection before seeding")
	flag.Parse()

	return f
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("rows"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func run(f flags) error {
	if f.Recreate && f.Backend != "astra" {
		return fmt.Errorf("-recreate only applies to the astra backend; drop the %s table manually", f.Backend)
	}

	config, err := cfgPkg.LoadConfig(f.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Flags override the config file
	if f.CSVPath != "" {
		config.Seeder.CSVPath = f.CSVPath
	}
	if f.Collection != "" {
		config.Astra.Collection = f.Collection
	}
	if f.BatchSize > 0 {
		config.Seeder.BatchSize = f.BatchSize
	}
	if f.RateLimit > 0 {
		config.Seeder.RateLimit = f.RateLimit
	}

	if f.Backend == "astra" {
		if errs := config.Validate(); len(errs) > 0 {
			for _, e := range errs {
				color.Red("config: %v", e)
			}
			return fmt.Errorf("invalid configuration")
		}
	}

	ctx := context.Background()

	// Load the CSV
	posts, err := dataset.LoadFile(config.Seeder.CSVPath)
	if err != nil {
		return fmt.Errorf("failed to load CSV: %v", err)
	}
	color.Green("✓ Loaded %d rows from %s\n", len(posts), config.Seeder.CSVPath)

	docs := buildDocuments(posts)

	bar := getProgressBar(len(docs), " Seeding collection...")
	onBatch := func(inserted int) { _ = bar.Add(inserted) }

	documentStore, err := newStore(f.Backend, config, onBatch)
	if err != nil {
		return fmt.Errorf("failed to initialize %s store: %v", f.Backend, err)
	}
	defer documentStore.Close()

	if f.Recreate {
		client := astra.New(config.Astra.Endpoint, config.Astra.Token, config.Astra.Keyspace)
		if err := client.DeleteCollection(ctx, config.Astra.Collection); err != nil {
			return fmt.Errorf("failed to drop collection: %v", err)
		}
		color.Yellow("Dropped collection %s", config.Astra.Collection)
	}

	target := config.Astra.Collection
	if f.Backend == "pgvector" {
		target = config.Database.TableName
	}

	color.Blue("Connecting to database...")
	if err := documentStore.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("failed to ensure collection: %v", err)
	}
	color.Green("✓ Collection %s ready\n", target)

	inserted, err := documentStore.Insert(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to insert documents: %v", err)
	}
	_ = bar.Finish()

	// Every CSV row must land in the collection.
	if inserted != len(posts) {
		return fmt.Errorf("inserted %d documents but loaded %d rows", inserted, len(posts))
	}
	color.Green("\n✓ Inserted %d items into the collection\n", inserted)

	return nil
}

func buildDocuments(posts []models.Post) []models.Document {
	docs := make([]models.Document, len(posts))
	for i, p := range posts {
		id := p.PostID
		if id == "" {
			id = uuid.NewString()
		}
		docs[i] = models.Document{
			Post:      p,
			ID:        id,
			Vectorize: dataset.VectorizeText(p),
		}
	}
	return docs
}

func newStore(backend string, config *cfgPkg.Config, onBatch func(int)) (types.DocumentStore, error) {
	switch backend {
	case "astra":
		client := astra.New(config.Astra.Endpoint, config.Astra.Token, config.Astra.Keyspace)
		return store.NewDocumentStore(client, store.DocumentStoreConfig{
			Collection: config.Astra.Collection,
			Metric:     config.Astra.Metric,
			Provider:   config.Astra.Provider,
			ModelName:  config.Astra.ModelName,
			BatchSize:  config.Seeder.BatchSize,
			RateLimit:  config.Seeder.RateLimit,
			OnBatch:    onBatch,
		})
	case "pgvector":
		embedder, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
			Model:   config.Embedder.Model,
			BaseURL: config.Embedder.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return store.NewPGVectorStore(store.PGVectorStoreConfig{
			ConnString: config.Database.URL,
			TableName:  config.Database.TableName,
			VectorDim:  config.Database.VectorDim,
			OnBatch:    onBatch,
		}, embedder)
	default:
		fmt.Fprintf(os.Stderr, "unknown backend %q\n", backend)
		return nil, fmt.Errorf("backend must be astra or pgvector")
	}
}
