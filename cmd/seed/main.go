package main

import (
	"context"
	"flag"
	"log"
	"time"

	"ai-admissions-be/internal/config"
	"ai-admissions-be/internal/mapper"
	"ai-admissions-be/internal/model"
	"ai-admissions-be/internal/repository/implementation"
	"ai-admissions-be/pkg/database"
	"ai-admissions-be/pkg/embedding"
	"ai-admissions-be/pkg/rag/search"
)

// Embeds the JSON corpus and loads it into the document_chunks table.
func main() {
	cfg := config.Load()
	corpusPath := flag.String("corpus", cfg.Retrieval.CorpusPath, "path to the JSON corpus")
	batchSize := flag.Int("batch", 50, "rows per insert")
	flag.Parse()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.Open(cfg.Database.Connection, cfg.Database.GormOptions())
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Error: %v", err)
	}

	docs, err := search.LoadCorpus(*corpusPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	log.Printf("Loaded %d documents from %s", len(docs), *corpusPath)

	embedder := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	repo := implementation.NewDocumentChunkRepository(db)
	m := mapper.NewDocumentChunkMapper()

	ctx := context.Background()
	batch := make([]*model.DocumentChunk, 0, *batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := repo.CreateBulk(ctx, batch); err != nil {
			log.Fatalf("Error: insert failed: %v", err)
		}
		batch = batch[:0]
	}

	// corpus documents are already passage-sized; one row per document
	start := time.Now()
	for i, d := range docs {
		vec, err := embedder.Embed(ctx, d.Content)
		if err != nil {
			log.Fatalf("Error: embedding document %d: %v", i, err)
		}
		row, err := m.ToModel(d, vec)
		if err != nil {
			log.Fatalf("Error: document %d metadata: %v", i, err)
		}
		batch = append(batch, row)
		if len(batch) == *batchSize {
			flush()
			log.Printf("Seeded %d/%d", i+1, len(docs))
		}
	}
	flush()

	log.Printf("Done: %d chunks in %s", len(docs), time.Since(start).Round(time.Millisecond))
}
