package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"ai-shopsearch-be/internal/config"
	"ai-shopsearch-be/internal/entity"
	"ai-shopsearch-be/internal/model"
	"ai-shopsearch-be/internal/pkg/logger"
	"ai-shopsearch-be/internal/repository/implementation"
	"ai-shopsearch-be/internal/service"
	"ai-shopsearch-be/pkg/database"
	"ai-shopsearch-be/pkg/embedding"
	"ai-shopsearch-be/pkg/embedding/jina"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

const batchSize = 50

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	cfg := config.Load()

	count := 200
	if raw := os.Getenv("SEED_PRODUCT_COUNT"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			count = v
		}
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// Same provider switch as the application container, the seeder embeds
	// with whatever the server will search with.
	var provider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbeddingModel, cfg.Ai.EmbeddingDimensions)
	case "gemini":
		provider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey, "SEMANTIC_SIMILARITY")
	case "jina":
		provider = jina.NewJinaProvider(cfg.Ai.JinaAPIKey)
	default:
		provider = embedding.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Ai.OpenAIBaseURL, cfg.Ai.EmbeddingModel, cfg.Ai.EmbeddingDimensions)
	}

	log.Printf("Seeding Product Catalog (%d products, provider: %s)...", count, cfg.Ai.EmbeddingProvider)

	ctx := context.Background()
	productRepo := implementation.NewProductRepository(db)
	catalog := BuildCatalog(count)

	created, skipped := 0, 0
	batch := make([]*entity.Product, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := productRepo.CreateBulk(ctx, batch); err != nil {
			log.Fatalf("Error: Failed to insert batch: %v", err)
		}
		created += len(batch)
		log.Printf("Inserted %d/%d products...", created, count)
		batch = batch[:0]
	}

	for _, p := range catalog {
		// Check if product with this external id already exists
		var existing model.Product
		if err := db.Where("external_id = ?", p.ExternalId).First(&existing).Error; err == nil {
			skipped++
			continue
		}

		embedCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		result, err := provider.Generate(embedCtx, p.SearchableText())
		cancel()
		if err != nil {
			log.Fatalf("Error: Failed to embed product '%s': %v", p.ExternalId, err)
		}
		p.Embedding = result.Values
		batch = append(batch, p)

		if len(batch) == batchSize {
			flush()
		}
	}
	flush()

	log.Printf("Catalog seeding completed! created=%d skipped=%d", created, skipped)

	// Bump the cache namespace so cached search results for the old catalog
	// stop being served.
	if created > 0 {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		cacheService := service.NewCacheService(rdb, logger.NewNopLogger())
		if err := cacheService.BumpVersion(ctx); err != nil {
			log.Printf("Warn: Failed to bump cache version: %v", err)
		} else {
			log.Println("Cache namespace bumped")
		}
	}
}
