package bootstrap

import (
	"context"
	"log"

	"ai-shopsearch-be/internal/config"
	"ai-shopsearch-be/internal/controller"
	"ai-shopsearch-be/internal/metrics"
	"ai-shopsearch-be/internal/pkg/logger"
	"ai-shopsearch-be/internal/repository/implementation"
	"ai-shopsearch-be/internal/repository/memory"
	"ai-shopsearch-be/internal/repository/unitofwork"
	"ai-shopsearch-be/internal/service"
	"ai-shopsearch-be/internal/tuning"
	"ai-shopsearch-be/pkg/adaptive"
	"ai-shopsearch-be/pkg/embedding"
	"ai-shopsearch-be/pkg/embedding/jina"
	"ai-shopsearch-be/pkg/llm"
	"ai-shopsearch-be/pkg/llm/factory"
	"ai-shopsearch-be/pkg/pricing"

	pktNats "ai-shopsearch-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SearchController  controller.ISearchController
	CatalogController controller.ICatalogController
	HealthController  controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	TuningLoader    *tuning.Loader

	// Shared infrastructure (exposed for shutdown)
	Logger        logger.ILogger
	Redis         *redis.Client
	NatsPublisher *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	metrics.RegisterSearchMetrics()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Tuning snapshot (price bands, adaptive thresholds, cache TTLs)
	tuningLoader := tuning.NewLoader(cfg.Search.TuningFilePath, sysLogger)

	// 4. Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbeddingModel,
			cfg.Ai.EmbeddingDimensions,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbeddingModel)
	case "gemini":
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey, "SEMANTIC_SIMILARITY")
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	case "jina":
		embeddingProvider = jina.NewJinaProvider(cfg.Ai.JinaAPIKey)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	default:
		embeddingProvider = embedding.NewOpenAIProvider(
			cfg.Ai.OpenAIAPIKey,
			cfg.Ai.OpenAIBaseURL,
			cfg.Ai.EmbeddingModel,
			cfg.Ai.EmbeddingDimensions,
		)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	}
	embeddingProvider = embedding.NewRetryProvider(embeddingProvider, sysLogger)

	// 5. LLM Provider (optional, grounds price intent extraction)
	var llmProvider llm.LLMProvider
	if cfg.Ai.LLMEnabled {
		llmKey := cfg.Ai.OpenAIAPIKey
		if cfg.Ai.LLMProvider == "huggingface" {
			llmKey = cfg.Ai.HuggingFaceAPIKey
		}
		p, err := factory.NewLLMProvider(
			cfg.Ai.LLMProvider,
			cfg.Ai.LLMModel,
			cfg.Ai.LLMBaseURL,
			llmKey,
		)
		if err != nil {
			log.Printf("[WARN] LLM price inference disabled: %v", err)
		} else {
			llmProvider = p
			log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
		}
	}

	// 6. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 7. Repositories on shared infrastructure
	popularRepo := memory.NewPopularSearchesRepository(rdb)
	statsProvider := memory.NewStatisticsProvider(implementation.NewProductRepository(db), sysLogger)

	// 8. Services
	extractor := pricing.NewExtractor(llmProvider, statsProvider, sysLogger, pricing.Config{
		Bands: func() pricing.CategoryBands { return tuningLoader.Current().PriceBands },
	})
	adaptiveEngine := adaptive.NewEngine(sysLogger)

	cacheService := service.NewCacheService(rdb, sysLogger)
	publisherService := service.NewPublisherService(cfg.Search.PerformedTopic, pubSub)

	searchService := service.NewSearchService(
		uowFactory,
		extractor,
		embeddingProvider,
		adaptiveEngine,
		cacheService,
		publisherService,
		tuningLoader,
		sysLogger,
	)
	catalogService := service.NewCatalogService(uowFactory, popularRepo, extractor, cacheService, tuningLoader, sysLogger)

	// Analytics consumer writes to its own log file, search traffic would
	// drown the main log.
	analyticsLogger := logger.NewIsolatedLogger(cfg.App.AnalyticsLogFilePath)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Search.PerformedTopic,
		uowFactory,
		popularRepo,
		natsPub,
		analyticsLogger,
	)

	return &Container{
		SearchController:  controller.NewSearchController(searchService, catalogService, cfg.Search),
		CatalogController: controller.NewCatalogController(catalogService, cfg.Search),
		HealthController:  controller.NewHealthController(db, rdb),

		ConsumerService: consumerService,
		TuningLoader:    tuningLoader,

		Logger:        sysLogger,
		Redis:         rdb,
		NatsPublisher: natsPub,
	}
}
