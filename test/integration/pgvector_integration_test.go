package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-shopsearch-be/internal/entity"
	"ai-shopsearch-be/internal/model"
	"ai-shopsearch-be/internal/repository/specification"
	"ai-shopsearch-be/internal/repository/unitofwork"
	"ai-shopsearch-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

// testVector returns a 1536-dim unit vector matching the products.embedding
// column. Cosine similarity against itself is exactly 1.
func testVector() []float32 {
	vec := make([]float32, 1536)
	vec[0] = 1
	return vec
}

func TestPgvectorSearch(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ProductRepository())
	assert.NotNil(t, uow.SearchEventRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Fixture product with a known embedding. External id is unique per run,
	// the uniqueIndex would reject a rerun colliding with a soft-deleted row.
	extId := "ITEST-" + uuid.New().String()
	product := &entity.Product{
		Id:          uuid.New(),
		ExternalId:  extId,
		Title:       "Schoenen Testmerk (Zwart, 42)",
		Description: "Integration fixture.",
		Price:       49.99,
		Category:    "Schoenen",
		Tags:        []string{"Schoenen", "Zwart"},
		Embedding:   testVector(),
	}

	err = uow.ProductRepository().Create(context.Background(), product)
	if err != nil {
		t.Fatalf("Failed to create fixture product: %v", err)
	}
	defer gormDB.Unscoped().Where("external_id = ?", extId).Delete(&model.Product{})

	t.Run("Vector Search Round Trip", func(t *testing.T) {
		results, total, err := uow.ProductRepository().SearchByEmbedding(context.Background(), testVector(), nil, nil, 10, 0)
		assert.NoError(t, err)
		assert.Greater(t, total, int64(0))

		var found bool
		for _, r := range results {
			if r.Product.ExternalId == extId {
				found = true
				assert.Greater(t, r.Similarity, 0.99, "identical vector should score ~1.0")
			}
		}
		assert.True(t, found, "fixture product should be in the result window")
	})

	t.Run("Price Filter Pushdown", func(t *testing.T) {
		// Fixture costs 49.99, a 10 euro cap must exclude it from the
		// window AND from the total.
		maxPrice := 10.0
		results, _, err := uow.ProductRepository().SearchByEmbedding(context.Background(), testVector(), nil, &maxPrice, 10, 0)
		assert.NoError(t, err)

		for _, r := range results {
			assert.LessOrEqual(t, r.Product.Price, maxPrice)
			assert.NotEqual(t, extId, r.Product.ExternalId)
		}
	})

	t.Run("Cheapest Fallback Ordering", func(t *testing.T) {
		results, _, err := uow.ProductRepository().SearchCheapestByEmbedding(context.Background(), testVector(), 10, 0)
		assert.NoError(t, err)

		for i := 1; i < len(results); i++ {
			assert.LessOrEqual(t, results[i-1].Product.Price, results[i].Product.Price, "fallback results should be cheapest first")
		}
	})

	t.Run("Autocomplete Prefix", func(t *testing.T) {
		titles, err := uow.ProductRepository().AutocompleteTitles(context.Background(), "schoenen testmerk", nil, nil, 5)
		assert.NoError(t, err)
		assert.Contains(t, titles, product.Title)

		// A window below the fixture price filters it out of the suggestions.
		tooCheap := 10.0
		titles, err = uow.ProductRepository().AutocompleteTitles(context.Background(), "schoenen testmerk", nil, &tooCheap, 5)
		assert.NoError(t, err)
		assert.NotContains(t, titles, product.Title)
	})

	t.Run("Specification Reads", func(t *testing.T) {
		ctx := context.Background()
		repo := uow.ProductRepository()

		byID, err := repo.FindOne(ctx, specification.ByID{ID: product.Id})
		assert.NoError(t, err)
		if assert.NotNil(t, byID) {
			assert.Equal(t, extId, byID.ExternalId)
		}

		// The fixture costs 49.99, a window below it must not return it.
		maxPrice := 10.0
		cheap, err := repo.FindAll(ctx, specification.PriceRange{Max: &maxPrice})
		assert.NoError(t, err)
		for _, p := range cheap {
			assert.LessOrEqual(t, p.Price, maxPrice)
		}

		prefixed, err := repo.FindAll(ctx, specification.TitlePrefix{Prefix: "schoenen testmerk"})
		assert.NoError(t, err)
		var found bool
		for _, p := range prefixed {
			if p.ExternalId == extId {
				found = true
			}
		}
		assert.True(t, found, "prefix specification should match the fixture title")
	})

	t.Run("Price Statistics", func(t *testing.T) {
		stats, err := uow.ProductRepository().PriceStatistics(context.Background())
		assert.NoError(t, err)
		if assert.NotNil(t, stats) && stats.Count > 0 {
			assert.LessOrEqual(t, stats.Min, stats.Median)
			assert.LessOrEqual(t, stats.Median, stats.Max)
			assert.LessOrEqual(t, stats.P25, stats.P75)
			t.Logf("Catalog price stats: min=%.2f p25=%.2f median=%.2f p75=%.2f max=%.2f n=%d",
				stats.Min, stats.P25, stats.Median, stats.P75, stats.Max, stats.Count)
		}
	})

	t.Run("Transactional Event Write", func(t *testing.T) {
		txUow := uowFactory.NewUnitOfWork(context.Background())
		ctx := context.Background()

		err := txUow.Begin(ctx)
		assert.NoError(t, err)
		defer txUow.Rollback()

		query := "itest-" + uuid.New().String()
		event := &entity.SearchEvent{
			Id:          uuid.New(),
			Query:       query,
			SearchType:  "ai_search",
			ResultCount: 1,
			Page:        1,
			PageSize:    20,
			CreatedAt:   time.Now(),
		}

		err = txUow.SearchEventRepository().Create(ctx, event)
		assert.NoError(t, err)

		err = txUow.Commit()
		assert.NoError(t, err)
		defer gormDB.Unscoped().Where("query = ?", query).Delete(&model.SearchEvent{})

		count, err := uow.SearchEventRepository().Count(context.Background(), specification.Filter("query", query))
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)

		t.Log("Successfully created SearchEvent in Transaction")
	})
}
