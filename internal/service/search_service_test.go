package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"ai-shopsearch-be/internal/apperror"
	"ai-shopsearch-be/internal/dto"
	"ai-shopsearch-be/internal/entity"
	"ai-shopsearch-be/internal/pkg/logger"
	"ai-shopsearch-be/internal/repository/contract"
	"ai-shopsearch-be/internal/repository/specification"
	"ai-shopsearch-be/internal/repository/unitofwork"
	"ai-shopsearch-be/internal/tuning"
	"ai-shopsearch-be/pkg/adaptive"
	"ai-shopsearch-be/pkg/embedding"
	"ai-shopsearch-be/pkg/pricing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

type fakeProductRepo struct {
	searchResults []*contract.ScoredProduct
	searchTotal   int64
	searchErr     error
	searchCalled  bool
	lastMin       *float64
	lastMax       *float64
	lastLimit     int
	lastOffset    int

	cheapestResults []*contract.ScoredProduct
	cheapestTotal   int64
	cheapestErr     error
	cheapestCalled  bool

	findAllResults []*entity.Product
	findAllErr     error
	findAllCalled  bool
	lastFindSpecs  []specification.Specification

	countResult    int64
	countErr       error
	countCalled    bool
	lastCountSpecs []specification.Specification

	titles        []string
	titlesErr     error
	lastPrefix    string
	lastAutoMin   *float64
	lastAutoMax   *float64
	lastAutoLimit int
}

func (f *fakeProductRepo) SearchByEmbedding(_ context.Context, _ []float32, minPrice, maxPrice *float64, limit, offset int) ([]*contract.ScoredProduct, int64, error) {
	f.searchCalled = true
	f.lastMin = minPrice
	f.lastMax = maxPrice
	f.lastLimit = limit
	f.lastOffset = offset
	return f.searchResults, f.searchTotal, f.searchErr
}

func (f *fakeProductRepo) SearchCheapestByEmbedding(_ context.Context, _ []float32, _, _ int) ([]*contract.ScoredProduct, int64, error) {
	f.cheapestCalled = true
	return f.cheapestResults, f.cheapestTotal, f.cheapestErr
}

func (f *fakeProductRepo) Create(_ context.Context, _ *entity.Product) error       { return nil }
func (f *fakeProductRepo) CreateBulk(_ context.Context, _ []*entity.Product) error { return nil }
func (f *fakeProductRepo) Update(_ context.Context, _ *entity.Product) error       { return nil }
func (f *fakeProductRepo) Delete(_ context.Context, _ uuid.UUID) error             { return nil }
func (f *fakeProductRepo) FindOne(_ context.Context, _ ...specification.Specification) (*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	f.findAllCalled = true
	f.lastFindSpecs = specs
	return f.findAllResults, f.findAllErr
}
func (f *fakeProductRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	f.countCalled = true
	f.lastCountSpecs = specs
	return f.countResult, f.countErr
}
func (f *fakeProductRepo) AutocompleteTitles(_ context.Context, prefix string, minPrice, maxPrice *float64, limit int) ([]string, error) {
	f.lastPrefix = prefix
	f.lastAutoMin = minPrice
	f.lastAutoMax = maxPrice
	f.lastAutoLimit = limit
	return f.titles, f.titlesErr
}
func (f *fakeProductRepo) PriceStatistics(_ context.Context) (*contract.PriceStatistics, error) {
	return nil, nil
}

// fakeSearchEventRepo is shared with the consumer tests, which append from
// the subscriber goroutine while the test polls, hence the mutex.
type fakeSearchEventRepo struct {
	mu          sync.Mutex
	created     []*entity.SearchEvent
	attempts    int
	createErr   error
	popularRows []*contract.PopularQuery
	popularErr  error
}

func (f *fakeSearchEventRepo) Create(_ context.Context, event *entity.SearchEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, event)
	return nil
}

func (f *fakeSearchEventRepo) createdEvents() []*entity.SearchEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.SearchEvent, len(f.created))
	copy(out, f.created)
	return out
}

func (f *fakeSearchEventRepo) createAttempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}
func (f *fakeSearchEventRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.SearchEvent, error) {
	return nil, nil
}
func (f *fakeSearchEventRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return 0, nil
}
func (f *fakeSearchEventRepo) PopularQueries(_ context.Context, _ time.Time, _ int) ([]*contract.PopularQuery, error) {
	return f.popularRows, f.popularErr
}

type fakeUow struct {
	products *fakeProductRepo
	events   *fakeSearchEventRepo
}

func (f *fakeUow) Begin(_ context.Context) error { return nil }
func (f *fakeUow) Commit() error                 { return nil }
func (f *fakeUow) Rollback() error               { return nil }
func (f *fakeUow) ProductRepository() contract.ProductRepository {
	return f.products
}
func (f *fakeUow) SearchEventRepository() contract.SearchEventRepository {
	return f.events
}

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeEmbedder struct {
	vec      []float32
	err      error
	called   bool
	lastText string
}

func (f *fakeEmbedder) Generate(_ context.Context, text string) (embedding.EmbeddingResult, error) {
	f.called = true
	f.lastText = text
	if f.err != nil {
		return embedding.EmbeddingResult{}, f.err
	}
	return embedding.EmbeddingResult{Values: f.vec, TotalTokens: len(text)}, nil
}

func (f *fakeEmbedder) Dimensions() int { return len(f.vec) }

type fakeCache struct {
	entries    map[string][]byte
	cannedHit  *dto.SearchResponse
	lastGetKey string
	lastSetKey string
	lastTTL    time.Duration
	setCalls   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dest interface{}) bool {
	f.lastGetKey = key
	if f.cannedHit != nil {
		raw, _ := json.Marshal(f.cannedHit)
		json.Unmarshal(raw, dest)
		return true
	}
	raw, ok := f.entries[key]
	if !ok {
		return false
	}
	json.Unmarshal(raw, dest)
	return true
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value interface{}, ttl time.Duration) {
	raw, _ := json.Marshal(value)
	f.entries[key] = raw
	f.lastSetKey = key
	f.lastTTL = ttl
	f.setCalls++
}

func (f *fakeCache) VersionedKey(_ context.Context, key string) string {
	return "v1:" + key
}

func (f *fakeCache) BumpVersion(_ context.Context) error { return nil }

type fakePublisher struct {
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakePublisher) lastEvent(t *testing.T) dto.SearchPerformedEvent {
	t.Helper()
	require.NotEmpty(t, f.payloads)
	var event dto.SearchPerformedEvent
	require.NoError(t, json.Unmarshal(f.payloads[len(f.payloads)-1], &event))
	return event
}

// --- Helpers ---

func newSearchServiceForTest(repo *fakeProductRepo, emb *fakeEmbedder, cache *fakeCache, pub *fakePublisher) ISearchService {
	nop := logger.NewNopLogger()
	extractor := pricing.NewExtractor(nil, nil, nop, pricing.Config{})
	engine := adaptive.NewEngine(nop)
	loader := tuning.NewLoader("testdata/absent.yaml", nop)
	uow := &fakeUow{products: repo, events: &fakeSearchEventRepo{}}
	return NewSearchService(&fakeUowFactory{uow: uow}, extractor, emb, engine, cache, pub, loader, nop)
}

func scored(title string, price float64, category string, tags []string, similarity float64) *contract.ScoredProduct {
	return &contract.ScoredProduct{
		Product: &entity.Product{
			Id:       uuid.New(),
			Title:    title,
			Price:    price,
			Category: category,
			Tags:     tags,
		},
		Similarity: similarity,
	}
}

// diverseScored is a healthy result page: enough results, good scores and
// spread-out categories, brands and colors, so the adaptive engine leaves
// the order alone and the assertions stay deterministic.
func diverseScored() []*contract.ScoredProduct {
	return []*contract.ScoredProduct{
		scored("Schoenen StyleHub (Zwart, 42)", 49.99, "Schoenen", []string{"Schoenen", "Zwart", "Leer", "StyleHub"}, 0.92),
		scored("Schoenen UrbanWear (Rood, 41)", 39.99, "Schoenen", []string{"Schoenen", "Rood", "Suede", "UrbanWear"}, 0.85),
		scored("Jassen Fashionista (Blauw, M)", 45.00, "Jassen", []string{"Jassen", "Blauw", "Wol", "Fashionista"}, 0.80),
		scored("Shirts StyleHub (Wit, L)", 24.99, "Shirts", []string{"Shirts", "Wit", "Katoen", "StyleHub"}, 0.78),
		scored("Broeken UrbanWear (Groen, M)", 35.00, "Broeken", []string{"Broeken", "Groen", "Denim", "UrbanWear"}, 0.75),
	}
}

func searchRequest(query string) *dto.SearchRequest {
	return &dto.SearchRequest{
		Query:          query,
		Page:           1,
		Limit:          20,
		TargetLanguage: "nl",
	}
}

// --- Tests ---

func TestAiSearch_PriceFilterFromQuery(t *testing.T) {
	repo := &fakeProductRepo{searchResults: diverseScored(), searchTotal: 5}
	emb := &fakeEmbedder{vec: []float32{0.1, 0.2, 0.3}}
	cache := newFakeCache()
	pub := &fakePublisher{}
	svc := newSearchServiceForTest(repo, emb, cache, pub)

	resp, err := svc.AiSearch(context.Background(), searchRequest("schoenen onder 50 euro"))
	require.NoError(t, err)

	// The extracted bound reaches the store query, the price words do not.
	require.NotNil(t, repo.lastMax)
	assert.Equal(t, 50.0, *repo.lastMax)
	assert.Nil(t, repo.lastMin)
	assert.Equal(t, "schoenen", emb.lastText)
	assert.Equal(t, 20, repo.lastLimit)
	assert.Equal(t, 0, repo.lastOffset)

	assert.Equal(t, int64(5), resp.TotalCount)
	assert.Len(t, resp.Results, 5)
	assert.Equal(t, "Schoenen StyleHub (Zwart, 42)", resp.Results[0].Title)
	assert.Equal(t, 1, resp.TotalPages)
	assert.True(t, resp.PriceFilter.Applied)
	assert.False(t, resp.PriceFilter.FallbackUsed)
	assert.Nil(t, resp.Message)
	assert.False(t, resp.CacheHit)

	// Response cached under the versioned key with the search TTL.
	assert.Equal(t, 1, cache.setCalls)
	assert.True(t, strings.HasPrefix(cache.lastSetKey, "v1:ai_search:"))
	assert.Equal(t, 900*time.Second, cache.lastTTL)

	event := pub.lastEvent(t)
	assert.Equal(t, "schoenen onder 50 euro", event.Query)
	assert.Equal(t, "ai_search", event.SearchType)
	assert.Equal(t, 5, event.ResultCount)
	assert.False(t, event.CacheHit)
	assert.False(t, event.FallbackUsed)
	assert.Equal(t, 50.0, event.Filters["max_price"])
}

func TestAiSearch_NoPriceCue(t *testing.T) {
	repo := &fakeProductRepo{searchResults: diverseScored(), searchTotal: 5}
	emb := &fakeEmbedder{vec: []float32{0.1}}
	cache := newFakeCache()
	pub := &fakePublisher{}
	svc := newSearchServiceForTest(repo, emb, cache, pub)

	resp, err := svc.AiSearch(context.Background(), searchRequest("rode schoenen"))
	require.NoError(t, err)

	assert.Nil(t, repo.lastMin)
	assert.Nil(t, repo.lastMax)
	assert.Equal(t, "rode schoenen", emb.lastText)
	assert.False(t, resp.PriceFilter.Applied)
	assert.False(t, resp.PriceFilter.FallbackUsed)
	assert.Empty(t, pub.lastEvent(t).Filters)
}

func TestAiSearch_CacheHit(t *testing.T) {
	repo := &fakeProductRepo{}
	emb := &fakeEmbedder{vec: []float32{0.1}}
	cache := newFakeCache()
	cache.cannedHit = &dto.SearchResponse{
		Results:    []dto.CandidateResult{{Title: "Schoenen StyleHub (Zwart, 42)", Price: 49.99}},
		TotalCount: 1,
		Page:       1,
		TotalPages: 1,
		Limit:      20,
	}
	pub := &fakePublisher{}
	svc := newSearchServiceForTest(repo, emb, cache, pub)

	resp, err := svc.AiSearch(context.Background(), searchRequest("schoenen onder 50 euro"))
	require.NoError(t, err)

	assert.True(t, resp.CacheHit)
	assert.Equal(t, int64(1), resp.TotalCount)
	assert.True(t, strings.HasPrefix(cache.lastGetKey, "v1:ai_search:"))

	// Hit path skips the provider and the store entirely.
	assert.False(t, emb.called)
	assert.False(t, repo.searchCalled)
	assert.Equal(t, 0, cache.setCalls)

	// The hit is still reported to analytics.
	event := pub.lastEvent(t)
	assert.True(t, event.CacheHit)
	assert.Equal(t, 1, event.ResultCount)
}

func TestAiSearch_PriceFallback(t *testing.T) {
	repo := &fakeProductRepo{
		searchResults: nil,
		searchTotal:   0,
		cheapestResults: []*contract.ScoredProduct{
			scored("Shirts StyleHub (Wit, S)", 9.99, "Shirts", []string{"Shirts", "Wit"}, 0.70),
			scored("Shirts UrbanWear (Rood, M)", 12.50, "Shirts", []string{"Shirts", "Rood"}, 0.68),
		},
		cheapestTotal: 42,
	}
	emb := &fakeEmbedder{vec: []float32{0.1}}
	cache := newFakeCache()
	pub := &fakePublisher{}
	svc := newSearchServiceForTest(repo, emb, cache, pub)

	resp, err := svc.AiSearch(context.Background(), searchRequest("schoenen onder 5 euro"))
	require.NoError(t, err)

	assert.True(t, repo.cheapestCalled)
	assert.True(t, resp.PriceFilter.Applied)
	assert.True(t, resp.PriceFilter.FallbackUsed)
	require.NotNil(t, resp.Message)
	assert.Equal(t, FallbackMessage, *resp.Message)
	assert.Equal(t, int64(42), resp.TotalCount)

	// Fallback output stays cheapest-first, the adaptive engine is skipped.
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 9.99, resp.Results[0].Price)
	assert.Equal(t, 12.50, resp.Results[1].Price)

	event := pub.lastEvent(t)
	assert.True(t, event.FallbackUsed)
	assert.Empty(t, event.StrategiesApplied)
}

func TestAiSearch_FallbackMessageFollowsTargetLanguage(t *testing.T) {
	repo := &fakeProductRepo{
		cheapestResults: []*contract.ScoredProduct{
			scored("Shirts StyleHub (Wit, S)", 9.99, "Shirts", []string{"Shirts"}, 0.70),
		},
		cheapestTotal: 1,
	}
	emb := &fakeEmbedder{vec: []float32{0.1}}
	svc := newSearchServiceForTest(repo, emb, newFakeCache(), &fakePublisher{})

	req := searchRequest("schoenen onder 5 euro")
	req.TargetLanguage = "en"

	resp, err := svc.AiSearch(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Message)
	assert.Equal(t, FallbackMessageEN, *resp.Message)
}

func TestAiSearch_EmptyWindowWithoutFilter(t *testing.T) {
	repo := &fakeProductRepo{searchResults: nil, searchTotal: 0}
	emb := &fakeEmbedder{vec: []float32{0.1}}
	cache := newFakeCache()
	pub := &fakePublisher{}
	svc := newSearchServiceForTest(repo, emb, cache, pub)

	// No price filter, so an empty page is a genuine zero-result response.
	resp, err := svc.AiSearch(context.Background(), searchRequest("paarse overall"))
	require.NoError(t, err)

	assert.False(t, repo.cheapestCalled)
	assert.Equal(t, int64(0), resp.TotalCount)
	assert.Empty(t, resp.Results)
	assert.Nil(t, resp.Message)
}

func TestAiSearch_EmbeddingProviderError(t *testing.T) {
	repo := &fakeProductRepo{}
	emb := &fakeEmbedder{err: errors.New("connection refused")}
	cache := newFakeCache()
	pub := &fakePublisher{}
	svc := newSearchServiceForTest(repo, emb, cache, pub)

	resp, err := svc.AiSearch(context.Background(), searchRequest("schoenen onder 50 euro"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrEmbeddingProvider))
	assert.Nil(t, resp)

	assert.False(t, repo.searchCalled)
	assert.Equal(t, 0, cache.setCalls)
	assert.Empty(t, pub.payloads)
}

func TestAiSearch_StoreError(t *testing.T) {
	repo := &fakeProductRepo{searchErr: errors.New("pg down")}
	emb := &fakeEmbedder{vec: []float32{0.1}}
	cache := newFakeCache()
	pub := &fakePublisher{}
	svc := newSearchServiceForTest(repo, emb, cache, pub)

	resp, err := svc.AiSearch(context.Background(), searchRequest("schoenen onder 50 euro"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrStoreUnavailable))
	assert.Nil(t, resp)
	assert.False(t, repo.cheapestCalled)
	assert.Empty(t, pub.payloads)
}

// cancellingEmbedder cancels the request context from inside the pipeline,
// simulating a client that disconnects mid-search.
type cancellingEmbedder struct {
	cancel context.CancelFunc
	vec    []float32
}

func (c *cancellingEmbedder) Generate(_ context.Context, _ string) (embedding.EmbeddingResult, error) {
	c.cancel()
	return embedding.EmbeddingResult{Values: c.vec}, nil
}

func (c *cancellingEmbedder) Dimensions() int { return len(c.vec) }

func TestAiSearch_CancelledRequestNotCached(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := &fakeProductRepo{searchResults: diverseScored(), searchTotal: 5}
	emb := &cancellingEmbedder{cancel: cancel, vec: []float32{0.1}}
	cache := newFakeCache()
	pub := &fakePublisher{}

	nop := logger.NewNopLogger()
	extractor := pricing.NewExtractor(nil, nil, nop, pricing.Config{})
	engine := adaptive.NewEngine(nop)
	loader := tuning.NewLoader("testdata/absent.yaml", nop)
	uow := &fakeUow{products: repo, events: &fakeSearchEventRepo{}}
	svc := NewSearchService(&fakeUowFactory{uow: uow}, extractor, emb, engine, cache, pub, loader, nop)

	resp, err := svc.AiSearch(ctx, searchRequest("schoenen onder 50 euro"))
	require.NoError(t, err)
	require.NotNil(t, resp)

	// The caller still gets the page, the next caller does not get the
	// partial work from the cache.
	assert.Equal(t, 0, cache.setCalls)
}

func TestCacheKey_EquivalentPhrasingsShareEntry(t *testing.T) {
	repo := &fakeProductRepo{}
	emb := &fakeEmbedder{vec: []float32{0.1}}
	svc := newSearchServiceForTest(repo, emb, newFakeCache(), &fakePublisher{}).(*searchService)

	key := func(query string, page int) string {
		req := &dto.SearchRequest{Query: query, Page: page, Limit: 20, TargetLanguage: "nl"}
		intent := svc.extractor.Extract(context.Background(), query)
		cleaned := pricing.Clean(query, intent)
		return svc.cacheKey(cleaned, intent, req)
	}

	// Different phrasings of the same constraint normalize to one entry.
	assert.Equal(t, key("schoenen onder 50 euro", 1), key("schoenen tot 50 euro", 1))

	assert.NotEqual(t, key("schoenen onder 50 euro", 1), key("schoenen onder 50 euro", 2))
	assert.NotEqual(t, key("schoenen onder 50 euro", 1), key("schoenen onder 60 euro", 1))
	assert.NotEqual(t, key("schoenen onder 50 euro", 1), key("jassen onder 50 euro", 1))
}
