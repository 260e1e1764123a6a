package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"ai-shopsearch-be/internal/apperror"
	"ai-shopsearch-be/internal/dto"
	"ai-shopsearch-be/internal/metrics"
	"ai-shopsearch-be/internal/pkg/logger"
	"ai-shopsearch-be/internal/repository/contract"
	"ai-shopsearch-be/internal/repository/unitofwork"
	"ai-shopsearch-be/internal/tuning"
	"ai-shopsearch-be/pkg/adaptive"
	"ai-shopsearch-be/pkg/embedding"
	"ai-shopsearch-be/pkg/pricing"
	"ai-shopsearch-be/pkg/utils"

	"golang.org/x/sync/singleflight"
)

// FallbackMessage is shown when the price window matched nothing and the
// cheapest alternatives were returned instead. Store language is Dutch,
// target_language=en swaps in the English rendering.
const (
	FallbackMessage   = "Geen producten gevonden binnen de prijsklasse, hier zijn de goedkoopste alternatieven."
	FallbackMessageEN = "No products found within the price range, here are the cheapest alternatives."
)

const searchTypeAI = "ai_search"

type ISearchService interface {
	AiSearch(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error)
}

type searchService struct {
	uowFactory        unitofwork.RepositoryFactory
	extractor         *pricing.Extractor
	embeddingProvider embedding.EmbeddingProvider
	adaptiveEngine    *adaptive.Engine
	cacheService      ICacheService
	publisherService  IPublisherService
	tuning            *tuning.Loader
	log               logger.ILogger
	flight            singleflight.Group
}

func NewSearchService(
	uowFactory unitofwork.RepositoryFactory,
	extractor *pricing.Extractor,
	embeddingProvider embedding.EmbeddingProvider,
	adaptiveEngine *adaptive.Engine,
	cacheService ICacheService,
	publisherService IPublisherService,
	tuningLoader *tuning.Loader,
	log logger.ILogger,
) ISearchService {
	return &searchService{
		uowFactory:        uowFactory,
		extractor:         extractor,
		embeddingProvider: embeddingProvider,
		adaptiveEngine:    adaptiveEngine,
		cacheService:      cacheService,
		publisherService:  publisherService,
		tuning:            tuningLoader,
		log:               log,
	}
}

func (s *searchService) AiSearch(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	start := time.Now()

	// 1. Price intent + cleaned query. Extraction never fails, worst case is
	// the empty intent and an unchanged query.
	extractStart := time.Now()
	intent := s.extractor.Extract(ctx, req.Query)
	cleaned := pricing.Clean(req.Query, intent)
	metrics.SearchStageDuration.WithLabelValues("extract").Observe(time.Since(extractStart).Seconds())
	metrics.IntentExtractionsTotal.WithLabelValues(intentSourceLabel(intent)).Inc()

	// 2. Cache lookup. The key is built from the cleaned query and the
	// extracted bounds, so phrasings with the same meaning share an entry.
	key := s.cacheService.VersionedKey(ctx, s.cacheKey(cleaned, intent, req))

	var cached dto.SearchResponse
	if s.cacheService.GetJSON(ctx, key, &cached) {
		cached.CacheHit = true
		s.publishAnalytics(ctx, req, &cached, time.Since(start), nil)
		metrics.SearchRequestsTotal.WithLabelValues(searchTypeAI, "ok").Inc()
		metrics.SearchStageDuration.WithLabelValues("total").Observe(time.Since(start).Seconds())
		return &cached, nil
	}

	// 3. Miss path. Concurrent identical misses collapse onto one execution.
	value, err, _ := s.flight.Do(key, func() (interface{}, error) {
		return s.performSearch(ctx, req, intent, cleaned, key)
	})
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(searchTypeAI, "error").Inc()
		return nil, err
	}

	outcome := value.(*searchOutcome)
	s.publishAnalytics(ctx, req, outcome.resp, time.Since(start), outcome.applied)
	metrics.SearchRequestsTotal.WithLabelValues(searchTypeAI, "ok").Inc()
	metrics.SearchStageDuration.WithLabelValues("total").Observe(time.Since(start).Seconds())
	return outcome.resp, nil
}

// searchOutcome carries the applied strategy names alongside the response so
// analytics can record them without leaking into the response body.
type searchOutcome struct {
	resp    *dto.SearchResponse
	applied []string
}

func (s *searchService) performSearch(ctx context.Context, req *dto.SearchRequest, intent pricing.Intent, cleaned, cacheKey string) (*searchOutcome, error) {
	// Embedding failure is a hard error. Masking it as "no results" would
	// silently serve an empty page for every query until the provider heals.
	embedStart := time.Now()
	embedRes, err := s.embeddingProvider.Generate(ctx, cleaned)
	metrics.SearchStageDuration.WithLabelValues("embed").Observe(time.Since(embedStart).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrEmbeddingProvider, err.Error())
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	offset := (req.Page - 1) * req.Limit

	retrieveStart := time.Now()
	scored, total, err := uow.ProductRepository().SearchByEmbedding(ctx, embedRes.Values, intent.MinPrice, intent.MaxPrice, req.Limit, offset)
	metrics.SearchStageDuration.WithLabelValues("retrieve").Observe(time.Since(retrieveStart).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrStoreUnavailable, err.Error())
	}

	filterApplied := intent.HasFilter()
	fallbackUsed := false
	var message *string

	// Empty window with an active price filter: one re-query without the
	// predicate, cheapest first. Never loops, a second empty set is a
	// genuine zero-result response.
	if total == 0 && filterApplied {
		scored, total, err = uow.ProductRepository().SearchCheapestByEmbedding(ctx, embedRes.Values, req.Limit, offset)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperror.ErrStoreUnavailable, err.Error())
		}
		fallbackUsed = true
		msg := FallbackMessage
		if req.TargetLanguage == "en" {
			msg = FallbackMessageEN
		}
		message = &msg
		metrics.PriceFallbackTotal.Inc()

		s.log.Info("search", "price window empty, returned cheapest alternatives", map[string]interface{}{
			"query":     req.Query,
			"min_price": intent.MinPrice,
			"max_price": intent.MaxPrice,
		})
	}

	// Adaptive reranking only touches regular result pages. The fallback
	// path promises price-ascending output and stays untouched.
	var applied []string
	if total > 0 && !fallbackUsed {
		adaptiveStart := time.Now()
		scored, applied = s.applyAdaptive(req.Query, scored)
		metrics.SearchStageDuration.WithLabelValues("adaptive").Observe(time.Since(adaptiveStart).Seconds())
	}

	resp := &dto.SearchResponse{
		Results:    mapScoredToResults(scored),
		TotalCount: total,
		Page:       req.Page,
		TotalPages: totalPages(total, req.Limit),
		Limit:      req.Limit,
		PriceFilter: dto.PriceFilter{
			Min:          intent.MinPrice,
			Max:          intent.MaxPrice,
			Applied:      filterApplied,
			FallbackUsed: fallbackUsed,
		},
		Message:  message,
		CacheHit: false,
	}

	// Cancelled requests never reach the cache, partial work must not be
	// served to the next caller.
	if ctx.Err() == nil {
		s.cacheService.SetJSON(ctx, cacheKey, resp, s.tuning.Current().Cache.SearchTTL())
	}

	return &searchOutcome{resp: resp, applied: applied}, nil
}

// applyAdaptive maps the scored rows through the strategy engine and reorders
// them to the engine's output. Membership can only shrink or reorder, the
// engine never invents candidates, so lookup by ID is total.
func (s *searchService) applyAdaptive(rawQuery string, scored []*contract.ScoredProduct) ([]*contract.ScoredProduct, []string) {
	th := s.tuning.Current().Adaptive

	candidates := make([]adaptive.Candidate, len(scored))
	byID := make(map[string]*contract.ScoredProduct, len(scored))
	for i, sp := range scored {
		id := sp.Product.Id.String()
		tags := make([]string, 0, len(sp.Product.Tags)+1)
		if sp.Product.Category != "" {
			tags = append(tags, sp.Product.Category)
		}
		tags = append(tags, sp.Product.Tags...)

		candidates[i] = adaptive.Candidate{
			ID:         id,
			Price:      sp.Product.Price,
			Similarity: sp.Similarity,
			Tags:       tags,
		}
		byID[id] = sp
	}

	result := s.adaptiveEngine.Apply(candidates, adaptive.DetectQueryContext(rawQuery), th)
	if len(result.Applied) == 0 {
		return scored, nil
	}

	for _, name := range result.Applied {
		metrics.AdaptiveStrategiesTotal.WithLabelValues(name).Inc()
	}

	reordered := make([]*contract.ScoredProduct, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		if sp, ok := byID[c.ID]; ok {
			reordered = append(reordered, sp)
		}
	}
	return reordered, result.Applied
}

func (s *searchService) cacheKey(cleaned string, intent pricing.Intent, req *dto.SearchRequest) string {
	return utils.BuildCacheKey("ai_search", map[string]string{
		"query":     cleaned,
		"min_price": formatBound(intent.MinPrice),
		"max_price": formatBound(intent.MaxPrice),
		"page":      strconv.Itoa(req.Page),
		"limit":     strconv.Itoa(req.Limit),
		"lang":      req.TargetLanguage,
	})
}

// publishAnalytics sends the immutable search snapshot to the in-process bus.
// Analytics never fail a request, errors are logged and dropped.
func (s *searchService) publishAnalytics(ctx context.Context, req *dto.SearchRequest, resp *dto.SearchResponse, elapsed time.Duration, applied []string) {
	filters := map[string]interface{}{}
	if resp.PriceFilter.Min != nil {
		filters["min_price"] = *resp.PriceFilter.Min
	}
	if resp.PriceFilter.Max != nil {
		filters["max_price"] = *resp.PriceFilter.Max
	}

	event := dto.SearchPerformedEvent{
		Query:             req.Query,
		SearchType:        searchTypeAI,
		Filters:           filters,
		ResultCount:       len(resp.Results),
		Page:              req.Page,
		Limit:             req.Limit,
		ResponseTimeMs:    elapsed.Milliseconds(),
		CacheHit:          resp.CacheHit,
		FallbackUsed:      resp.PriceFilter.FallbackUsed,
		StrategiesApplied: applied,
		OccurredAt:        time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Warn("search", "failed to marshal analytics event", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Warn("search", "failed to publish analytics event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func intentSourceLabel(intent pricing.Intent) string {
	if intent.Source == "" {
		return "none"
	}
	return string(intent.Source)
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func mapScoredToResults(scored []*contract.ScoredProduct) []dto.CandidateResult {
	results := make([]dto.CandidateResult, len(scored))
	for i, sp := range scored {
		results[i] = dto.CandidateResult{
			ProductId:  sp.Product.Id,
			Title:      sp.Product.Title,
			Price:      sp.Product.Price,
			Category:   sp.Product.Category,
			Tags:       sp.Product.Tags,
			Similarity: sp.Similarity,
		}
	}
	return results
}
