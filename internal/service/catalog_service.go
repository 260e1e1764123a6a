package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ai-shopsearch-be/internal/apperror"
	"ai-shopsearch-be/internal/dto"
	"ai-shopsearch-be/internal/entity"
	"ai-shopsearch-be/internal/pkg/logger"
	"ai-shopsearch-be/internal/repository/memory"
	"ai-shopsearch-be/internal/repository/specification"
	"ai-shopsearch-be/internal/repository/unitofwork"
	"ai-shopsearch-be/internal/tuning"
	"ai-shopsearch-be/pkg/pricing"
	"ai-shopsearch-be/pkg/utils"
)

// popularWindow bounds the database aggregate when the Redis leaderboard is
// down. The zset itself is unbounded history.
const popularWindow = 7 * 24 * time.Hour

type ICatalogService interface {
	ListProducts(ctx context.Context, req *dto.ListProductsRequest) (*dto.ListProductsResponse, error)
	Autocomplete(ctx context.Context, req *dto.AutocompleteRequest) (*dto.AutocompleteResponse, error)
	PopularSearches(ctx context.Context, limit int) (*dto.PopularSearchesResponse, error)
}

type catalogService struct {
	uowFactory   unitofwork.RepositoryFactory
	popularRepo  *memory.PopularSearchesRepository
	extractor    *pricing.Extractor
	cacheService ICacheService
	tuning       *tuning.Loader
	log          logger.ILogger
}

func NewCatalogService(
	uowFactory unitofwork.RepositoryFactory,
	popularRepo *memory.PopularSearchesRepository,
	extractor *pricing.Extractor,
	cacheService ICacheService,
	tuningLoader *tuning.Loader,
	log logger.ILogger,
) ICatalogService {
	return &catalogService{
		uowFactory:   uowFactory,
		popularRepo:  popularRepo,
		extractor:    extractor,
		cacheService: cacheService,
		tuning:       tuningLoader,
		log:          log,
	}
}

func (c *catalogService) ListProducts(ctx context.Context, req *dto.ListProductsRequest) (*dto.ListProductsResponse, error) {
	key := c.cacheService.VersionedKey(ctx, utils.BuildCacheKey("products", map[string]string{
		"page":       strconv.Itoa(req.Page),
		"limit":      strconv.Itoa(req.Limit),
		"category":   req.Category,
		"sort_by":    req.SortBy,
		"sort_order": req.SortOrder,
	}))

	var cached dto.ListProductsResponse
	if c.cacheService.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	filterSpecs := []specification.Specification{}
	if req.Category != "" {
		filterSpecs = append(filterSpecs, specification.ByCategory{Category: req.Category})
	}

	total, err := uow.ProductRepository().Count(ctx, filterSpecs...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrStoreUnavailable, err.Error())
	}

	pageSpecs := append([]specification.Specification{}, filterSpecs...)
	pageSpecs = append(pageSpecs,
		specification.SortBy{Field: req.SortBy, Desc: req.SortOrder == "desc"},
		specification.Pagination{Limit: req.Limit, Offset: (req.Page - 1) * req.Limit},
	)

	products, err := uow.ProductRepository().FindAll(ctx, pageSpecs...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrStoreUnavailable, err.Error())
	}

	resp := &dto.ListProductsResponse{
		Products:   mapProducts(products),
		TotalCount: total,
		Page:       req.Page,
		TotalPages: totalPages(total, req.Limit),
		Limit:      req.Limit,
	}

	if ctx.Err() == nil {
		c.cacheService.SetJSON(ctx, key, resp, c.tuning.Current().Cache.ListingTTL())
	}
	return resp, nil
}

func (c *catalogService) Autocomplete(ctx context.Context, req *dto.AutocompleteRequest) (*dto.AutocompleteResponse, error) {
	// Price words become bounds on the suggestion query instead of part of
	// the prefix, so "schoenen onder 50" suggests shoe titles priced under
	// 50 rather than titles starting with "schoenen onder 50".
	intent := c.extractor.ExtractDeterministic(req.Query)
	cleaned := pricing.Clean(req.Query, intent)

	key := c.cacheService.VersionedKey(ctx, utils.BuildCacheKey("autocomplete", map[string]string{
		"query":     cleaned,
		"min_price": formatBound(intent.MinPrice),
		"max_price": formatBound(intent.MaxPrice),
		"limit":     strconv.Itoa(req.Limit),
	}))

	var cached dto.AutocompleteResponse
	if c.cacheService.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	titles, err := uow.ProductRepository().AutocompleteTitles(ctx, cleaned, intent.MinPrice, intent.MaxPrice, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrStoreUnavailable, err.Error())
	}

	resp := &dto.AutocompleteResponse{Suggestions: titles}
	if ctx.Err() == nil {
		c.cacheService.SetJSON(ctx, key, resp, c.tuning.Current().Cache.AutocompleteTTL())
	}
	return resp, nil
}

// PopularSearches reads the Redis leaderboard, falling back to the
// search-events aggregate when Redis is unavailable.
func (c *catalogService) PopularSearches(ctx context.Context, limit int) (*dto.PopularSearchesResponse, error) {
	queries, err := c.popularRepo.Top(ctx, limit)
	if err != nil {
		c.log.Warn("catalog", "popular searches leaderboard unavailable, using database aggregate", map[string]interface{}{
			"error": err.Error(),
		})

		uow := c.uowFactory.NewUnitOfWork(ctx)
		queries, err = uow.SearchEventRepository().PopularQueries(ctx, time.Now().Add(-popularWindow), limit)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperror.ErrStoreUnavailable, err.Error())
		}
	}

	items := make([]dto.PopularQueryItem, len(queries))
	for i, q := range queries {
		items[i] = dto.PopularQueryItem{Query: q.Query, Count: q.Count}
	}
	return &dto.PopularSearchesResponse{Queries: items}, nil
}

func mapProducts(products []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, len(products))
	for i, p := range products {
		out[i] = dto.ProductResponse{
			Id:          p.Id,
			ExternalId:  p.ExternalId,
			Title:       p.Title,
			Description: p.Description,
			Price:       p.Price,
			Category:    p.Category,
			Tags:        p.Tags,
			CreatedAt:   p.CreatedAt,
		}
	}
	return out
}
