package controller

import (
	"ai-shopsearch-be/internal/config"
	"ai-shopsearch-be/internal/dto"
	"ai-shopsearch-be/internal/pkg/serverutils"
	"ai-shopsearch-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	AiSearch(ctx *fiber.Ctx) error
	Autocomplete(ctx *fiber.Ctx) error
	PopularSearches(ctx *fiber.Ctx) error
}

type searchController struct {
	searchService  service.ISearchService
	catalogService service.ICatalogService
	cfg            config.SearchConfig
}

func NewSearchController(
	searchService service.ISearchService,
	catalogService service.ICatalogService,
	cfg config.SearchConfig,
) ISearchController {
	return &searchController{
		searchService:  searchService,
		catalogService: catalogService,
		cfg:            cfg,
	}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/search/v1")
	h.Get("ai-search", c.AiSearch)
	h.Get("autocomplete", c.Autocomplete)
	h.Get("popular", c.PopularSearches)
}

func (c *searchController) AiSearch(ctx *fiber.Ctx) error {
	req := dto.SearchRequest{
		Query:          ctx.Query("q"),
		Page:           ctx.QueryInt("page", 1),
		Limit:          ctx.QueryInt("limit", c.cfg.DefaultPageSize),
		TargetLanguage: ctx.Query("lang", c.cfg.ResponseLanguage),
	}
	if req.Limit > c.cfg.MaxPageSize {
		req.Limit = c.cfg.MaxPageSize
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.searchService.AiSearch(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search products", res))
}

func (c *searchController) Autocomplete(ctx *fiber.Ctx) error {
	req := dto.AutocompleteRequest{
		Query: ctx.Query("q"),
		Limit: ctx.QueryInt("limit", 10),
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.catalogService.Autocomplete(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success autocomplete", res))
}

func (c *searchController) PopularSearches(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 10)
	if limit < 1 || limit > 50 {
		limit = 10
	}

	res, err := c.catalogService.PopularSearches(ctx.Context(), limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success popular searches", res))
}
