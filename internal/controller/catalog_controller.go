package controller

import (
	"ai-shopsearch-be/internal/config"
	"ai-shopsearch-be/internal/dto"
	"ai-shopsearch-be/internal/pkg/serverutils"
	"ai-shopsearch-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
	ListProducts(ctx *fiber.Ctx) error
}

type catalogController struct {
	catalogService service.ICatalogService
	cfg            config.SearchConfig
}

func NewCatalogController(catalogService service.ICatalogService, cfg config.SearchConfig) ICatalogController {
	return &catalogController{
		catalogService: catalogService,
		cfg:            cfg,
	}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/catalog/v1")
	h.Get("products", c.ListProducts)
}

func (c *catalogController) ListProducts(ctx *fiber.Ctx) error {
	req := dto.ListProductsRequest{
		Page:      ctx.QueryInt("page", 1),
		Limit:     ctx.QueryInt("limit", c.cfg.DefaultPageSize),
		Category:  ctx.Query("category"),
		SortBy:    ctx.Query("sort_by", "created_at"),
		SortOrder: ctx.Query("sort_order", "desc"),
	}
	if req.Limit > c.cfg.MaxPageSize {
		req.Limit = c.cfg.MaxPageSize
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.catalogService.ListProducts(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list products", res))
}
