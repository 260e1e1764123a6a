package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Healthz(ctx *fiber.Ctx) error
}

type healthController struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) IHealthController {
	return &healthController{
		db:  db,
		rdb: rdb,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/healthz", c.Healthz)
}

// Healthz pings the hard dependencies. Postgres down means 503, Redis down
// only degrades (search runs without the cache).
func (c *healthController) Healthz(ctx *fiber.Ctx) error {
	status := "ok"
	code := fiber.StatusOK
	deps := fiber.Map{}

	sqlDB, err := c.db.DB()
	if err != nil || sqlDB.PingContext(ctx.Context()) != nil {
		deps["database"] = "down"
		status = "down"
		code = fiber.StatusServiceUnavailable
	} else {
		deps["database"] = "ok"
	}

	if err := c.rdb.Ping(ctx.Context()).Err(); err != nil {
		deps["redis"] = "down"
		if status == "ok" {
			status = "degraded"
		}
	} else {
		deps["redis"] = "ok"
	}

	return ctx.Status(code).JSON(fiber.Map{
		"status":       status,
		"dependencies": deps,
	})
}
