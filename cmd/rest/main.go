package main

import (
	"context"
	"log"
	"time"

	"ai-shopsearch-be/internal/bootstrap"
	"ai-shopsearch-be/internal/config"
	"ai-shopsearch-be/internal/server"
	"ai-shopsearch-be/internal/tracer"
	"ai-shopsearch-be/pkg/database"
)

func main() {
	// 1. Load Configuration (this also loads .env into the environment)
	cfg := config.Load()

	// 2. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.Environment != "production")
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 5. Start Background Services
	// Note: In a larger app, we might use an errgroup or supervisor here
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()
	container.TuningLoader.StartReloader(
		context.Background(),
		time.Duration(cfg.Search.TuningReloadSeconds)*time.Second,
	)

	// 6. Initialize Server
	srv := server.New(cfg, container)

	// 7. Run Server
	log.Fatal(srv.Run())
}
