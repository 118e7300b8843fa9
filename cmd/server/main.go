package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/event-ticket-office/internal/config"
	"github.com/iliyamo/event-ticket-office/internal/database"
	"github.com/iliyamo/event-ticket-office/internal/handler"
	"github.com/iliyamo/event-ticket-office/internal/inventory"
	"github.com/iliyamo/event-ticket-office/internal/middleware"
	"github.com/iliyamo/event-ticket-office/internal/queue"
	"github.com/iliyamo/event-ticket-office/internal/repository"
	"github.com/iliyamo/event-ticket-office/internal/router"
)

func main() {
	// Load .env when present; real deployments set the environment
	// directly and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it reads skip the snapshot cache and
	// rate limiting is disabled.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; snapshot cache and rate limiting disabled")
	}

	snapCfg := config.LoadSnapshotConfig()
	var cache *repository.SnapshotCache
	if snapCfg.Enabled {
		cache = repository.NewSnapshotCache(rdb, snapCfg.TTL, snapCfg.Prefix)
	}
	repo := repository.NewTicketRepo(db, cache)
	engine := inventory.New(repo, cfg.AdminSecret)

	authHandler := handler.NewAuthHandler(cfg)
	officeHandler := handler.NewOfficeHandler(engine, repo)

	e := echo.New()
	router.RegisterRoutes(e)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.RegisterOffice(e, authHandler, officeHandler, cfg.JWTSecret, limiter)

	// Background consumer appends each accepted sale to logs/sales.log.
	go func() {
		if err := queue.StartSalesConsumer(); err != nil {
			log.Printf("sales consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
