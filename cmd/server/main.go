package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/stagepass/stagepass/internal/config"
	"github.com/stagepass/stagepass/internal/database"
	"github.com/stagepass/stagepass/internal/handler"
	"github.com/stagepass/stagepass/internal/middleware"
	"github.com/stagepass/stagepass/internal/queue"
	"github.com/stagepass/stagepass/internal/repository"
	"github.com/stagepass/stagepass/internal/router"
)

func main() {
	// .env is optional; real deployments inject env vars directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	if err := database.SeedCatalog(ctx, db); err != nil {
		cancel()
		log.Fatalf("seed: %v", err)
	}
	cancel()

	// Redis backs the response cache, the rate limiter and the draft
	// store. All three degrade gracefully when it is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: cache and rate limiting disabled, drafts unavailable")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	concerts := repository.NewConcertRepo(db)
	bookings := repository.NewBookingRepo(db)

	var drafts repository.DraftStore
	if rdb != nil {
		drafts = repository.NewRedisDraftStore(rdb, cfg.DraftTTL)
	}

	authH := handler.NewAuthHandler(cfg, users, tokens)
	concertH := handler.NewConcertHandler(concerts)
	bookingH := handler.NewBookingHandler(concerts, bookings)
	draftH := handler.NewDraftHandler(drafts, cfg.DraftTTL)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, concertH, cacheMW)
	router.RegisterBooking(e, bookingH, draftH, cfg.JWTSecret)
	if cfg.Env == "dev" {
		router.RegisterDev(e, handler.NewDevHandler(db))
		log.Println("dev routes enabled")
	}

	// The consumer reconnects forever on its own; a fatal inside would
	// take the API down with it, so failures only log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
