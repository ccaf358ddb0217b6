package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/config"
	"github.com/iliyamo/cinebook/internal/database"
	"github.com/iliyamo/cinebook/internal/handler"
	"github.com/iliyamo/cinebook/internal/middleware"
	"github.com/iliyamo/cinebook/internal/queue"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if cfg.SeedDemoData {
		if err := database.Seed(ctx, db); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	// Redis backs pending bookings, the rate limiter and the response
	// cache.  The limiter and cache degrade to pass-through without it;
	// the booking flow does not, so a nil client is fatal.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis: connection failed; booking sessions require Redis")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	theaters := repository.NewTheaterRepo(db)
	movies := repository.NewMovieRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	bookings := repository.NewBookingRepo(db)
	food := repository.NewFoodRepo(db)
	reviews := repository.NewReviewRepo(db)
	pending := repository.NewPendingBookingRepo(rdb, time.Duration(cfg.PendingTTLMin)*time.Minute)
	txns := repository.NewBookingUnit(db, showtimes, bookings)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := &handler.PublicHandler{Theaters: theaters, Movies: movies, Showtimes: showtimes, Reviews: reviews}
	bookingH := handler.NewBookingHandler(cfg, showtimes, bookings, pending, food, txns, movies, theaters, users)
	reviewH := &handler.ReviewHandler{Reviews: reviews}
	adminCatH := &handler.AdminCatalogHandler{Theaters: theaters, Movies: movies}
	adminStH := &handler.AdminShowtimeHandler{Showtimes: showtimes, Movies: movies, Theaters: theaters}
	adminFoodH := &handler.AdminFoodHandler{Food: food}
	adminBkH := &handler.AdminBookingHandler{Bookings: bookings, Flow: bookingH}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, cache)
	router.RegisterBooking(e, bookingH, reviewH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminCatH, adminStH, adminFoodH, adminBkH, cfg.JWTSecret)

	// Background consumer appends confirmed/cancelled events to
	// logs/booking.log and reconnects on broker failures.
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
