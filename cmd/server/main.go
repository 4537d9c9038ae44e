package main // Entry point package

import (
    "log"  // Logging library
    "time" // seat hold TTL conversion

    "github.com/joho/godotenv"    // .env loader for local development
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/movie-ticket-platform/internal/booking"
    "github.com/iliyamo/movie-ticket-platform/internal/config"
    "github.com/iliyamo/movie-ticket-platform/internal/database"
    "github.com/iliyamo/movie-ticket-platform/internal/handler"
    "github.com/iliyamo/movie-ticket-platform/internal/middleware"
    "github.com/iliyamo/movie-ticket-platform/internal/queue"
    "github.com/iliyamo/movie-ticket-platform/internal/repository"
    "github.com/iliyamo/movie-ticket-platform/internal/router"
)

func main() {
    // Load .env when present; real deployments set the environment
    // directly.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database connect failed: %v", err)
    }
    defer db.Close()

    // Redis backs rate limiting, response caching and the token
    // blacklist.  A nil client disables all three.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; rate limiting, caching and token blacklist disabled")
    }

    // Repositories.
    showtimes := repository.NewShowtimeRepo(db)
    ledger := repository.NewSeatClaimRepo(db)
    tickets := repository.NewTicketRepo(db)
    payments := repository.NewPaymentRepo(db)
    bookings := repository.NewBookingRepo(db)
    customers := repository.NewCustomerRepo(db)
    blacklist := repository.NewBlacklistRepo(rdb)

    // Booking orchestrator.
    svc := booking.NewService(showtimes, ledger, tickets, payments, bookings,
        time.Duration(cfg.HoldTTLMin)*time.Minute)

    // Handlers.
    authH := handler.NewAuthHandler(cfg, customers, blacklist)
    customerH := handler.NewCustomerHandler(svc)
    publicH := handler.NewPublicHandler(showtimes)

    e := echo.New()
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret, blacklist)
    router.RegisterCustomer(e, customerH, cfg.JWTSecret, blacklist)
    // Public browse goes through the response cache; availability on
    // these endpoints may lag by the cache TTL.
    router.RegisterPublic(e, publicH, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

    // Background consumer writing booking events to logs/booking.log.
    go func() {
        if err := queue.StartTicketConsumer(); err != nil {
            log.Printf("ticket consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
