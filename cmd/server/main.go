package main // API entry point

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/fixthevideo/studio-api/internal/config"
	"github.com/fixthevideo/studio-api/internal/database"
	"github.com/fixthevideo/studio-api/internal/handler"
	"github.com/fixthevideo/studio-api/internal/middleware"
	"github.com/fixthevideo/studio-api/internal/queue"
	"github.com/fixthevideo/studio-api/internal/repository"
	"github.com/fixthevideo/studio-api/internal/router"
	"github.com/fixthevideo/studio-api/internal/service"
	"github.com/fixthevideo/studio-api/internal/utils"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}

	// Repositories.
	orders := repository.NewOrderRepo(db)
	customers := repository.NewCustomerRepo(db)
	admins := repository.NewAdminRepo(db)
	chat := repository.NewChatRepo(db)
	tokens := repository.NewTokenRepo(db)

	// Seed the bootstrap super admin so a fresh install can log in.
	hash, err := utils.HashPassword(cfg.SuperAdminPassword, cfg.BcryptCost)
	if err != nil {
		cancel()
		log.Fatalf("seed admin: %v", err)
	}
	if err := admins.EnsureSuperAdmin(ctx, cfg.SuperAdminEmail, cfg.SuperAdminName, hash); err != nil {
		cancel()
		log.Fatalf("seed admin: %v", err)
	}
	cancel()

	// Services.
	events := queue.NewPublisher(cfg.RabbitURL)
	relay := service.NewRelay(chat, customers)
	intake := service.NewIntake(orders, customers, chat, events, cfg.BcryptCost)
	quotes := service.NewQuoteEngine(orders, relay, events)
	lifecycle := service.NewLifecycle(orders, relay, events)
	payments := service.NewPaymentSimulator(orders, customers, events,
		time.Duration(cfg.PaymentProcessingMS)*time.Millisecond,
		time.Duration(cfg.PaymentLingerMS)*time.Millisecond)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, customers, admins, tokens)
	custOrdersH := handler.NewCustomerOrdersHandler(intake, orders)
	adminOrdersH := handler.NewAdminOrdersHandler(orders, admins, quotes, lifecycle)
	chatH := handler.NewChatHandler(chat, customers, relay)
	paymentH := handler.NewPaymentHandler(payments)
	contactH := handler.NewContactHandler(cfg)

	e := echo.New()
	e.HideBanner = true

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e, contactH, custOrdersH)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCustomer(e, custOrdersH, chatH, paymentH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminOrdersH, chatH, cfg.JWTSecret)

	// Background consumer mirrors order events into logs/orders.log.
	go queue.StartOrderConsumer(cfg.RabbitURL)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
