package main

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pulseboard/docs"
	"pulseboard/internal/auth"
	"pulseboard/internal/cache"
	"pulseboard/internal/config"
	"pulseboard/internal/db"
	"pulseboard/internal/handler"
	"pulseboard/internal/model"
	"pulseboard/internal/mq"
	"pulseboard/internal/realtime"
	"pulseboard/internal/repository"
	"pulseboard/internal/router"
	"pulseboard/internal/service"
)

// @title Pulseboard Dashboard API
// @version 1.0
// @description Analytics dashboard backend with bearer-token auth, user-scoped data entries, and real-time dashboard events.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	e := echo.New()
	e.HideBanner = true

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("database init", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.DataEntry{},
	); err != nil {
		logger.Fatal("auto-migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	entryRepo := repository.NewEntryRepository(gormDB)

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	var verifier service.CredentialVerifier
	if cfg.DemoMode {
		logger.Warn("demo credential verification enabled; do not use in production")
		verifier = service.NewDemoVerifier(userRepo)
	} else {
		verifier = service.NewBcryptVerifier(userRepo)
	}

	// Real-time plumbing. Without a broker, mutations publish straight
	// into the local hub; with one, they go through the exchange and the
	// bridge feeds every instance's hub (including this one).
	hub := realtime.NewHub(logger)
	var events service.EventPublisher = hub
	if cfg.AMQPURL != "" {
		publisher, err := mq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Fatal("mq publisher init", zap.Error(err))
		}
		defer func() { _ = publisher.Close() }()

		bridge, err := mq.NewBridge(cfg.AMQPURL, cfg.AMQPExchange, hub, logger)
		if err != nil {
			logger.Fatal("mq bridge init", zap.Error(err))
		}
		defer bridge.Close()
		go func() {
			if err := bridge.Run(context.Background()); err != nil {
				logger.Error("mq bridge stopped", zap.Error(err))
			}
		}()

		events = publisher
	}

	// Services
	authService := service.NewAuthService(userRepo, verifier, jwtService, tokenStore)
	entryService := service.NewEntryService(entryRepo, events, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	entryHandler := handler.NewEntryHandler(entryService)
	eventsHandler := handler.NewEventsHandler(hub, logger)
	seedHandler := handler.NewSeedHandler(userRepo, entryRepo)

	router.Register(
		e,
		cfg,
		logger,
		cacheClient,
		authHandler,
		entryHandler,
		eventsHandler,
		seedHandler,
	)

	addr := ":" + cfg.ServerPort
	logger.Info("starting server", zap.String("addr", addr), zap.Bool("demo_mode", cfg.DemoMode))
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server start", zap.Error(err))
	}
}
