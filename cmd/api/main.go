package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-inventory-tracker/internal/handler"
	"go-inventory-tracker/internal/metrics"
	"go-inventory-tracker/internal/middleware"
	"go-inventory-tracker/internal/repository"
	"go-inventory-tracker/internal/service"
	"go-inventory-tracker/internal/ws"
	"go-inventory-tracker/pkg/config"
	"go-inventory-tracker/pkg/database"
	"go-inventory-tracker/pkg/jwt"
	"go-inventory-tracker/pkg/logger"
	"go-inventory-tracker/pkg/migrate"
	"go-inventory-tracker/pkg/redis"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := logger.New(logger.Options{ServiceName: "go-inventory-tracker"})
		bootLogger.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: cfg.App.Name,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if envErr != nil {
		logg.Warn(ctx, ".env file not found, relying on system env")
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to connect database", err)
		os.Exit(1)
	}
	if err := prepareSchema(ctx, cfg.DB, db, logg); err != nil {
		logg.Error(ctx, "failed to prepare schema", err)
		os.Exit(1)
	}

	// 3. Optional sign-in rate limiter
	var limiter service.LoginLimiter
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			logg.Error(ctx, "failed to connect redis", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		limiter = redis.NewLoginLimiter(redisClient, cfg.RateLimit)
	} else {
		logg.Warn(ctx, "REDIS_URL not set, sign-in rate limiting disabled")
	}

	// 4. Metrics and WebSocket Hub
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	ledgerMetrics := metrics.NewLedgerMetrics(registry)

	wsHub := ws.NewHub(cfg.WS.BufferSize, logg)
	go wsHub.Run(ctx)

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)

	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	invService := service.NewInventoryService(db, productRepo, txRepo, wsHub, ledgerMetrics, logg)
	dashService := service.NewDashboardService(productRepo, txRepo)
	authService := service.NewAuthService(userRepo, tokens, limiter, logg)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: handler.ErrorHandler(logg),
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(logg))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok", "ws_clients": wsHub.ClientCount()})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// 7. Routes
	handler.Register(app, handler.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Inventory: handler.NewInventoryHandler(invService, dashService),
		Dashboard: handler.NewDashboardHandler(dashService),
		WS:        handler.NewWSHandler(wsHub),
	}, middleware.RequireAuth(authService, logg))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			logg.Error(ctx, "server stopped", err)
			stop()
		}
	}()

	<-ctx.Done()
	logg.Info(context.Background(), "shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logg.Error(context.Background(), "server forced to shutdown", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logg.Info(context.Background(), "server exited")
}

// prepareSchema applies goose migrations on postgres and falls back to gorm's
// AutoMigrate for sqlite files.
func prepareSchema(ctx context.Context, cfg config.DBConfig, db *gorm.DB, logg *logger.Logger) error {
	if !cfg.AutoMigrate {
		return nil
	}
	if cfg.Driver == config.DriverSQLite {
		return database.AutoMigrate(db)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return migrate.Up(ctx, sqlDB, logg)
}
