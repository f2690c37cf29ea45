package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/query-service/internal/api/http"
	"github.com/spec-kit/query-service/internal/api/http/handlers"
	"github.com/spec-kit/query-service/internal/auth"
	"github.com/spec-kit/query-service/internal/bootstrap"
	"github.com/spec-kit/query-service/internal/config"
	"github.com/spec-kit/query-service/internal/events"
	"github.com/spec-kit/query-service/internal/observability"
	"github.com/spec-kit/query-service/internal/persistence"
	"github.com/spec-kit/query-service/internal/repository"
	"github.com/spec-kit/query-service/internal/service"
	"github.com/spec-kit/query-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	queryRepo := repository.NewQueryRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	seed := bootstrap.New(userRepo, queryRepo, dispatcher, logger, cfg.Bootstrap)
	if err := seed.Run(ctx); err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}

	reportCache := service.NewReportCache(redis.Handle(), 30*time.Second, logger)
	authService := service.NewAuthService(cfg.Auth, userRepo)
	queryService := service.NewQueryService(service.QueryDependencies{
		QueryRepo:  queryRepo,
		Dispatcher: dispatcher,
		Cache:      reportCache,
	})
	reportService := service.NewReportService(queryRepo, reportCache)
	authMiddleware := auth.NewMiddleware(authService.TokenManager())

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Queries:        handlers.NewQueriesHandler(queryService),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
