package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-admission/internal/api/http"
	"github.com/spec-kit/ticket-admission/internal/api/http/handlers"
	"github.com/spec-kit/ticket-admission/internal/auth"
	"github.com/spec-kit/ticket-admission/internal/config"
	"github.com/spec-kit/ticket-admission/internal/events"
	"github.com/spec-kit/ticket-admission/internal/observability"
	"github.com/spec-kit/ticket-admission/internal/persistence"
	"github.com/spec-kit/ticket-admission/internal/repository"
	"github.com/spec-kit/ticket-admission/internal/service"
	"github.com/spec-kit/ticket-admission/internal/worker"
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	cachedUsers := repository.NewCachedUserRepository(userRepo, redis.Client, cfg.Admission.UserCacheTTL(), logger.Named("user-cache"))
	ticketRepo := repository.NewTicketRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger.Named("notification"), cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)
	service.NewHistoryService(dispatcher, repository.NewTicketHistoryRepository(pool), logger.Named("history")).RegisterHandlers()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		UserRepo:   cachedUsers,
		Notifier:   notificationService,
		Clock:      service.SystemClock{},
		Dispatcher: dispatcher,
		TitleFlags: cfg.Admission.TitleFlags,
		Logger:     logger.Named("admission"),
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		TicketRepo: ticketRepo,
		UserRepo:   cachedUsers,
		Clock:      service.SystemClock{},
		Dispatcher: dispatcher,
		Logger:     logger.Named("assignment"),
	})
	// Login reads password hashes straight from Postgres, never from the cache.
	authService := service.NewAuthService(cfg.Auth, userRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), cachedUsers)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}, metrics),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, assignmentService, logger.Named("tickets-api")),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
