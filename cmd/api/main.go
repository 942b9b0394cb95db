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

	httptransport "github.com/eventhub/event-service/internal/api/http"
	"github.com/eventhub/event-service/internal/api/http/handlers"
	"github.com/eventhub/event-service/internal/auth"
	"github.com/eventhub/event-service/internal/config"
	"github.com/eventhub/event-service/internal/events"
	"github.com/eventhub/event-service/internal/observability"
	"github.com/eventhub/event-service/internal/persistence"
	"github.com/eventhub/event-service/internal/repository"
	"github.com/eventhub/event-service/internal/service"
	"github.com/eventhub/event-service/internal/worker"
)

const shutdownTimeout = 15 * time.Second

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

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	registrationRepo := repository.NewRegistrationRepository(pool)
	likeRepo := repository.NewLikeRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	promotionRepo := repository.NewPromotionRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	queue := worker.NewQueue(events.NewInMemoryDispatcher(), 0, logger)
	worker.StartNotificationWorker(service.NewNotificationService(queue, logger, cfg.Notification))

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	revocations := auth.NewRedisRevocationStore(redis.Client, redis.KeyPrefix)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:    userRepo,
		Revocations: revocations,
		Tokens:      tokens,
		Logger:      logger,
	})
	if err := authService.EnsureAdmin(ctx, cfg.Auth); err != nil {
		logger.Fatal("failed to ensure bootstrap admin", zap.Error(err))
	}

	eventService := service.NewEventService(service.EventDependencies{
		EventRepo:    eventRepo,
		CategoryRepo: categoryRepo,
		StatsRepo:    statsRepo,
		Dispatcher:   queue,
		Logger:       logger,
	})
	registrationService := service.NewRegistrationService(service.RegistrationDependencies{
		RegistrationRepo: registrationRepo,
		EventRepo:        eventRepo,
		Dispatcher:       queue,
		Logger:           logger,
	})
	userService := service.NewUserService(service.UserDependencies{
		UserRepo:         userRepo,
		RegistrationRepo: registrationRepo,
		StatsRepo:        statsRepo,
		Dispatcher:       queue,
		Logger:           logger,
	})
	promotionService := service.NewPromotionService(service.PromotionDependencies{
		PromotionRepo: promotionRepo,
		Dispatcher:    queue,
		Logger:        logger,
	})

	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo, revocations, cfg.Auth.CookieName, logger)
	loginLimiter := auth.NewLoginLimiter(cfg.Auth.LoginRateLimit, cfg.Auth.LoginBurst, logger)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:     cfg.App.RequestTimeout(),
		CORSOrigins: cfg.App.CORSOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth: handlers.NewAuthHandler(authService, handlers.CookieSettings{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.App.IsProduction(),
		}),
		Events:         handlers.NewEventsHandler(eventService),
		Registrations:  handlers.NewRegistrationsHandler(registrationService),
		Likes:          handlers.NewLikesHandler(service.NewLikeService(likeRepo, eventRepo)),
		Users:          handlers.NewUsersHandler(userService),
		Categories:     handlers.NewCategoriesHandler(service.NewCategoryService(categoryRepo, nil)),
		Promotions:     handlers.NewPromotionsHandler(promotionService),
		Stats:          handlers.NewStatsHandler(service.NewStatsService(statsRepo, nil)),
		AuthMiddleware: authMiddleware,
		LoginLimiter:   loginLimiter,
		Metrics:        metrics,
	})

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := queue.Close(shutdownCtx); err != nil {
		logger.Warn("notification queue drain", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
