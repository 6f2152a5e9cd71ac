package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/outage-service/internal/api/http"
	"github.com/spec-kit/outage-service/internal/api/http/handlers"
	"github.com/spec-kit/outage-service/internal/auth"
	"github.com/spec-kit/outage-service/internal/config"
	"github.com/spec-kit/outage-service/internal/events"
	"github.com/spec-kit/outage-service/internal/observability"
	"github.com/spec-kit/outage-service/internal/persistence"
	"github.com/spec-kit/outage-service/internal/repository"
	"github.com/spec-kit/outage-service/internal/service"
	"github.com/spec-kit/outage-service/internal/worker"
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

	metrics := observability.NewMetrics(nil)
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	deviceRepo := repository.NewDeviceRepository(pool)
	subscriberRepo := repository.NewSubscriberRepository(pool)
	crisisRepo := repository.NewCrisisEventRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	radiusService := service.NewRadiusService(service.RadiusDependencies{
		DeviceRepo:     deviceRepo,
		SubscriberRepo: subscriberRepo,
		MaxDevices:     cfg.Incident.MaxTraversalDevices,
		Logger:         logger,
	})
	incidentService := service.NewIncidentService(service.IncidentDependencies{
		CrisisRepo: crisisRepo,
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	alertService := service.NewAlertService(service.AlertDependencies{
		DeviceRepo: deviceRepo,
		Radius:     radiusService,
		Incidents:  incidentService,
		Deduper:    persistence.NewRedisDeduper(redis, cfg.Incident.SuppressionWindow()),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(tokenManager, cfg.Auth.OperatorSecretHash),
		Webhook:        handlers.NewWebhookHandler(alertService, logger),
		Crises:         handlers.NewCrisisHandler(incidentService, metrics),
		Tickets:        handlers.NewTicketsHandler(incidentService),
		AuthMiddleware: auth.NewAuthMiddleware(tokenManager),
		WebhookAuth:    auth.WebhookAuth(cfg.Auth.WebhookTokenHash, logger),
		Metrics:        metrics.Handler(),
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
