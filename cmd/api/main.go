package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/kishanyadav-shop/support-portal/internal/api/http"
	"github.com/kishanyadav-shop/support-portal/internal/api/http/handlers"
	"github.com/kishanyadav-shop/support-portal/internal/auth"
	"github.com/kishanyadav-shop/support-portal/internal/classify"
	"github.com/kishanyadav-shop/support-portal/internal/config"
	"github.com/kishanyadav-shop/support-portal/internal/events"
	"github.com/kishanyadav-shop/support-portal/internal/notify"
	"github.com/kishanyadav-shop/support-portal/internal/observability"
	"github.com/kishanyadav-shop/support-portal/internal/orders"
	"github.com/kishanyadav-shop/support-portal/internal/persistence"
	"github.com/kishanyadav-shop/support-portal/internal/service"
	"github.com/kishanyadav-shop/support-portal/internal/store"
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

	if pg.Pool != nil && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var notifier notify.Notifier
	if cfg.Notification.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Notification.WebhookURL, logger)
	} else {
		notifier = notify.NewLogNotifier(logger, cfg.Notification.EmailFrom)
	}

	var ticketStore store.TicketStore
	if pg.Pool != nil {
		ticketStore = store.NewPostgresStore(pg.Pool, notifier, logger)
	} else {
		ticketStore = store.NewMemoryStore(notifier, logger)
	}

	if cfg.App.SeedDemo {
		if count, err := ticketStore.Count(ctx); err == nil && count == 0 {
			if err := store.SeedDemoTickets(ctx, ticketStore); err != nil {
				logger.Warn("demo seed failed", zap.Error(err))
			}
		}
	}

	orderLookup := orders.NewDemoLookup()
	var classifier classify.Classifier = classify.NewOpenAIClassifier(
		cfg.Classifier.APIKey,
		cfg.Classifier.Model,
		cfg.Classifier.Timeout(),
		orderLookup,
		logger,
	)
	if cfg.Classifier.CacheEnabled {
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		classifier = classify.NewCachedClassifier(classifier, redis.Client, cfg.Classifier.CacheTTL(), logger)
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:      ticketStore,
		Classifier: classifier,
		Notifier:   notifier,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	authenticator := auth.NewStaticAuthenticator(cfg.Auth)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version),
		Auth:           handlers.NewAuthHandler(authenticator, tokens),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		StaffTickets:   handlers.NewStaffTicketsHandler(ticketService),
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
