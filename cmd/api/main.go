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

	httptransport "github.com/spec-kit/bugreport-service/internal/api/http"
	"github.com/spec-kit/bugreport-service/internal/api/http/handlers"
	"github.com/spec-kit/bugreport-service/internal/config"
	"github.com/spec-kit/bugreport-service/internal/events"
	"github.com/spec-kit/bugreport-service/internal/jira"
	"github.com/spec-kit/bugreport-service/internal/observability"
	"github.com/spec-kit/bugreport-service/internal/persistence"
	"github.com/spec-kit/bugreport-service/internal/ratelimit"
	"github.com/spec-kit/bugreport-service/internal/repository"
	"github.com/spec-kit/bugreport-service/internal/service"
	"github.com/spec-kit/bugreport-service/internal/worker"
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

	metrics := observability.NewMetrics()
	redisCache := persistence.NewRedis(cfg.Redis, logger)
	defer redisCache.Close()

	historyRepo, cleanup, err := buildHistoryRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init history store", zap.Error(err))
	}
	defer cleanup()

	trackerClient := jira.NewClient(cfg.Jira, logger)
	dispatcher := events.NewInMemoryDispatcher()
	registerEventHooks(dispatcher, logger)

	uploadPacer := ratelimit.NewPacer(cfg.Throttle.UploadDelay())
	refreshPacer := ratelimit.NewPacer(cfg.Throttle.RefreshDelay())

	historyService := service.NewHistoryService(
		cfg.Jira.ProjectKey,
		time.Duration(cfg.Redis.StatusCacheTTL)*time.Second,
		service.HistoryDependencies{
			Repo:       historyRepo,
			Tracker:    trackerClient,
			Cache:      redisCache,
			Pacer:      refreshPacer,
			Dispatcher: dispatcher,
		},
		logger,
	)
	attachmentService := service.NewAttachmentService(trackerClient, cfg.Jira, uploadPacer, dispatcher, logger)
	descriptionService := service.NewDescriptionService(trackerClient, logger)
	submissionService := service.NewSubmissionService(cfg.Jira, service.SubmissionDependencies{
		Tracker:      trackerClient,
		Attachments:  attachmentService,
		Descriptions: descriptionService,
		History:      historyService,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
	}, logger)

	connectivityState := service.NewConnectivityState()
	connectivityService := service.NewConnectivityService(
		trackerClient,
		service.PolicyFromConfig(cfg.Probe),
		time.Duration(cfg.Probe.TimeoutSeconds)*time.Second,
		logger,
	)

	online, message := connectivityService.Check(ctx)
	connectivityState.Set(online, message)
	if online {
		logger.Info("connected to tracker", zap.String("project", cfg.Jira.ProjectKey))
	} else {
		// Offline mode: the form endpoints stay up, submission is refused.
		logger.Warn("starting in offline mode", zap.String("reason", message))
	}

	worker.StartStatusRefreshWorker(ctx, historyService,
		time.Duration(cfg.History.RefreshIntervalMinutes)*time.Minute, logger)

	app := fiber.New(fiber.Config{BodyLimit: 64 * 1024 * 1024})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, connectivityState),
		Tickets:     handlers.NewTicketsHandler(submissionService, connectivityService, connectivityState),
		Issues:      handlers.NewIssuesHandler(trackerClient),
		Attachments: handlers.NewAttachmentsHandler(trackerClient),
		History:     handlers.NewHistoryHandler(historyService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func buildHistoryRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.HistoryRepository, func(), error) {
	noop := func() {}

	switch cfg.History.Backend {
	case "memory":
		return repository.NewMemoryHistoryRepository(), noop, nil
	case "sqlite":
		db, err := persistence.OpenSQLite(cfg.History.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		repo, err := repository.NewSQLiteHistoryRepository(db)
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		return repo, func() { _ = db.Close() }, nil
	case "postgres":
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, noop, err
		}
		if pg.PoolHandle() == nil {
			logger.Warn("postgres backend selected without DSN; falling back to file store")
			return repository.NewFileHistoryRepository(cfg.History.FilePath), noop, nil
		}
		repo, err := repository.NewPostgresHistoryRepository(ctx, pg.PoolHandle())
		if err != nil {
			pg.Close()
			return nil, noop, err
		}
		return repo, pg.Close, nil
	default:
		return repository.NewFileHistoryRepository(cfg.History.FilePath), noop, nil
	}
}

func registerEventHooks(dispatcher events.Dispatcher, logger *zap.Logger) {
	dispatcher.Subscribe(events.EventTicketSubmitted, func(ctx context.Context, event events.Event) error {
		logger.Info("ticket submitted",
			zap.String("issue_key", event.IssueKey),
			zap.Any("payload", event.Payload),
		)
		return nil
	})
	dispatcher.Subscribe(events.EventAttachmentFailed, func(ctx context.Context, event events.Event) error {
		logger.Warn("attachment upload failed",
			zap.String("issue_key", event.IssueKey),
			zap.Any("payload", event.Payload),
		)
		return nil
	})
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
