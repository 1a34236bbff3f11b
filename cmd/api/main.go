package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/crm-dashboard/internal/api/http"
	"github.com/spec-kit/crm-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/crm-dashboard/internal/auth"
	"github.com/spec-kit/crm-dashboard/internal/config"
	"github.com/spec-kit/crm-dashboard/internal/events"
	"github.com/spec-kit/crm-dashboard/internal/observability"
	"github.com/spec-kit/crm-dashboard/internal/persistence"
	"github.com/spec-kit/crm-dashboard/internal/repository"
	"github.com/spec-kit/crm-dashboard/internal/service"
	"github.com/spec-kit/crm-dashboard/internal/worker"
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

	dependencies := map[string]handlers.Pinger{}

	var redis *persistence.Redis
	var store repository.SessionStore
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		redis = persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		dependencies["redis"] = redis
		store = repository.NewRedisSessionStore(redis.Client, cfg.Session.Key)
	case config.SessionStoreMemory:
		store = repository.NewMemorySessionStore()
	default:
		store = repository.NewFileSessionStore(cfg.Session.Dir, cfg.Session.Key)
	}

	verifier, closeVerifier := buildVerifier(ctx, cfg, logger, dependencies)
	defer closeVerifier()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	auditService := service.NewAuditService(dispatcher, logger, 0)
	worker.StartAuditWorker(auditService)

	sessions := service.NewSessionManager(service.SessionManagerDeps{
		Store:    store,
		Verifier: verifier,
		Events:   dispatcher,
		Metrics:  metrics,
		Logger:   logger.Named("session"),
	})
	sessions.Init(ctx)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	guard := auth.NewAuthMiddleware(sessions, tokens, cfg.Auth.BindToken)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
		CaseSensitive:         true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	err = httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies, metrics),
		Auth:      handlers.NewAuthHandler(sessions, guard, tokens, cfg.Auth.CookieSecure),
		Dashboard: handlers.NewDashboardHandler(service.NewDashboardService(), auditService),
		Guard:     guard,
		Routes:    auth.DefaultRouteAuthorization(),
	})
	if err != nil {
		logger.Fatal("invalid route table", zap.Error(err))
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("session_store", cfg.Session.Store))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// buildVerifier selects the credential source. The returned func releases its resources.
func buildVerifier(ctx context.Context, cfg *config.Config, logger *zap.Logger, dependencies map[string]handlers.Pinger) (auth.Verifier, func()) {
	if cfg.Auth.CredentialsSource != config.CredentialsPostgres {
		identities := auth.DefaultCredentials()
		if cfg.Auth.CredentialsFile != "" {
			loaded, err := auth.LoadCredentialsFile(cfg.Auth.CredentialsFile)
			if err != nil {
				logger.Fatal("failed to load credentials file", zap.Error(err))
			}
			identities = loaded
		}
		return auth.NewStaticVerifier(identities, cfg.Auth.LoginDelay()), func() {}
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	dependencies["postgres"] = pg

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	credentials := repository.NewCredentialRepository(pg.PoolHandle())
	if cfg.Auth.SeedPassword != "" {
		if err := auth.SeedCredentials(ctx, credentials, auth.DefaultCredentials(), cfg.Auth.SeedPassword, cfg.Auth.BcryptCost); err != nil {
			logger.Fatal("failed to seed credentials", zap.Error(err))
		}
		logger.Info("seeded default credentials")
	}
	return auth.NewPostgresVerifier(credentials), pg.Close
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
