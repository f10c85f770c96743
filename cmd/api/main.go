package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/b2b-quotes/api/controllers"
	"github.com/angelmondragon/b2b-quotes/api/routes"
	"github.com/angelmondragon/b2b-quotes/internal/messages"
	"github.com/angelmondragon/b2b-quotes/internal/quotes"
	"github.com/angelmondragon/b2b-quotes/pkg/config"
	"github.com/angelmondragon/b2b-quotes/pkg/db"
	"github.com/angelmondragon/b2b-quotes/pkg/directory"
	"github.com/angelmondragon/b2b-quotes/pkg/graphql"
	"github.com/angelmondragon/b2b-quotes/pkg/instance"
	"github.com/angelmondragon/b2b-quotes/pkg/logger"
	"github.com/angelmondragon/b2b-quotes/pkg/mail"
	"github.com/angelmondragon/b2b-quotes/pkg/metrics"
	"github.com/angelmondragon/b2b-quotes/pkg/migrate"
	"github.com/angelmondragon/b2b-quotes/pkg/permissions"
	"github.com/angelmondragon/b2b-quotes/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	checks := map[string]controllers.Pinger{"database": dbClient}

	// Redis only backs readiness here; the api never consumes events.
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		checks["redis"] = redisClient
	}

	directoryGQL, err := graphql.NewClient(
		cfg.Directory.BaseURL,
		graphql.WithTimeout(cfg.Directory.Timeout),
		graphql.WithToken(cfg.Directory.Token),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create directory client", err)
		os.Exit(1)
	}

	permissionsGQL, err := graphql.NewClient(
		cfg.Permissions.BaseURL,
		graphql.WithTimeout(cfg.Permissions.Timeout),
		graphql.WithToken(cfg.Permissions.Token),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create permissions client", err)
		os.Exit(1)
	}

	mailClient, err := mail.NewClient(
		cfg.Mail.BaseURL,
		mail.WithTimeout(cfg.Mail.Timeout),
		mail.WithToken(cfg.Mail.Token),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create mail client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	resolver := quotes.NewNameResolver(directory.NewClient(directoryGQL), logg)

	quoteService, err := quotes.NewService(quotes.ServiceParams{
		Repo:     quotes.NewRepository(dbClient.DB(), logg),
		Resolver: resolver,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create quotes service", err)
		os.Exit(1)
	}

	messageService, err := messages.NewService(messages.ServiceParams{
		Roles:          permissions.NewClient(permissionsGQL),
		Resolver:       resolver,
		Mailer:         mailClient,
		Metrics:        metrics.NewMessageMetrics(registry),
		Logger:         logg,
		Account:        cfg.Mail.Account,
		Host:           cfg.Links.Host,
		RootPath:       cfg.Links.RootPath,
		SalesAdminRole: cfg.Permissions.SalesAdminRole,
		UsersPageSize:  cfg.Permissions.PageSize,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create messages service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.ID("local"),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			Quotes:      quoteService,
			Notifier:    messageService,
			Checks:      checks,
			Gatherer:    registry,
			HTTPMetrics: metrics.NewHTTPMetrics(registry),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
