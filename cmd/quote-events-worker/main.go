package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/b2b-quotes/internal/messages"
	"github.com/angelmondragon/b2b-quotes/internal/quotes"
	"github.com/angelmondragon/b2b-quotes/pkg/config"
	"github.com/angelmondragon/b2b-quotes/pkg/directory"
	"github.com/angelmondragon/b2b-quotes/pkg/events/idempotency"
	"github.com/angelmondragon/b2b-quotes/pkg/graphql"
	"github.com/angelmondragon/b2b-quotes/pkg/instance"
	"github.com/angelmondragon/b2b-quotes/pkg/logger"
	"github.com/angelmondragon/b2b-quotes/pkg/mail"
	"github.com/angelmondragon/b2b-quotes/pkg/metrics"
	"github.com/angelmondragon/b2b-quotes/pkg/permissions"
	"github.com/angelmondragon/b2b-quotes/pkg/pubsub"
	"github.com/angelmondragon/b2b-quotes/pkg/redis"
)

const serviceName = "quote-events-worker"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	manager, err := idempotency.NewManager(redisClient, cfg.Eventing.IdempotencyTTL)
	requireResource(logg, "idempotency manager", err)

	notifier, err := newNotifier(cfg, logg)
	requireResource(logg, "messages service", err)

	consumer, err := messages.NewConsumer(notifier, pubsubClient.QuoteEventsSubscription(), manager, logg)
	requireResource(logg, "quote events consumer", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"subscription": cfg.PubSub.QuoteEventsSubscription,
		"instance":     instance.ID("worker-0"),
	})
	logg.Info(ctx, "starting quote events worker")

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "quote events worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "quote events worker shutting down gracefully")
}

func newNotifier(cfg *config.Config, logg *logger.Logger) (*messages.Service, error) {
	directoryGQL, err := graphql.NewClient(
		cfg.Directory.BaseURL,
		graphql.WithTimeout(cfg.Directory.Timeout),
		graphql.WithToken(cfg.Directory.Token),
	)
	if err != nil {
		return nil, err
	}
	permissionsGQL, err := graphql.NewClient(
		cfg.Permissions.BaseURL,
		graphql.WithTimeout(cfg.Permissions.Timeout),
		graphql.WithToken(cfg.Permissions.Token),
	)
	if err != nil {
		return nil, err
	}
	mailClient, err := mail.NewClient(
		cfg.Mail.BaseURL,
		mail.WithTimeout(cfg.Mail.Timeout),
		mail.WithToken(cfg.Mail.Token),
	)
	if err != nil {
		return nil, err
	}

	// The worker has no scrape endpoint; counters go to the default registry.
	return messages.NewService(messages.ServiceParams{
		Roles:          permissions.NewClient(permissionsGQL),
		Resolver:       quotes.NewNameResolver(directory.NewClient(directoryGQL), logg),
		Mailer:         mailClient,
		Metrics:        metrics.NewMessageMetrics(prometheus.DefaultRegisterer),
		Logger:         logg,
		Account:        cfg.Mail.Account,
		Host:           cfg.Links.Host,
		RootPath:       cfg.Links.RootPath,
		SalesAdminRole: cfg.Permissions.SalesAdminRole,
		UsersPageSize:  cfg.Permissions.PageSize,
	})
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "resource not working: "+resource, err)
	os.Exit(1)
}
