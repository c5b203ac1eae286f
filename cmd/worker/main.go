package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"newsletter-press/internal/config"
	"newsletter-press/internal/handler/http/respond"
	pgRepo "newsletter-press/internal/infra/adapter/persistence/postgres"
	"newsletter-press/internal/infra/db"
	"newsletter-press/internal/infra/googleworkspace"
	"newsletter-press/internal/infra/source"
	"newsletter-press/internal/infra/summarizer"
	"newsletter-press/internal/infra/worker"
	"newsletter-press/internal/observability/logging"
	"newsletter-press/internal/usecase/aggregate"
	"newsletter-press/internal/usecase/draft"
	"newsletter-press/internal/usecase/pipeline"
	"newsletter-press/internal/usecase/publish"
	"newsletter-press/internal/usecase/render"
	"newsletter-press/pkg/ratelimit"
)

func main() {
	_ = godotenv.Load()

	logger := initLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerMetrics := worker.NewMetrics()
	workerConfig := worker.ConfigFromEnv(logger)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("run_timeout", workerConfig.RunTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	startMetricsServer(ctx, logger)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := worker.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	svc := setupPipeline(logger, database)

	startScheduler(ctx, logger, svc, workerConfig, workerMetrics, healthServer)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the issue archive. Unlike the tool server, the worker
// cannot run without it: the archive hands out the issue numbers.
func initDatabase(logger *slog.Logger) *sql.DB {
	database, err := db.Open(context.Background())
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// setupPipeline wires the full run: aggregation, draft building, rendering,
// and the Drive publisher. Missing credentials are fatal here; a scheduled
// run that can never publish should not start.
func setupPipeline(logger *slog.Logger, database *sql.DB) *pipeline.Service {
	creds := config.LoadCredentials()
	if !creds.GoogleConfigured() {
		logger.Error("google credentials are required for the scheduled pipeline")
		os.Exit(1)
	}
	if creds.NewsletterFolderID == "" {
		logger.Error("NEWSLETTER_FOLDER_ID is required for the scheduled pipeline")
		os.Exit(1)
	}

	ctx := context.Background()
	googleClient, err := googleworkspace.NewHTTPClient(ctx, creds)
	if err != nil {
		logger.Error("failed to build google oauth client", slog.Any("error", err))
		os.Exit(1)
	}
	drive, err := googleworkspace.NewDriveClient(ctx, googleClient, creds.NewsletterFolderID)
	if err != nil {
		logger.Error("failed to build drive client", slog.Any("error", err))
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	limiter := ratelimit.New(ratelimit.DefaultConfig(), ratelimit.NewPrometheusMetrics())
	aggregator := aggregate.NewService(
		[]source.Adapter{
			source.NewArxivAdapter(httpClient),
			source.NewGitHubAdapter(httpClient, creds.GitHubToken),
			source.NewProductHuntAdapter(httpClient, creds.ProductHuntAPIKey),
			source.NewTwitterAdapter(httpClient, creds.TwitterBearerToken),
		},
		limiter,
	)

	newsletterCfg, err := config.LoadNewsletterConfig()
	if err != nil {
		logger.Error("failed to load newsletter configuration", slog.Any("error", err))
		os.Exit(1)
	}

	sum, err := summarizer.FromEnv(creds.OpenAIAPIKey, creds.AnthropicAPIKey)
	if err != nil {
		logger.Error("failed to configure summarizer", slog.Any("error", err))
		os.Exit(1)
	}

	return pipeline.NewService(
		aggregator,
		draft.NewBuilder(newsletterCfg, sum),
		draft.NewOrganizer(newsletterCfg),
		render.New(),
		publish.NewService(drive, creds.NewsletterFolderID),
		pgRepo.NewIssueRepo(database),
	)
}

// startScheduler runs the pipeline on the cron schedule and blocks until a
// shutdown signal arrives.
func startScheduler(ctx context.Context, logger *slog.Logger, svc *pipeline.Service, cfg worker.Config, metrics *worker.Metrics, healthServer *worker.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runPipelineJob(ctx, logger, svc, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down worker...")

	healthServer.SetReady(false)
	stopCtx := c.Stop()
	<-stopCtx.Done()
	logger.Info("worker stopped")
}

// runPipelineJob executes one scheduled newsletter run with a timeout.
func runPipelineJob(ctx context.Context, logger *slog.Logger, svc *pipeline.Service, cfg worker.Config, metrics *worker.Metrics) {
	start := time.Now()
	logger.Info("newsletter run started")

	runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	stats, err := svc.Run(runCtx)
	if err != nil {
		logger.Error("newsletter run failed",
			slog.String("error", respond.Sanitize(err.Error())))
		metrics.RecordRun("failure", time.Since(start))
		return
	}

	metrics.RecordRun("success", time.Since(start))
	metrics.RecordItemsFetched(stats.ItemsFetched)
	metrics.RecordSuccess(time.Now())

	logger.Info("newsletter run completed",
		slog.Int("issue_number", stats.IssueNumber),
		slog.String("title", stats.Title),
		slog.Int("items_fetched", stats.ItemsFetched),
		slog.Int("items_kept", stats.ItemsKept),
		slog.String("file_id", stats.FileID),
		slog.String("link", stats.Link),
		slog.Duration("duration", stats.Duration),
	)
}
