package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"newsletter-press/internal/config"
	hhttp "newsletter-press/internal/handler/http"
	pgRepo "newsletter-press/internal/infra/adapter/persistence/postgres"
	"newsletter-press/internal/infra/db"
	"newsletter-press/internal/infra/googleworkspace"
	"newsletter-press/internal/infra/source"
	"newsletter-press/internal/infra/summarizer"
	"newsletter-press/internal/observability/logging"
	"newsletter-press/internal/repository"
	"newsletter-press/internal/tool"
	"newsletter-press/internal/usecase/aggregate"
	"newsletter-press/internal/usecase/draft"
	"newsletter-press/internal/usecase/render"
	"newsletter-press/internal/usecase/validate"
	"newsletter-press/pkg/ratelimit"
)

func main() {
	_ = godotenv.Load()

	logger := initLogger()
	creds := config.LoadCredentials()
	if missing := creds.MissingOptional(); len(missing) > 0 {
		logger.Info("optional credentials not set, affected tools will report auth errors",
			slog.String("missing", strings.Join(missing, ", ")))
	}

	database := initDatabase(logger)
	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
	}

	version := getVersion()
	handler := setupServer(logger, database, creds, version)

	runServer(logger, handler, version)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the issue archive when DATABASE_URL is set. The archive
// is optional for the tool server: without it, fetch_past_newsletters relies
// on Drive alone.
func initDatabase(logger *slog.Logger) *sql.DB {
	if os.Getenv("DATABASE_URL") == "" {
		logger.Info("DATABASE_URL not set, running without the issue archive")
		return nil
	}
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

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer wires the adapters, use cases, and tool registry into the HTTP handler.
func setupServer(logger *slog.Logger, database *sql.DB, creds config.Credentials, version string) http.Handler {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	arxiv := source.NewArxivAdapter(httpClient)
	github := source.NewGitHubAdapter(httpClient, creds.GitHubToken)
	productHunt := source.NewProductHuntAdapter(httpClient, creds.ProductHuntAPIKey)
	twitter := source.NewTwitterAdapter(httpClient, creds.TwitterBearerToken)

	limiter := ratelimit.New(ratelimit.DefaultConfig(), ratelimit.NewPrometheusMetrics())
	aggregator := aggregate.NewService(
		[]source.Adapter{arxiv, github, productHunt, twitter},
		limiter,
	)

	var drive *googleworkspace.DriveClient
	var gmail *googleworkspace.GmailClient
	if creds.GoogleConfigured() {
		ctx := context.Background()
		googleClient, err := googleworkspace.NewHTTPClient(ctx, creds)
		if err != nil {
			logger.Error("failed to build google oauth client", slog.Any("error", err))
			os.Exit(1)
		}
		drive, err = googleworkspace.NewDriveClient(ctx, googleClient, creds.NewsletterFolderID)
		if err != nil {
			logger.Error("failed to build drive client", slog.Any("error", err))
			os.Exit(1)
		}
		gmail, err = googleworkspace.NewGmailClient(ctx, googleClient)
		if err != nil {
			logger.Error("failed to build gmail client", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("google workspace clients configured",
			slog.String("newsletter_folder_id", creds.NewsletterFolderID))
	} else {
		logger.Info("google credentials not configured, drive and gmail tools disabled")
	}

	var issues repository.IssueRepository
	if database != nil {
		issues = pgRepo.NewIssueRepo(database)
	}

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

	researchDeps := tool.ResearchDeps{
		Aggregator:  aggregator,
		Arxiv:       arxiv,
		GitHub:      github,
		ProductHunt: productHunt,
		Twitter:     twitter,
		Issues:      issues,
	}
	editingDeps := tool.EditingDeps{
		Builder:   draft.NewBuilder(newsletterCfg, sum),
		Organizer: draft.NewOrganizer(newsletterCfg),
		Validator: validate.New(),
	}
	exportDeps := tool.ExportDeps{
		Renderer: render.New(),
	}
	// Nil pointers stay out of the interface fields so the tools can detect
	// an unconfigured client.
	if drive != nil {
		researchDeps.Drive = drive
		exportDeps.Uploader = drive
	}
	if gmail != nil {
		researchDeps.Gmail = gmail
	}

	var tools []tool.Tool
	tools = append(tools, tool.ResearchTools(researchDeps)...)
	tools = append(tools, tool.EditingTools(editingDeps)...)
	tools = append(tools, tool.ExportTools(exportDeps)...)

	registry, err := tool.NewRegistry(tools...)
	if err != nil {
		logger.Error("failed to build tool registry", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("tool registry ready", slog.Int("tools", len(tools)))

	return hhttp.NewRouter(hhttp.RouterConfig{
		Registry: registry,
		Logger:   logger,
		DB:       database,
		Version:  version,
	})
}

// runServer starts the HTTP server and blocks until a shutdown signal arrives.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := ":" + port()
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}
