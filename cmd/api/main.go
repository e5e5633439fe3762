package main

import (
	"context"
	"database/sql"
	"errors"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"docflow/docs"
	"docflow/internal/config"
	"docflow/internal/database"
	"docflow/internal/database/migration"
	handlers "docflow/internal/http/handler"
	"docflow/internal/http/middleware"
	"docflow/internal/logger"
	"docflow/internal/metrics"
	"docflow/internal/otel"
	"docflow/internal/repository"
	"docflow/internal/repository/memory"
	"docflow/internal/repository/postgres"
	"docflow/internal/service"
	"docflow/internal/storage"
)

// records bundles the repositories of one backend.
type records struct {
	tx       repository.Transactor
	requests repository.RequestRepository
	levels   repository.ApprovalLevelRepository
	items    repository.LibraryItemRepository
	grants   repository.AccessGrantRepository
	pinger   handlers.Pinger
	close    func() error
}

// openRecords connects to Postgres when DB_HOST is set and falls back to the in-memory
// store otherwise.
func openRecords(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*records, error) {
	if cfg.Host == "" {
		log.Warn("record_store_in_memory", zap.String("reason", "DB_HOST is empty"))
		store := memory.New()
		return &records{
			tx:       store,
			requests: store.Requests(),
			levels:   store.Levels(),
			items:    store.LibraryItems(),
			grants:   store.Grants(),
			pinger:   store,
			close:    func() error { return nil },
		}, nil
	}

	db, err := database.NewPostgres(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := migration.EnsureMigrated(ctx, db, log, cfg.Host); err != nil {
		_ = db.Close()
		return nil, err
	}
	return postgresRecords(db, log), nil
}

func postgresRecords(db *sql.DB, log *zap.Logger) *records {
	return &records{
		tx:       database.NewTxManager(db, log),
		requests: postgres.NewRequestPostgres(db),
		levels:   postgres.NewApprovalLevelPostgres(db),
		items:    postgres.NewLibraryItemPostgres(db),
		grants:   postgres.NewAccessGrantPostgres(db),
		pinger:   db,
		close:    db.Close,
	}
}

// @title Docflow API
// @version 1.0
// @description Document approval workflow with L1, L2 and L3 gates.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Warn("tracing_disabled", zap.Error(err))
	}

	rec, err := openRecords(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("failed to open record store", zap.Error(err))
	}
	defer func() { _ = rec.close() }()

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatal("failed to initialize object storage", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	workflowMetrics, err := metrics.NewWorkflow(reg)
	if err != nil {
		log.Fatal("failed to register workflow metrics", zap.Error(err))
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal("failed to register http metrics", zap.Error(err))
	}

	// Initialize services
	accessSvc := service.NewAccessService(rec.grants, log)
	if cfg.SeedGrants != "" {
		n, err := service.SeedGrants(ctx, accessSvc, cfg.SeedGrants)
		if err != nil {
			log.Fatal("failed to seed access grants", zap.Error(err))
		}
		log.Info("access_grants_seeded", zap.Int("count", n))
	}
	librarySvc := service.NewLibraryService(objStore, rec.items, cfg.MinIO.PresignExpiry(), log)
	requestSvc := service.NewRequestService(service.RequestDeps{
		Tx:       rec.tx,
		Requests: rec.requests,
		Levels:   rec.levels,
		Items:    rec.items,
		Access:   accessSvc,
		Library:  librarySvc,
		Store:    objStore,
		Logger:   log,
	})
	workflowSvc := service.NewWorkflowService(service.WorkflowDeps{
		Tx:       rec.tx,
		Requests: rec.requests,
		Levels:   rec.levels,
		Items:    rec.items,
		Access:   accessSvc,
		Store:    objStore,
		Metrics:  workflowMetrics,
		Logger:   log,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(httpMetrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	handlers.RegisterRoutes(app, rec.pinger, handlers.Services{
		Requests: requestSvc,
		Workflow: workflowSvc,
		Access:   accessSvc,
		Library:  librarySvc,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	serveErr := make(chan error, 1)
	go func() {
		log.Info("http_listening", zap.String("addr", addr))
		serveErr <- app.Listen(addr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("failed to start server", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("shutdown_requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Error("http_shutdown_failed", zap.Error(err))
	}
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error("tracing_shutdown_failed", zap.Error(err))
		}
	}
}
