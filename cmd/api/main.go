package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fintel/internal/config"
	"fintel/internal/database"
	"fintel/internal/database/migration"
	"fintel/internal/gstregistry"
	handlers "fintel/internal/http/handler"
	"fintel/internal/http/middleware"
	"fintel/internal/logger"
	"fintel/internal/mailer"
	"fintel/internal/metrics"
	"fintel/internal/otel"
	"fintel/internal/repository/postgres"
	"fintel/internal/scheduler"
	"fintel/internal/service"
	"fintel/internal/storage"
	"fintel/internal/upstream"
	"fintel/internal/validation"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	appMetrics, err := metrics.New(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register http metrics")
	}

	// Initialize repositories and services
	invoiceRepo := postgres.NewInvoicePostgres(db)
	resultRepo := postgres.NewCompliancePostgres(db)
	anomalyRepo := postgres.NewAnomalyPostgres(db)
	vendorRepo := postgres.NewVendorPostgres(db)

	engine := validation.NewEngine(cfg.Engine)
	registry := gstregistry.New(cfg.Registry)

	// The report archive is optional; without an object store configured the
	// dispatchers still send mail, they just skip archiving.
	var archive storage.Archive
	if cfg.MinIO.Endpoint != "" {
		archive, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize object storage")
		}
	} else {
		log.Warn().Msg("object storage not configured, dispatched reports will not be archived")
	}

	mail := mailer.NewSMTP(cfg.SMTP, log)

	complianceSvc := service.NewComplianceService(invoiceRepo, resultRepo, anomalyRepo, vendorRepo, engine, registry, appMetrics, log)
	statsSvc := service.NewStatsService(invoiceRepo, resultRepo, anomalyRepo, vendorRepo)
	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", cfg.Scheduler.Timezone).Msg("invalid timezone, using UTC for digest windows")
		loc = time.UTC
	}
	digestSvc := service.NewDigestService(upstream.New(cfg.Upstream), cfg.Engine.DigestTopVendors, loc, log)
	notifySvc := service.NewNotificationService(mail, digestSvc, archive, cfg.Scheduler.Recipients, appMetrics, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())
	app.Use(otelfiber.Middleware())

	h := handlers.New(db, complianceSvc, statsSvc, notifySvc)
	h.RegisterRoutes(app)

	// Prometheus scrapes a separate listener so the metric surface is not
	// exposed on the public API port.
	metricsSrv := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(notifySvc, cfg.Scheduler, appMetrics, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create scheduler")
		}
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to start scheduler")
		}
	} else {
		log.Info().Msg("scheduler disabled")
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Str("addr", ":"+cfg.Port).Str("metrics_addr", ":"+cfg.MetricsPort).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	if sched != nil {
		sched.Stop()
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown failed")
	}
}
