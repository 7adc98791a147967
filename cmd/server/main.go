package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lab-reception/internal/archive"
	"lab-reception/internal/backend"
	"lab-reception/internal/cache"
	"lab-reception/internal/config"
	"lab-reception/internal/database"
	"lab-reception/internal/db"
	"lab-reception/internal/handlers"
	"lab-reception/internal/health"
	h "lab-reception/internal/http"
	"lab-reception/internal/logging"
	"lab-reception/internal/middleware"
	"lab-reception/internal/repositories"
	"lab-reception/internal/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting lab reception console",
		zap.String("config_file", cfg.ConfigFile),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	// Catalog cache (optional - local tier only if Redis is unavailable)
	cache.InitLocal(cfg.Cache.LocalSize, cfg.CacheTTL())
	cache.SetDefaultTTL(cfg.CacheTTL())
	if cfg.Cache.Enabled {
		if err := cache.Init(cfg.RedisAddr(), cfg.Cache.Password); err != nil {
			logger.Warn("redis unavailable, using local cache only", zap.Error(err))
		} else {
			logger.Info("redis cache connected", zap.String("addr", cfg.RedisAddr()))
		}
	}
	defer cache.Close()

	// Action log database (optional)
	var (
		recorder services.ActionRecorder
		logRepo  *repositories.ActionLogRepository
		dbPinger health.Pinger
	)
	if cfg.Database.Enabled {
		pool, err := connectActionLog(ctx, cfg, logger)
		if err != nil {
			logger.Warn("action log disabled", zap.Error(err))
		} else {
			defer pool.Close()
			logRepo = repositories.NewActionLogRepository(pool)
			recorder = logRepo
			dbPinger = pool
		}
	}

	// Document archive (optional)
	var (
		archiver      services.Archiver
		archivePinger health.Pinger
	)
	if cfg.Archive.Enabled {
		store, err := archive.New(ctx, archive.Config{
			Endpoint:  cfg.Archive.Endpoint,
			Region:    cfg.Archive.Region,
			Bucket:    cfg.Archive.Bucket,
			Prefix:    cfg.Archive.Prefix,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
		})
		if err != nil {
			logger.Warn("document archive disabled", zap.Error(err))
		} else {
			archiver = store
			archivePinger = store
			logger.Info("document archive enabled", zap.String("bucket", cfg.Archive.Bucket))
		}
	}

	client := backend.New(cfg.Backend.BaseURL, cfg.BackendTimeout(), nil, logger)

	// Services
	catalogService := services.NewCatalogService(client, recorder, logger)
	sampleService := services.NewSampleService(client, catalogService, recorder, logger)
	clientService := services.NewClientService(client, recorder, logger)
	requestService := services.NewRequestService(client, catalogService, recorder, logger)
	resultService := services.NewResultService(client, catalogService, recorder, logger)
	dashboardService := services.NewDashboardService(client, logger)
	documentService := services.NewDocumentService(client, archiver, recorder, logger)
	reportService := services.NewReportService(sampleService, clientService, requestService, resultService, recorder, logger)

	// Handlers
	routes := h.Handlers{
		Samples:   handlers.NewSampleHandler(sampleService, documentService, resultService),
		Clients:   handlers.NewClientHandler(clientService),
		Requests:  handlers.NewRequestHandler(requestService, reportService),
		Results:   handlers.NewResultHandler(resultService),
		Catalog:   handlers.NewCatalogHandler(catalogService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		Reports:   handlers.NewReportHandler(reportService),
		Documents: handlers.NewDocumentHandler(documentService),
		Health:    handlers.NewHealthHandler(health.NewHealthChecker(client, dbPinger, archivePinger)),
	}
	if logRepo != nil {
		routes.ActionLogs = handlers.NewActionLogHandler(logRepo, logger)
	}
	router := h.NewRouter(routes)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(logger)(middleware.RequestLogger(logger)(corsMiddleware(router)))

	// Pre-warm catalogs in background (non-blocking)
	catalogService.RegisterPreWarm()
	go func() {
		warmCtx, cancel := context.WithTimeout(ctx, cfg.BackendTimeout()*4)
		defer cancel()
		if failed := cache.PreWarmCache(warmCtx); len(failed) > 0 {
			logger.Warn("catalog pre-warm incomplete", zap.Strings("keys", failed))
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// connectActionLog opens the audit database and applies its migrations.
func connectActionLog(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	pool, err := db.Connect(ctx, cfg.DatabaseDSN())
	if err != nil {
		return nil, err
	}
	if err := database.NewMigrator(pool, logger).RunMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("action log database connected", zap.String("host", cfg.Database.Host))
	return pool, nil
}
