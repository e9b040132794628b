package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restoplus/internal/api"
	"restoplus/internal/config"
	"restoplus/internal/database"
	"restoplus/internal/ledger"
	"restoplus/internal/monitoring"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort > 0 {
		cfg.Metrics.Port = *metricsPort
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	os.Exit(exitCode(logger, run(cfg, logger)))
}

// exitCode flushes the logger and maps the result of run onto a process exit
// status. os.Exit skips deferred calls, so the sync happens here.
func exitCode(logger *zap.Logger, err error) int {
	code := 0
	if err != nil {
		logger.Error("restoplus stopped", zap.Error(err))
		code = 1
	}
	_ = logger.Sync()
	return code
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize storage
	store, closeStore, err := initializeStore(cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	monitor := monitoring.NewMonitor()
	hub := api.NewHub(logger.Named("ws"))
	defer hub.Close()

	l := ledger.New(store,
		ledger.WithLogger(logger.Named("ledger")),
		ledger.WithObserver(monitor),
		ledger.WithNotifier(hub),
	)
	if err := l.Load(ctx); err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	if cfg.Seed {
		if err := database.Seed(ctx, l, logger); err != nil {
			return fmt.Errorf("seed ledger: %w", err)
		}
	}

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := api.NewServer(l,
		api.WithLogger(logger.Named("http")),
		api.WithHub(hub),
		api.WithCurrency(cfg.Currency),
	)

	servers := []*http.Server{{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}}
	if cfg.Metrics.Enabled {
		servers = append(servers, newMetricsServer(cfg, monitor))
	}

	errc := make(chan error, len(servers))
	for _, s := range servers {
		go func(s *http.Server) {
			logger.Info("listening", zap.String("addr", s.Addr))
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- fmt.Errorf("server %s: %w", s.Addr, err)
			}
		}(s)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down servers")
	case err = <-errc:
		logger.Error("server failed", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	for _, s := range servers {
		if serr := s.Shutdown(shutdownCtx); serr != nil {
			logger.Warn("server shutdown", zap.String("addr", s.Addr), zap.Error(serr))
		}
	}
	return err
}

// initializeStore opens the configured database. The memory driver keeps the
// ledger in memory only.
func initializeStore(cfg database.Config, logger *zap.Logger) (ledger.Store, func(), error) {
	if cfg.Driver == database.DriverMemory {
		logger.Warn("storage driver is memory, changes will not survive a restart")
		return nil, func() {}, nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	store := database.NewStore(db, logger.Named("store"))
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("close database", zap.Error(err))
		}
	}, nil
}

func newMetricsServer(cfg *config.Config, monitor *monitoring.Monitor) *http.Server {
	metricsRouter := gin.New()
	metricsRouter.Use(gin.Recovery())
	metricsRouter.GET(cfg.Metrics.Path, gin.WrapH(monitor.Handler()))

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: metricsRouter,
	}
}
