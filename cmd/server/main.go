/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the staffing engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize structured logger
  3. Initialize SQLite store
  4. Load ranking configuration (weights + scarcity multipliers)
  5. Wire resolver, fit calculator, assignment manager
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: staffing.db)
           Use ":memory:" for in-memory database
  -config  Ranking config YAML path (optional; defaults apply if empty)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/staffing.db"

  # Run with in-memory database and a scoring config
  ./server -db=":memory:" -config="./ranking.yaml"

ENVIRONMENT:
  Ranking config values can be overridden with STAFFING_ prefixed
  variables, e.g. STAFFING_WEIGHTS_SKILL_OVERLAP=0.5.

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - factory/scoring.go: Ranking configuration loading
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/warp/staffing-engine/api"
	"github.com/warp/staffing-engine/assignments"
	"github.com/warp/staffing-engine/factory"
	"github.com/warp/staffing-engine/fitscore"
	"github.com/warp/staffing-engine/rates"
	"github.com/warp/staffing-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "staffing.db", "SQLite database path")
	configPath := flag.String("config", "", "ranking config YAML path")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	// Ranking configuration: weights plus scarcity multipliers
	scoringConfig, scarcity, err := factory.LoadRankingConfig(*configPath)
	if err != nil {
		logger.Fatal("failed to load ranking config", zap.Error(err))
	}

	// Wire core services. The SQLite store serves every persistence
	// interface: overrides, exchange rates, directory, assignments,
	// and the activity log.
	resolver := rates.NewResolver(store, store, scarcity)
	fit := fitscore.NewCalculator(store, resolver, scoringConfig, logger)
	manager := assignments.NewManager(store, resolver, store, store, logger)

	handler := api.NewHandler(resolver, fit, manager, logger)
	metrics := api.NewMetrics(prometheus.DefaultRegisterer)
	router := api.NewRouter(handler, metrics)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			zap.Int("port", *port),
			zap.String("scoring_version", scoringConfig.Version))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
