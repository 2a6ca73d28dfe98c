/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Bokra HRMS policy server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (environment, then flags)
  2. Build the zap logger
  3. Open the store: in-memory mock API or SQLite
  4. Load the policy document (file or built-in) and install it
  5. Build calculator, request service, attendance service
  6. Seed demo data when enabled
  7. Start the overdraft audit and the HTTP server

COMMAND-LINE FLAGS:
  -addr    Listen address, overrides HRMS_ADDR
  -db      SQLite database path, overrides HRMS_DB
           Empty selects the in-memory store
  -policy  Policy file (YAML or JSON), overrides HRMS_POLICY_FILE

POLICY INSTALLATION:
  A policy file is authoritative and is installed on every start.
  Without one, the built-in policy is installed only into an empty store
  so admin edits made through the API survive restarts.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests (HRMS_SHUTDOWN_TIMEOUT)
  3. Stop the audit scheduler
  4. Close the store

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - factory/policy.go: Policy documents
*/
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

	"go.uber.org/zap"

	"github.com/bokra/hrms/api"
	"github.com/bokra/hrms/attendance"
	"github.com/bokra/hrms/config"
	"github.com/bokra/hrms/factory"
	"github.com/bokra/hrms/leave"
	"github.com/bokra/hrms/logging"
	"github.com/bokra/hrms/store/memory"
	"github.com/bokra/hrms/store/sqlite"
)

type repository interface {
	leave.Repository
	attendance.Repository
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hrms: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flag.StringVar(&cfg.DB, "db", cfg.DB, "SQLite database path (empty for in-memory)")
	flag.StringVar(&cfg.PolicyFile, "policy", cfg.PolicyFile, "policy file (YAML or JSON)")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()

	repo, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	policy, err := installPolicy(ctx, cfg, repo, logger)
	if err != nil {
		return err
	}

	calc := leave.NewCalculator(repo, repo, logger.Named("calculator"))
	calc.Rules = policy.EntitlementRules

	requests := leave.NewRequestService(repo, calc, logger.Named("requests"))
	requests.EnforceBalance = cfg.EnforceBalance

	att := attendance.NewService(repo, policy.Holidays, logger.Named("attendance"))

	handler := api.NewHandler(repo, calc, requests, att, logger.Named("api"))
	if cfg.SeedDemo() {
		for _, id := range []string{"cairo-office", "branch-overrides"} {
			if err := handler.Load(ctx, id); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
		}
	}

	audit := api.NewAuditScheduler(handler, cfg.AuditInterval)
	audit.Start()
	defer audit.Stop()

	server := &http.Server{
		Addr: cfg.Addr,
		Handler: api.NewRouter(handler, api.Options{
			CORSOrigins: cfg.CORSOrigins,
			RateLimit:   cfg.RateLimit,
			Logger:      logger.Named("http"),
			Audit:       audit,
		}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Addr),
			zap.Bool("memory_store", cfg.UsesMemoryStore()),
			zap.Bool("enforce_balance", cfg.EnforceBalance),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func openStore(cfg *config.Config, logger *zap.Logger) (repository, func(), error) {
	if cfg.UsesMemoryStore() {
		store := memory.New()
		store.Latency = cfg.MockLatency
		logger.Info("using in-memory store", zap.Duration("latency", cfg.MockLatency))
		return store, func() {}, nil
	}

	store, err := sqlite.New(cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	logger.Info("using sqlite store", zap.String("path", cfg.DB))
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("close database", zap.Error(err))
		}
	}, nil
}

func installPolicy(ctx context.Context, cfg *config.Config, repo repository, logger *zap.Logger) (*factory.Policy, error) {
	if cfg.PolicyFile != "" {
		policy, err := factory.LoadFile(cfg.PolicyFile)
		if err != nil {
			return nil, err
		}
		if err := policy.Install(ctx, repo, repo); err != nil {
			return nil, err
		}
		logger.Info("policy file installed",
			zap.String("path", cfg.PolicyFile),
			zap.Int("leave_types", len(policy.LeaveTypes)),
			zap.Int("holidays", len(policy.Holidays)),
			zap.Int("branch_overrides", len(policy.Overrides)),
		)
		return policy, nil
	}

	policy := factory.Default()
	existing, err := repo.ListLeaveTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leave types: %w", err)
	}
	if len(existing) > 0 {
		return policy, nil
	}
	if err := policy.Install(ctx, repo, repo); err != nil {
		return nil, err
	}
	logger.Info("built-in policy installed")
	return policy, nil
}
