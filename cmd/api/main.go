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
	"go.uber.org/multierr"

	"github.com/provenly/custody-backend/api/routes"
	"github.com/provenly/custody-backend/internal/events"
	"github.com/provenly/custody-backend/internal/ledger"
	"github.com/provenly/custody-backend/internal/products"
	"github.com/provenly/custody-backend/internal/registry"
	"github.com/provenly/custody-backend/pkg/config"
	"github.com/provenly/custody-backend/pkg/logger"
	"github.com/provenly/custody-backend/pkg/metrics"
	redispkg "github.com/provenly/custody-backend/pkg/redis"
	"github.com/provenly/custody-backend/pkg/types"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "custody-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "custody-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	bootstrapAdmin, err := types.ParsePrincipal(cfg.Bootstrap.AdminAddress)
	if err != nil {
		logg.Error(context.Background(), "invalid bootstrap admin address", err)
		os.Exit(1)
	}

	var redisClient *redispkg.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redispkg.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "redis not configured, rate limiting disabled")
	}

	registryMemory := registry.NewMemory(bootstrapAdmin)
	ledgerMemory := ledger.NewMemory()
	eventLog := events.NewLog(logg)
	promRegistry := prometheus.NewRegistry()
	transitionMetrics := metrics.NewTransitionMetrics(promRegistry)

	registryService, err := registry.NewService(registryMemory, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create registry service", err)
		os.Exit(1)
	}

	ledgerService, err := ledger.NewService(ledgerMemory, ledgerMemory, registryMemory, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(products.NewStore(), registryMemory, ledgerMemory, eventLog, logg, transitionMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":             cfg.App.Env,
		"addr":            addr,
		"bootstrap_admin": bootstrapAdmin.String(),
	})
	logg.Info(ctx, "starting custody api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			Redis:           redisClient,
			ProductsService: productsService,
			RegistryService: registryService,
			LedgerService:   ledgerService,
			EventLog:        eventLog,
			MetricsGatherer: promRegistry,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var closeErr error
		closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
		if redisClient != nil {
			closeErr = multierr.Append(closeErr, redisClient.Close())
		}
		if closeErr != nil {
			logg.Error(ctx, "shutdown finished with errors", closeErr)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}
