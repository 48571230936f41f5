package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kalibra-labs/kalibra-go/internal/platform/env"
	"github.com/kalibra-labs/kalibra-go/internal/platform/httpserver"
	platformstore "github.com/kalibra-labs/kalibra-go/internal/platform/objectstore"
	"github.com/kalibra-labs/kalibra-go/internal/repo"
	"github.com/kalibra-labs/kalibra-go/internal/repo/fsjson"
	objectstorerepo "github.com/kalibra-labs/kalibra-go/internal/repo/objectstore"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := env.String("KALIBRA_HTTP_ADDR", ":8080")
	shutdownTimeout, err := env.Duration("KALIBRA_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		logger.Error("invalid env", "error", err)
		os.Exit(2)
	}

	backend := env.String("KALIBRA_STORE_BACKEND", "fs")
	runs, testSets, readiness, err := buildStores(ctx, logger, backend)
	if err != nil {
		logger.Error("store init failed", "backend", backend, "error", err)
		os.Exit(1)
	}

	service := newRegistryService(runs, testSets)
	api := newRegistryAPI(logger, service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", httpserver.Healthz("bench-registry"))
	mux.HandleFunc("/readyz", httpserver.ReadyzWithChecks("bench-registry", readiness))
	api.register(mux)

	cfg := httpserver.Config{
		Service:         "bench-registry",
		Addr:            addr,
		ShutdownTimeout: shutdownTimeout,
	}

	if err := httpserver.Run(ctx, logger, cfg, httpserver.Wrap(logger, "bench-registry", mux)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func buildStores(ctx context.Context, logger *slog.Logger, backend string) (repo.RunStore, repo.TestSetStore, httpserver.ReadinessCheck, error) {
	switch backend {
	case "fs":
		dataDir := env.String("KALIBRA_DATA_DIR", "data")
		runs, err := fsjson.NewRunStore(dataDir)
		if err != nil {
			return nil, nil, httpserver.ReadinessCheck{}, err
		}
		testSets, err := fsjson.NewTestSetStore(dataDir)
		if err != nil {
			return nil, nil, httpserver.ReadinessCheck{}, err
		}
		check := httpserver.ReadinessCheck{
			Name: "data-dir",
			Check: func(context.Context) error {
				_, err := os.Stat(dataDir)
				return err
			},
		}
		logger.Info("using filesystem store", "data_dir", dataDir)
		return runs, testSets, check, nil

	case "minio":
		storeCfg, err := platformstore.ConfigFromEnv()
		if err != nil {
			return nil, nil, httpserver.ReadinessCheck{}, err
		}
		client, err := platformstore.NewMinIOClient(storeCfg)
		if err != nil {
			return nil, nil, httpserver.ReadinessCheck{}, err
		}
		startupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := platformstore.EnsureBuckets(startupCtx, client, storeCfg); err != nil {
			return nil, nil, httpserver.ReadinessCheck{}, err
		}
		runs, err := objectstorerepo.NewRunStore(client, storeCfg)
		if err != nil {
			return nil, nil, httpserver.ReadinessCheck{}, err
		}
		testSets, err := objectstorerepo.NewTestSetStore(client, storeCfg)
		if err != nil {
			return nil, nil, httpserver.ReadinessCheck{}, err
		}
		check := httpserver.ReadinessCheck{
			Name: "minio",
			Check: func(ctx context.Context) error {
				checkCtx, cancel := context.WithTimeout(ctx, 750*time.Millisecond)
				defer cancel()
				return platformstore.CheckBuckets(checkCtx, client, storeCfg)
			},
		}
		logger.Info("using minio store", "endpoint", storeCfg.Endpoint)
		return runs, testSets, check, nil

	default:
		return nil, nil, httpserver.ReadinessCheck{}, fmt.Errorf("unknown store backend: %q", backend)
	}
}
