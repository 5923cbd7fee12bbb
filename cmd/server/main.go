package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/weiwei-tsao/state-stats-dashboard/internal/business/dashboard"
	"github.com/weiwei-tsao/state-stats-dashboard/internal/dataset"
	"github.com/weiwei-tsao/state-stats-dashboard/internal/platform/config"
	firestoreclient "github.com/weiwei-tsao/state-stats-dashboard/internal/platform/firestore"
	"github.com/weiwei-tsao/state-stats-dashboard/internal/platform/geosource"
	apirouter "github.com/weiwei-tsao/state-stats-dashboard/internal/platform/http"
	"github.com/weiwei-tsao/state-stats-dashboard/internal/platform/metrics"
	"github.com/weiwei-tsao/state-stats-dashboard/internal/repository"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger()
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server exited")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	var remote dataset.RemoteSource
	if cfg.DatasetSource == dataset.SourceFirestore {
		client, credsSource, err := firestoreclient.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		if err := firestoreclient.Ping(ctx, client); err != nil {
			return err
		}
		logger.Info("connected to Firestore", "project", cfg.FirebaseProjectID, "credentials", credsSource)
		remote = repository.NewRegionStatRepository(client, cfg.FirestoreCollection)
	}

	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	records, err := dataset.Load(loadCtx, cfg.DatasetSource, cfg.DatasetFile, remote)
	cancel()
	if err != nil {
		return err
	}

	store, err := dashboard.NewStore(records)
	if err != nil {
		return err
	}
	logger.Info("dataset loaded", "source", cfg.DatasetSource, "records", store.Len(), "version", store.Version())

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
		m.SetDatasetRecords(store.Len())
	}

	service, err := dashboard.NewService(store,
		dashboard.WithLogger(logger),
		dashboard.WithResolver(dashboard.NewResolver(cfg.GeoKeyFields)),
		dashboard.WithSummaryCacheSize(cfg.SummaryCacheSize),
		dashboard.WithUnresolvedHook(m.AddUnresolved),
	)
	if err != nil {
		return err
	}

	features := geosource.New(nil, geosource.Config{
		URL:     cfg.GeoFeaturesURL,
		TTL:     cfg.GeoFeaturesTTL,
		OnFetch: m.IncFeatureFetch,
	})
	if features.Enabled() {
		logger.Info("feature source configured", "url", cfg.GeoFeaturesURL, "ttl", cfg.GeoFeaturesTTL)
	}

	router := apirouter.NewRouter(service, features, m, logger, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Info("server listening", "port", cfg.Port)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	return nil
}
