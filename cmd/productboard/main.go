package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"ProductBoard/internal/config"
	"ProductBoard/internal/product"
	"ProductBoard/pkg/kit"
)

func main() {
	service := "productboard"

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := kit.NewLogger(service, cfg.LogFile)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("open store failed", zap.String("driver", cfg.Driver), zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal("create upload dir failed", zap.String("dir", cfg.UploadDir), zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	uploads := product.NewUploader(cfg.UploadDir, cfg.UploadPrefix)
	s := &product.Server{
		Products: product.NewService(store, uploads, cfg.Placeholder, log, product.NewMetrics(reg)),
		Log:      log,
	}

	h := product.NewHandler(s, product.HTTPDeps{
		Log:             log,
		Service:         service,
		Registry:        reg,
		MetricsEnabled:  true,
		MetricsToken:    cfg.MetricsToken,
		PublicDir:       cfg.PublicDir,
		CreateRateLimit: cfg.CreateRateLimit,
	})

	log.Info("store ready", zap.String("driver", cfg.Driver))
	if err := kit.RunHTTPServer(ctx, ":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg config.Config) (product.Store, error) {
	switch cfg.Driver {
	case config.DriverBolt:
		return product.OpenBoltStore(cfg.BoltPath)
	case config.DriverPostgres:
		return product.OpenPostgresStore(ctx, cfg.DatabaseURL)
	default:
		return product.NewFileStore(cfg.DataFile)
	}
}
