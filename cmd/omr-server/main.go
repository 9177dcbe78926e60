package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/omr-service/internal/config"
	"github.com/ironsheep/omr-service/internal/fetch"
	"github.com/ironsheep/omr-service/internal/logger"
	"github.com/ironsheep/omr-service/internal/omr"
	"github.com/ironsheep/omr-service/internal/server"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		os.Stderr.WriteString("CRITICAL: Failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString("CRITICAL: Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	params, err := cfg.Params()
	if err != nil {
		log.Fatal("failed to load calibration profile", zap.String("profile", cfg.Scan.Profile), zap.Error(err))
	}

	scanner, err := omr.NewScanner(params)
	if err != nil {
		log.Fatal("invalid calibration", zap.Error(err))
	}
	scanner.WithMaxQuestions(cfg.Scan.MaxQuestions)

	fetcher, err := newFetcher(cfg)
	if err != nil {
		log.Fatal("failed to create image fetcher", zap.Error(err))
	}

	h := server.NewHandler(scanner, fetcher, cfg.Scan.DefaultQuestions, log)
	srv := server.New(server.Options{
		Addr:        cfg.Server.Addr(),
		CORSOrigins: cfg.Server.CORSOrigins,
	}, h, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	sig := <-quit
	log.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

// newFetcher routes http(s) locations to the downloader and, when enabled,
// s3 locations to the object store, all behind the configured rate limit.
func newFetcher(cfg *config.Config) (fetch.Fetcher, error) {
	router := fetch.NewRouter().Handle(fetch.NewHTTP(
		fetch.WithTimeout(cfg.Fetch.Timeout),
		fetch.WithMaxBytes(cfg.Fetch.MaxBytes),
		fetch.WithMaxPixels(cfg.Fetch.MaxPixels),
	), "http", "https")

	if cfg.S3.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Fetch.Timeout)
		defer cancel()

		store, err := fetch.NewS3(ctx, fetch.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}

		router.Handle(store.WithObjectMaxBytes(cfg.Fetch.MaxBytes).WithObjectMaxPixels(cfg.Fetch.MaxPixels), "s3")
	}

	return fetch.NewLimited(fetch.NewLimiter(cfg.Fetch.Rate, cfg.Fetch.Burst), router), nil
}
