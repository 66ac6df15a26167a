package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/moodcat-labs/moodcat/internal/adapters/imagekit"
	"github.com/moodcat-labs/moodcat/internal/adapters/mongodb"
	"github.com/moodcat-labs/moodcat/internal/adapters/rest"
	"github.com/moodcat-labs/moodcat/internal/adapters/s3store"
	"github.com/moodcat-labs/moodcat/internal/config"
	"github.com/moodcat-labs/moodcat/internal/core/ports"
	"github.com/moodcat-labs/moodcat/internal/core/services"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("FATAL: failed to build logger: %v", err)
	}
	defer logger.Sync()

	// 1. Configuration (Environment Variables)
	// Crash early if required config is missing.
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	// 2. Initialize "Driven" Adapters (The Tools)
	// -- Catalog Store Adapter
	repo, err := mongodb.NewAdapter(context.Background(), cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		logger.Fatal("failed to initialize mongodb", zap.Error(err))
	}
	defer repo.Close()

	// -- Blob Store Adapter
	var blobs ports.BlobStore
	switch cfg.StorageDriver {
	case config.DriverImageKit:
		blobs = imagekit.NewClient(nil, cfg.ImageKitUploadURL, cfg.ImageKitPrivateKey, cfg.ImageKitFolder)
	case config.DriverS3:
		s3Client, err := s3store.NewClient(&s3store.Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			logger.Fatal("failed to initialize s3", zap.Error(err))
		}
		blobs = s3Client
	default:
		logger.Fatal("unknown storage driver", zap.String("driver", cfg.StorageDriver))
	}

	// 3. Initialize Core Logic and the "Driving" Adapter
	svc := services.NewCatalog(blobs, repo, logger)
	handler := rest.NewHandler(svc, logger)

	// 4. Start the Server
	logger.Info("moodcat api listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("storage_driver", cfg.StorageDriver))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	}
}
