// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

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

	"github.com/urfave/cli/v3"

	"catalogcms/internal/admin"
	"catalogcms/internal/auth"
	"catalogcms/internal/cache"
	"catalogcms/internal/catalog"
	"catalogcms/internal/config"
	"catalogcms/internal/database"
	"catalogcms/internal/handlers"
	"catalogcms/internal/middleware"
	"catalogcms/internal/router"
	"catalogcms/internal/session"
	"catalogcms/internal/storage"
	"catalogcms/internal/store"
)

// runServe connects to every backing service, builds the router and
// serves until SIGINT or SIGTERM.
func runServe(ctx context.Context, c *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL and apply pending migrations.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	// Valkey backs both sessions and the response cache.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	responses := cache.NewResponseCache(valkeyClient, cfg.CacheTTL)

	// S3-compatible object storage is optional. Without it, stored keys
	// are served under MEDIA_URL and multipart uploads are refused.
	var uploader handlers.FileUploader
	var files catalog.FileLocator = catalog.PrefixLocator(cfg.MediaURL)
	if cfg.StorageEnabled() {
		storageClient, err := storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			return fmt.Errorf("initialize s3 storage: %w", err)
		}
		uploader = storageClient
		files = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured, file uploads disabled", "media_url", cfg.MediaURL)
	}

	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	productStore := store.NewProductStore(db)
	categoryStore := store.NewCategoryStore(db)
	blogStore := store.NewBlogStore(db)
	contactStore := store.NewContactStore(db)

	urls := handlers.URLConfig{PublicBaseURL: cfg.PublicBaseURL, Files: files}

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer loginLimiter.Stop()
	contactLimiter := middleware.NewRateLimiter(5, time.Minute)
	defer contactLimiter.Stop()

	r := router.New(router.Options{
		CORSOrigins:    cfg.CORSOrigins,
		SecureCookies:  secureCookies,
		Sessions:       sessionStore,
		Tokens:         tokens,
		Users:          userStore,
		LoginLimiter:   loginLimiter,
		ContactLimiter: contactLimiter,
	}, router.Handlers{
		Catalog: handlers.NewCatalog(productStore, categoryStore, responses, uploader, urls),
		Blog:    handlers.NewBlog(blogStore, urls),
		Contact: handlers.NewContact(contactStore),
		Auth:    handlers.NewAuth(userStore, sessionStore, tokens),
		Admin:   handlers.NewAdmin(admin.Default(), contactStore),
	})

	// Uploads can be large, so the read timeout is generous.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// invalidateResponses drops cached API responses after an out-of-band
// change. A missing Valkey is only logged.
func invalidateResponses(ctx context.Context, cfg *config.Config) {
	client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("response cache not invalidated", "error", err)
		return
	}
	defer client.Close()
	cache.NewResponseCache(client, cfg.CacheTTL).InvalidateAll(ctx)
}
