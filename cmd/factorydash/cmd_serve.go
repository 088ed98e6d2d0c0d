package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/keerthikaa27/factory-order-dashboard/api"
	"github.com/keerthikaa27/factory-order-dashboard/config"
	"github.com/keerthikaa27/factory-order-dashboard/credential"
	"github.com/keerthikaa27/factory-order-dashboard/engine"
	"github.com/keerthikaa27/factory-order-dashboard/store"
	"github.com/keerthikaa27/factory-order-dashboard/www"
)

var watchConfig bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web dashboard",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&watchConfig, "watch", true, "reload the backend address when the config file changes")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	kv, closeKV, err := openKV(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeKV()

	base, timeout := cfg.APISettings()
	eng := engine.New(engine.Config{
		AppConfig: cfg,
		Client:    api.NewClient(base, timeout, nil, logger.Named("api")),
		KV:        kv,
		Logger:    logger,
	})
	eng.Start()
	defer eng.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if watchConfig {
		if err := config.Watch(ctx, configPath, logger.Named("config"), func(next *config.Config) {
			if apiBaseURL != "" {
				next.API.BaseURL = apiBaseURL
			}
			eng.Reconfigure(next)
		}); err != nil {
			logger.Warn("config watch unavailable", zap.Error(err))
		}
	}

	handler, stopWeb := www.NewRouter(eng)
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web server listening", zap.String("addr", addr), zap.String("backend", base))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		stopWeb()
		return fmt.Errorf("web server: %w", err)
	}

	logger.Info("shutting down")
	stopWeb()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openKV opens the configured credential backend.
func openKV(ctx context.Context, cfg *config.Config, logger *zap.Logger) (credential.KV, func(), error) {
	switch cfg.Credentials.Backend {
	case "memory":
		logger.Warn("credentials kept in memory; sessions end on restart")
		return credential.NewMemoryKV(), func() {}, nil
	case "redis":
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.Credentials.Redis.Address,
			Password: cfg.Credentials.Redis.Password,
			DB:       cfg.Credentials.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rc.Ping(pingCtx).Err(); err != nil {
			rc.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", cfg.Credentials.Redis.Address, err)
		}
		logger.Info("credential store ready", zap.String("backend", "redis"), zap.String("addr", cfg.Credentials.Redis.Address))
		return credential.NewRedisKV(rc), func() { rc.Close() }, nil
	default:
		db, err := store.Open(&cfg.Credentials)
		if err != nil {
			return nil, nil, fmt.Errorf("open credential store: %w", err)
		}
		logger.Info("credential store ready", zap.String("backend", db.Driver()))
		return db, func() { db.Close() }, nil
	}
}
