package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"paywall-app/config"
	"paywall-app/database"
	"paywall-app/internal/api/auth"
	"paywall-app/internal/app"
	"paywall-app/internal/infra/ghost"
	"paywall-app/internal/infra/redisstore"
	"paywall-app/internal/shared/logger"
)

func newServeCommand() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations before serving")
	return cmd
}

func runServe(ctx context.Context, autoMigrate bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Infow("starting server", "environment", cfg.Env, "port", cfg.Port)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = io.Discard

	db, err := database.Init(cfg.DBURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if autoMigrate {
		if cfg.IsProduction() {
			log.Warn("auto-migration is enabled in production")
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info("auto-migration completed")
	}

	rdb, err := redisstore.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()

	var google auth.Exchanger
	if cfg.GoogleEnabled() {
		google = auth.NewOIDCExchanger(ctx, auth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		})
		log.Info("google sign-in enabled")
	}

	router := app.NewServer(app.Deps{
		Config:  cfg,
		Log:     log,
		DB:      db,
		Redis:   rdb,
		Content: ghost.NewClient(cfg.GhostURL, cfg.GhostContentKey, nil),
		Google:  google,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}
	log.Info("server exited gracefully")
	return nil
}
