// Package main is the entry point for the oddostock API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ravikhokle/oddostock/internal/app"
	"github.com/ravikhokle/oddostock/internal/config"
	appctx "github.com/ravikhokle/oddostock/internal/core/context"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/domain/auth"
	v1 "github.com/ravikhokle/oddostock/internal/infrastructure/http/v1"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage"
	"github.com/ravikhokle/oddostock/pkg/logger"
)

const version = "0.1.0"

// devUserID is the operator every request acts as when JWT_SECRET is unset.
var devUserID = id.MustParse("00000000-0000-7000-8000-000000000001")

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetDefault(log)

	ctx := context.Background()
	log.Infow("starting oddostock server", "env", cfg.App.Env, "storage", cfg.Storage.Driver)

	// --- Storage ---
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer backend.Close()

	services := app.New(backend.Repos, backend.Publisher)

	// --- Router ---
	routerCfg := v1.RouterConfig{
		AppName:     cfg.App.Name,
		Version:     version,
		Logger:      log,
		Services:    services,
		Backend:     backend,
		ReleaseMode: cfg.App.IsProduction(),
	}
	if cfg.JWT.Secret != "" {
		jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
		jwtConfig.Issuer = cfg.JWT.Issuer
		routerCfg.JWTValidator = auth.NewJWTService(jwtConfig)
	} else {
		log.Warnw("JWT_SECRET is not set; requests act as the development operator", "user_id", devUserID)
		routerCfg.DevUser = &appctx.UserContext{
			UserID: devUserID,
			Email:  "dev@oddostock.local",
			Roles:  []string{v1.RoleAdmin},
		}
	}
	router := v1.NewRouter(routerCfg)

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
