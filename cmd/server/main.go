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

	"github.com/youruser/mockupapp/internal/api"
	"github.com/youruser/mockupapp/internal/config"
	imagepkg "github.com/youruser/mockupapp/internal/image"
	"github.com/youruser/mockupapp/internal/inference"
	"github.com/youruser/mockupapp/internal/storage"
)

func main() {
	cfg, err := config.Load(os.Getenv)
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	store, err := storage.NewLocal(cfg.DataDir, cfg.PublicBaseURL)
	if err != nil {
		log.Error("storage unavailable", "dir", cfg.DataDir, "err", err)
		os.Exit(1)
	}
	fetcher := imagepkg.NewFetcher(cfg.FetchTimeout, cfg.MaxImageBytes)
	gen := inference.New(cfg.Inference, cfg.MaxImageBytes, log.With("component", "inference"))

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(log), api.CORS(cfg.CORSAllowedOrigins))
	r.MaxMultipartMemory = 2 * cfg.MaxImageBytes
	api.RegisterRoutes(r, api.NewHandlers(cfg, fetcher, gen, store, log))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("starting server", "addr", "http://localhost:"+cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
}
