package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/learnanything/server/internal/api"
	"github.com/learnanything/server/internal/config"
	"github.com/learnanything/server/internal/core"
	"github.com/learnanything/server/internal/llm"
	"github.com/learnanything/server/internal/logger"
	"github.com/learnanything/server/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer log.Sync()

	ctx := context.Background()

	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to open store", "dsn", cfg.DatabaseURL, "error", err)
	}
	defer st.Close()

	gen, err := llm.New(ctx, cfg)
	if err != nil {
		log.Fatal("failed to initialize generator", "provider", cfg.LLMProvider, "error", err)
	}
	defer gen.Close()

	var searcher core.VideoSearcher
	if cfg.YouTubeAPIKey != "" {
		yt, err := core.NewYouTubeSearcher(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			log.Warn("youtube client unavailable, video search disabled", "error", err)
		} else {
			searcher = yt
		}
	}
	videos := core.NewVideoService(searcher, log)

	cascade := core.NewCascadeService(st, gen, log)
	handler := api.NewAPIHandler(st, gen, cascade, videos, log)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", "port", cfg.HTTPPort, "provider", cfg.LLMProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
}
