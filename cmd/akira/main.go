package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akira-bot/akira/internal/analyzer"
	"github.com/akira-bot/akira/internal/archive"
	"github.com/akira-bot/akira/internal/brain"
	"github.com/akira-bot/akira/internal/config"
	"github.com/akira-bot/akira/internal/engine"
	"github.com/akira-bot/akira/internal/heuristics"
	"github.com/akira-bot/akira/internal/httpapi"
	"github.com/akira-bot/akira/internal/observability"
	"github.com/akira-bot/akira/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	transcripts, err := archive.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("transcript archive init failed: %v", err)
	}
	defer transcripts.Close()
	if cfg.DatabaseURL != "" {
		log.Printf("transcript archive: postgres")
	} else {
		log.Printf("transcript archive: in-memory")
	}

	adapter, mode, err := brain.NewAdapter(brain.Config{
		Mode:         cfg.BrainProvider,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		OpenAIModel:  cfg.OpenAIModel,
		HTTPURL:      cfg.BrainHTTPURL,
		HTTPTimeout:  cfg.BrainTimeout,
	})
	if err != nil {
		log.Fatalf("brain adapter init failed: %v", err)
	}
	log.Printf("brain provider: %s", mode)
	cfg.BrainProvider = mode

	st := store.New(cfg.HistoryCapacity)
	eng := engine.New(st, heuristics.NewMatcher(), adapter, transcripts, metrics, engine.Config{
		BrainTimeout: cfg.BrainTimeout,
		MaxTokens:    int64(cfg.BrainMaxTokens),
		Temperature:  cfg.BrainTemperature,
	})
	media := analyzer.New(adapter, cfg.DocMaxChars)

	api := httpapi.New(cfg, eng, media, transcripts, metrics)
	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
