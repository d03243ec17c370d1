package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/bklieger-groq/voice-stockbot/config"
	"github.com/bklieger-groq/voice-stockbot/internal/agents"
	"github.com/bklieger-groq/voice-stockbot/internal/cache"
	"github.com/bklieger-groq/voice-stockbot/internal/dataflows"
	"github.com/bklieger-groq/voice-stockbot/internal/enrich"
	"github.com/bklieger-groq/voice-stockbot/internal/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "voice-stockbot",
		Short: "Reasoning service for the voice stock assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Println("[main] connected to redis")

	model, err := agents.NewChatModel(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create chat model: %w", err)
	}

	// Cancellation flags always live in redis; the enrichment cache can be
	// switched to a process-local store.
	tasks := cache.NewRedisStore(rdb)
	var store cache.Store = tasks
	if !cfg.CacheEnabled {
		store = cache.NewMemoryStore()
	}

	provider := dataflows.NewPolygonClient(cfg)
	enricher := enrich.NewClient(provider, store)
	executor := agents.NewExecutor(model, enricher, tasks)

	srv := server.New(rdb, executor)
	if err := srv.EnsureConsumerGroup(ctx); err != nil {
		return err
	}
	go srv.ConsumeLoop(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.Healthz)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		_ = httpSrv.Close()
	}()

	log.Printf("[main] listening on :%d", cfg.Port)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
