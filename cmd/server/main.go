package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rkhatri/dailybrief/internal/api"
	"github.com/rkhatri/dailybrief/internal/config"
	"github.com/rkhatri/dailybrief/internal/delivery"
	"github.com/rkhatri/dailybrief/internal/pipeline"
	"github.com/rkhatri/dailybrief/internal/summary"
	"github.com/rkhatri/dailybrief/internal/wiki"
)

func main() {
	godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.APIKey == "" {
		log.Error("DAILYBRIEF_API_KEY is required for the server")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source, err := wiki.NewClient(cfg.WikiBaseURL)
	if err != nil {
		log.Error("invalid wiki base url", "error", err)
		os.Exit(1)
	}

	summarizer := summary.NewSummarizer(newLLMClient(cfg), cfg.PromptChunkSize, log)
	messenger := delivery.NewTwilioMessenger(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
	deliverer := delivery.NewDeliverer(messenger, cfg.MessageChunkSize, cfg.SendMaxAttempts, cfg.SendRetryDelay, log)

	runner := pipeline.NewRunner(source, summarizer, deliverer, cfg.Recipients, log)
	orch := pipeline.NewOrchestrator(runner, cfg.RunTTL, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		source.Close()
	}()

	log.Info("starting dailybrief", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newLLMClient(cfg config.Config) summary.Client {
	if cfg.LLMProvider == config.ProviderAnthropic {
		return summary.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.LLMModel)
	}
	return summary.NewGroqClient(cfg.GroqAPIKey, cfg.LLMModel)
}
