package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/rkhatri/dailybrief/internal/config"
	"github.com/rkhatri/dailybrief/internal/delivery"
	"github.com/rkhatri/dailybrief/internal/pipeline"
	"github.com/rkhatri/dailybrief/internal/summary"
	"github.com/rkhatri/dailybrief/internal/wiki"
)

// One-shot digest run for today, meant to be invoked from cron.
func main() {
	godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	source, err := wiki.NewClient(cfg.WikiBaseURL)
	if err != nil {
		log.Error("invalid wiki base url", "error", err)
		os.Exit(1)
	}
	defer source.Close()

	summarizer := summary.NewSummarizer(newLLMClient(cfg), cfg.PromptChunkSize, log)
	messenger := delivery.NewTwilioMessenger(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
	deliverer := delivery.NewDeliverer(messenger, cfg.MessageChunkSize, cfg.SendMaxAttempts, cfg.SendRetryDelay, log)

	runner := pipeline.NewRunner(source, summarizer, deliverer, cfg.Recipients, log)

	day := time.Now()
	run := pipeline.NewRun(day, wiki.DateLabel(day))
	log.Info("starting digest run", "run_id", run.ID, "date", run.DateLabel)

	runner.Process(context.Background(), run)

	snap := run.Snapshot()
	if snap.Status != pipeline.StatusCompleted {
		log.Error("digest run failed", "run_id", snap.ID, "cause", snap.Cause, "errors", snap.Progress.Errors)
		os.Exit(1)
	}
	log.Info("digest run completed",
		"run_id", snap.ID,
		"events", snap.Progress.Events,
		"messages_sent", snap.Progress.MessagesSent,
		"messages_failed", snap.Progress.MessagesFailed,
	)
}

func newLLMClient(cfg config.Config) summary.Client {
	if cfg.LLMProvider == config.ProviderAnthropic {
		return summary.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.LLMModel)
	}
	return summary.NewGroqClient(cfg.GroqAPIKey, cfg.LLMModel)
}
