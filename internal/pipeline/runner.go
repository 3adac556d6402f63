package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/rkhatri/dailybrief/internal/delivery"
	"github.com/rkhatri/dailybrief/internal/events"
	"github.com/rkhatri/dailybrief/internal/wiki"
)

// Source fetches the current-events page for a day.
type Source interface {
	FetchDay(ctx context.Context, day time.Time) (*wiki.Day, error)
}

// Summarizer turns events into the digest text and supplies the optional
// fact trailer.
type Summarizer interface {
	Summarize(ctx context.Context, evs []events.Event, dateLabel string) string
	InterestingFact(ctx context.Context) (string, error)
}

// Deliverer fans the payload out to recipients.
type Deliverer interface {
	Deliver(recipients []string, payload string) map[string][]delivery.Receipt
}

// Runner drives one digest run end to end: fetch, extract, summarize,
// deliver. Execution is strictly sequential; the only suspension points are
// the outbound calls inside each collaborator.
type Runner struct {
	source     Source
	summarizer Summarizer
	deliverer  Deliverer
	recipients []string
	log        *slog.Logger
}

func NewRunner(source Source, summarizer Summarizer, deliverer Deliverer, recipients []string, log *slog.Logger) *Runner {
	return &Runner{
		source:     source,
		summarizer: summarizer,
		deliverer:  deliverer,
		recipients: recipients,
		log:        log,
	}
}

// Process executes a run in place. Per-partition and per-recipient failures
// are absorbed into the run's receipts and errors; only the whole-pipeline
// preconditions (no page, no events) fail the run.
func (p *Runner) Process(ctx context.Context, run *Run) {
	log := p.log.With("run_id", run.ID, "date", run.DateLabel)

	run.SetStatus(StatusFetching)
	day, err := p.source.FetchDay(ctx, run.Day)
	if err != nil {
		log.Error("fetch failed", "error", err)
		run.Fail(CauseSourceUnavailable, err.Error())
		return
	}

	run.SetStatus(StatusExtracting)
	evs := events.Extract(day.Content, day.DateLabel, day.Base)
	run.SetEvents(len(evs))
	log.Info("extracted events", "events", len(evs))

	if len(evs) == 0 {
		log.Error("no events extracted")
		run.Fail(CauseNoEvents, "no qualifying events on page")
		return
	}

	run.SetStatus(StatusSummarizing)
	digest := p.summarizer.Summarize(ctx, evs, day.DateLabel)

	// The fact trailer is optional; a failed call only costs the trailer.
	fact, err := p.summarizer.InterestingFact(ctx)
	if err != nil {
		log.Warn("interesting fact unavailable", "error", err)
		run.AddError("interesting fact: " + err.Error())
		fact = ""
	}

	payload := composePayload(run.Day, digest, fact)
	run.SetSummary(payload)

	run.SetStatus(StatusDelivering)
	receipts := p.deliverer.Deliver(p.recipients, payload)
	run.SetReceipts(receipts)

	snap := run.Snapshot()
	log.Info("delivery finished",
		"messages_sent", snap.Progress.MessagesSent,
		"messages_failed", snap.Progress.MessagesFailed,
	)

	run.SetStatus(StatusCompleted)
}

// composePayload assembles the final message text: header, digest, optional
// fact trailer.
func composePayload(day time.Time, digest, fact string) string {
	payload := "*Daily Summary:* " + day.Format("2006-01-02") + "\n\n" + digest
	if fact != "" {
		payload += "\n\n*Interesting Fact:* " + fact
	}
	return payload
}
