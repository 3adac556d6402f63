package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rkhatri/dailybrief/internal/chunker"
	"github.com/rkhatri/dailybrief/internal/events"
)

// failedPartitionNote stands in for a partition whose summarization failed.
// One bad partition degrades the digest, it never aborts the run.
const failedPartitionNote = "(a section of today's summary is unavailable)"

// continuedSection labels every partition after the first.
const continuedSection = "Continued"

// Summarizer turns an event sequence into a digest by summarizing one
// bounded partition at a time, in order.
type Summarizer struct {
	client Client
	budget int
	log    *slog.Logger
}

func NewSummarizer(client Client, budget int, log *slog.Logger) *Summarizer {
	if budget <= 0 {
		budget = chunker.DefaultPromptBudget
	}
	return &Summarizer{
		client: client,
		budget: budget,
		log:    log,
	}
}

// Summarize renders events, partitions the text under the prompt budget and
// issues one synchronous provider call per partition, in partition order.
// Failed partitions are replaced by a placeholder and logged. Results are
// joined with a blank line, order preserved.
func (s *Summarizer) Summarize(ctx context.Context, evs []events.Event, dateLabel string) string {
	rendered := Render(evs)
	partitions := chunker.Split(rendered, s.budget)

	results := make([]string, 0, len(partitions))
	for i, partition := range partitions {
		section := continuedSection
		if i == 0 && len(evs) > 0 {
			section = evs[0].Text
		}

		block, err := s.summarizePartition(ctx, section, dateLabel, partition)
		if err != nil {
			s.log.Error("partition summarization failed",
				"partition", i,
				"total", len(partitions),
				"error", err,
			)
			results = append(results, failedPartitionNote)
			continue
		}
		results = append(results, block)
	}

	return strings.Join(results, "\n\n")
}

func (s *Summarizer) summarizePartition(ctx context.Context, section, dateLabel, partition string) (string, error) {
	prompt := buildEventPrompt(section, dateLabel, partition)

	content, err := s.client.Complete(ctx, prompt, 0)
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}

	reply, err := parseReply(content)
	if err != nil {
		return "", fmt.Errorf("reply: %w", err)
	}
	return formatBlock(reply), nil
}

// formatBlock renders one parsed reply as a message-ready block.
func formatBlock(r Reply) string {
	return "*Headline:* " + r.Title + "\n*Event:*\n" + r.SectionText
}

// InterestingFact asks the provider for one obscure fact for the digest
// trailer. Failures are the caller's to absorb; the fact is optional.
func (s *Summarizer) InterestingFact(ctx context.Context) (string, error) {
	content, err := s.client.Complete(ctx, factInstructions, factTemperature)
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}
	fact, err := parseFact(content)
	if err != nil {
		return "", fmt.Errorf("reply: %w", err)
	}
	return fact, nil
}
