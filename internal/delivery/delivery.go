package delivery

import (
	"log/slog"
	"time"

	"github.com/rkhatri/dailybrief/internal/chunker"
)

// Deliverer fans a payload out to recipients in bounded-size partitions,
// with per-partition retry and a status poll per sent unit. Failures are
// recorded in receipts, never raised past Deliver.
type Deliverer struct {
	messenger   Messenger
	budget      int
	maxAttempts int
	delay       time.Duration
	log         *slog.Logger
}

func NewDeliverer(m Messenger, budget, maxAttempts int, delay time.Duration, log *slog.Logger) *Deliverer {
	if budget <= 0 {
		budget = chunker.DefaultMessageBudget
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	return &Deliverer{
		messenger:   m,
		budget:      budget,
		maxAttempts: maxAttempts,
		delay:       delay,
		log:         log,
	}
}

// Deliver partitions payload under the channel budget and sends every
// partition to every recipient, in order. A recipient whose partition
// exhausts its retries receives no further partitions; its remaining
// receipts are recorded as failed without an attempt. Recipients are
// independent. After all sends, each successfully sent unit is polled for
// provider status, with the same retry policy as sends.
func (d *Deliverer) Deliver(recipients []string, payload string) map[string][]Receipt {
	partitions := chunker.Split(payload, d.budget)

	out := make(map[string][]Receipt, len(recipients))
	for _, to := range recipients {
		out[to] = d.sendAll(to, partitions)
	}

	for to := range out {
		d.pollStatuses(out[to])
	}
	return out
}

func (d *Deliverer) sendAll(to string, partitions []string) []Receipt {
	red := Redact(to)
	receipts := make([]Receipt, 0, len(partitions))
	abandoned := false

	for i, partition := range partitions {
		if abandoned {
			receipts = append(receipts, Receipt{Status: StatusFailed, Recipient: red})
			continue
		}

		attempts := 0
		unitID, err := withRetry(d.maxAttempts, d.delay, func() (string, error) {
			attempts++
			return d.messenger.Send(to, partition)
		})
		if err != nil {
			d.log.Error("send failed",
				"recipient", red,
				"partition", i,
				"attempts", attempts,
				"error", err,
			)
			receipts = append(receipts, Receipt{Status: StatusFailed, Attempts: attempts, Recipient: red})
			// Fail fast for this recipient only.
			abandoned = true
			continue
		}

		d.log.Info("message sent",
			"recipient", red,
			"partition", i,
			"unit_id", unitID,
			"attempts", attempts,
		)
		receipts = append(receipts, Receipt{
			UnitID:    unitID,
			Status:    StatusQueued,
			Attempts:  attempts,
			Recipient: red,
		})
	}
	return receipts
}

func (d *Deliverer) pollStatuses(receipts []Receipt) {
	for i := range receipts {
		r := &receipts[i]
		if r.UnitID == "" {
			continue
		}

		info, err := withRetry(d.maxAttempts, d.delay, func() (StatusInfo, error) {
			return d.messenger.Status(r.UnitID)
		})
		if err != nil {
			d.log.Warn("status check failed", "recipient", r.Recipient, "unit_id", r.UnitID, "error", err)
			r.Status = StatusUnknown
			continue
		}
		r.Status = statusFromProvider(info.Status)
		if info.ErrorCode != 0 {
			d.log.Warn("provider reported delivery error",
				"recipient", r.Recipient,
				"unit_id", r.UnitID,
				"error_code", info.ErrorCode,
				"error_message", info.ErrorMessage,
			)
		}
		d.log.Info("message status", "recipient", r.Recipient, "unit_id", r.UnitID, "status", r.Status)
	}
}
