package pipeline

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/rkhatri/dailybrief/internal/delivery"
)

// RunStatus represents the state of a digest run.
type RunStatus string

const (
	StatusQueued      RunStatus = "queued"
	StatusFetching    RunStatus = "fetching"
	StatusExtracting  RunStatus = "extracting"
	StatusSummarizing RunStatus = "summarizing"
	StatusDelivering  RunStatus = "delivering"
	StatusCompleted   RunStatus = "completed"
	StatusFailed      RunStatus = "failed"
)

// Failure causes for the two hard-stop preconditions.
const (
	CauseSourceUnavailable = "source_unavailable"
	CauseNoEvents          = "no_events"
)

// Run tracks the state of a single digest run.
type Run struct {
	mu sync.Mutex

	ID        string    `json:"run_id"`
	Day       time.Time `json:"day"`
	DateLabel string    `json:"date_label"`

	Status RunStatus `json:"status"`
	Cause  string    `json:"cause,omitempty"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized on the run itself.
	summary  string
	receipts map[string][]delivery.Receipt
	errors   []string
}

// Progress counts work done so far.
type Progress struct {
	Events         int      `json:"events"`
	MessagesSent   int      `json:"messages_sent"`
	MessagesFailed int      `json:"messages_failed"`
	Errors         []string `json:"errors"`
}

func NewRun(day time.Time, dateLabel string) *Run {
	now := time.Now()
	return &Run{
		ID:        newRunID(now),
		Day:       day,
		DateLabel: dateLabel,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newRunID(now time.Time) string {
	var b [4]byte
	rand.Read(b[:])
	return fmt.Sprintf("%d-%x", now.UnixMilli(), b)
}

// SetStatus updates run status atomically.
func (r *Run) SetStatus(status RunStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = status
	r.UpdatedAt = time.Now()
}

// Fail marks the run failed with a cause and records the error.
func (r *Run) Fail(cause, err string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = StatusFailed
	r.Cause = cause
	if err != "" {
		r.errors = append(r.errors, err)
		r.Progress.Errors = r.errors
	}
	r.UpdatedAt = time.Now()
}

// AddError records a non-fatal error.
func (r *Run) AddError(err string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
	r.Progress.Errors = r.errors
	r.UpdatedAt = time.Now()
}

// SetEvents records the extracted event count.
func (r *Run) SetEvents(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Progress.Events = n
	r.UpdatedAt = time.Now()
}

// SetSummary stores the composed payload.
func (r *Run) SetSummary(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary = s
	r.UpdatedAt = time.Now()
}

// Summary returns the composed payload, empty until summarization finished.
func (r *Run) Summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

// SetReceipts stores delivery receipts and tallies sent/failed counts.
func (r *Run) SetReceipts(receipts map[string][]delivery.Receipt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receipts = receipts
	sent, failed := 0, 0
	for _, rs := range receipts {
		for _, rec := range rs {
			if rec.UnitID != "" {
				sent++
			} else {
				failed++
			}
		}
	}
	r.Progress.MessagesSent = sent
	r.Progress.MessagesFailed = failed
	r.UpdatedAt = time.Now()
}

// RunSnapshot is a read-only, JSON-safe copy of run state.
type RunSnapshot struct {
	ID        string                         `json:"run_id"`
	Day       string                         `json:"day"`
	DateLabel string                         `json:"date_label"`
	Status    RunStatus                      `json:"status"`
	Cause     string                         `json:"cause,omitempty"`
	Progress  Progress                       `json:"progress"`
	Receipts  map[string][]delivery.Receipt `json:"receipts,omitempty"`
}

// Snapshot returns a JSON-safe copy of the run state. Receipt keys are
// redacted recipients.
func (r *Run) Snapshot() RunSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	errs := r.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	var receipts map[string][]delivery.Receipt
	if r.receipts != nil {
		receipts = make(map[string][]delivery.Receipt, len(r.receipts))
		for to, rs := range r.receipts {
			receipts[delivery.Redact(to)] = rs
		}
	}

	return RunSnapshot{
		ID:        r.ID,
		Day:       r.Day.Format("2006-01-02"),
		DateLabel: r.DateLabel,
		Status:    r.Status,
		Cause:     r.Cause,
		Progress: Progress{
			Events:         r.Progress.Events,
			MessagesSent:   r.Progress.MessagesSent,
			MessagesFailed: r.Progress.MessagesFailed,
			Errors:         errs,
		},
		Receipts: receipts,
	}
}

// RunStore is a thread-safe in-memory run registry with TTL eviction.
type RunStore struct {
	mu   sync.Mutex
	runs map[string]*Run
	ttl  time.Duration
}

func NewRunStore(ttl time.Duration) *RunStore {
	return &RunStore{
		runs: make(map[string]*Run),
		ttl:  ttl,
	}
}

func (s *RunStore) Put(run *Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
}

func (s *RunStore) Get(id string) *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[id]
}

// Cleanup removes expired runs.
func (s *RunStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, run := range s.runs {
		run.mu.Lock()
		stale := now.Sub(run.UpdatedAt) > s.ttl
		run.mu.Unlock()
		if stale {
			delete(s.runs, id)
		}
	}
}
