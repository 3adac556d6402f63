package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"

	"github.com/rkhatri/dailybrief/internal/delivery"
	"github.com/rkhatri/dailybrief/internal/summary"
	"github.com/rkhatri/dailybrief/internal/wiki"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSource serves a fixed HTML fixture as the day's page.
type fakeSource struct {
	content string
	err     error
}

func (f *fakeSource) FetchDay(ctx context.Context, day time.Time) (*wiki.Day, error) {
	if f.err != nil {
		return nil, f.err
	}
	doc, err := html.Parse(strings.NewReader(
		`<html><body><div class="content">` + f.content + `</div></body></html>`))
	if err != nil {
		return nil, err
	}
	var find func(*html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.Data == "div" {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := find(c); found != nil {
				return found
			}
		}
		return nil
	}
	return &wiki.Day{
		Content:   find(doc),
		DateLabel: wiki.DateLabel(day),
	}, nil
}

// fakeLLM answers every summarization call with a fixed summary object and
// every fact call with a fixed fact, counting calls.
type fakeLLM struct {
	calls    int
	factErr  error
	callErrs map[int]error
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	call := f.calls
	f.calls++
	if temperature > 1 {
		if f.factErr != nil {
			return "", f.factErr
		}
		return `{"fact":"A fact."}`, nil
	}
	if err := f.callErrs[call]; err != nil {
		return "", err
	}
	return `{"summary":{"title":"Politics","section_text":"- a point"}}`, nil
}

// fakeMessenger accepts everything and reports delivered.
type fakeMessenger struct {
	sends       int
	statusPolls int
}

func (f *fakeMessenger) Send(to, body string) (string, error) {
	f.sends++
	return fmt.Sprintf("SM%d", f.sends), nil
}

func (f *fakeMessenger) Status(unitID string) (delivery.StatusInfo, error) {
	f.statusPolls++
	return delivery.StatusInfo{Status: "delivered"}, nil
}

const politicsFixture = `
	<ul>
		<li><b>Politics</b></li>
		<li>first story</li>
		<li>second story</li>
		<li><a class="mw-redirect" href="https://example.com/e">Elections</a>
			<ul><li>a nested development</li></ul>
		</li>
	</ul>`

func testDay(t *testing.T) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", "2024-06-05")
	if err != nil {
		t.Fatalf("parse day: %v", err)
	}
	return d
}

func newTestRunner(src Source, llm *fakeLLM, msgr *fakeMessenger, recipients []string) *Runner {
	s := summary.NewSummarizer(llm, 4000, discard())
	d := delivery.NewDeliverer(msgr, 1600, 3, time.Millisecond, discard())
	return NewRunner(src, s, d, recipients, discard())
}

func TestProcess_EndToEnd(t *testing.T) {
	src := &fakeSource{content: politicsFixture}
	llm := &fakeLLM{}
	msgr := &fakeMessenger{}
	recipients := []string{"whatsapp:+15550001111", "whatsapp:+15550002222"}

	runner := newTestRunner(src, llm, msgr, recipients)
	run := NewRun(testDay(t), wiki.DateLabel(testDay(t)))
	runner.Process(context.Background(), run)

	snap := run.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("run status %q, cause %q, errors %v", snap.Status, snap.Cause, snap.Progress.Errors)
	}
	// 1 main category + 1 subcategory + 2 items + 1 nested item.
	if snap.Progress.Events != 5 {
		t.Errorf("events %d, want 5", snap.Progress.Events)
	}
	// One summarization partition plus one fact call.
	if llm.calls != 2 {
		t.Errorf("llm calls %d, want 2", llm.calls)
	}
	// One chunk to each of two recipients.
	if msgr.sends != 2 {
		t.Errorf("sends %d, want 2", msgr.sends)
	}
	if msgr.statusPolls != 2 {
		t.Errorf("status polls %d, want 2", msgr.statusPolls)
	}
	if snap.Progress.MessagesSent != 2 || snap.Progress.MessagesFailed != 0 {
		t.Errorf("sent/failed %d/%d", snap.Progress.MessagesSent, snap.Progress.MessagesFailed)
	}

	payload := run.Summary()
	if !strings.HasPrefix(payload, "*Daily Summary:* 2024-06-05") {
		t.Errorf("payload missing header: %q", payload)
	}
	if !strings.Contains(payload, "*Interesting Fact:* A fact.") {
		t.Errorf("payload missing fact trailer: %q", payload)
	}
}

func TestProcess_SourceUnavailable(t *testing.T) {
	src := &fakeSource{err: fmt.Errorf("%w: boom", wiki.ErrUnavailable)}
	runner := newTestRunner(src, &fakeLLM{}, &fakeMessenger{}, []string{"whatsapp:+15550001111"})
	run := NewRun(testDay(t), wiki.DateLabel(testDay(t)))

	runner.Process(context.Background(), run)

	snap := run.Snapshot()
	if snap.Status != StatusFailed || snap.Cause != CauseSourceUnavailable {
		t.Errorf("status %q cause %q", snap.Status, snap.Cause)
	}
}

func TestProcess_EmptyExtractionIsHardStop(t *testing.T) {
	src := &fakeSource{content: `<p>quiet news day</p>`}
	llm := &fakeLLM{}
	msgr := &fakeMessenger{}
	runner := newTestRunner(src, llm, msgr, []string{"whatsapp:+15550001111"})
	run := NewRun(testDay(t), wiki.DateLabel(testDay(t)))

	runner.Process(context.Background(), run)

	snap := run.Snapshot()
	if snap.Status != StatusFailed || snap.Cause != CauseNoEvents {
		t.Errorf("status %q cause %q", snap.Status, snap.Cause)
	}
	if llm.calls != 0 || msgr.sends != 0 {
		t.Errorf("no downstream calls expected, got llm=%d sends=%d", llm.calls, msgr.sends)
	}
}

func TestProcess_FactFailureIsNotFatal(t *testing.T) {
	src := &fakeSource{content: politicsFixture}
	llm := &fakeLLM{factErr: errors.New("fact provider down")}
	msgr := &fakeMessenger{}
	runner := newTestRunner(src, llm, msgr, []string{"whatsapp:+15550001111"})
	run := NewRun(testDay(t), wiki.DateLabel(testDay(t)))

	runner.Process(context.Background(), run)

	snap := run.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("status %q, want completed", snap.Status)
	}
	if strings.Contains(run.Summary(), "*Interesting Fact:*") {
		t.Error("payload should omit the fact trailer when the call fails")
	}
	if len(snap.Progress.Errors) == 0 {
		t.Error("fact failure should be recorded on the run")
	}
}

func TestProcess_PartitionFailureStillDelivers(t *testing.T) {
	src := &fakeSource{content: politicsFixture}
	llm := &fakeLLM{callErrs: map[int]error{0: errors.New("summarization down")}}
	msgr := &fakeMessenger{}
	runner := newTestRunner(src, llm, msgr, []string{"whatsapp:+15550001111"})
	run := NewRun(testDay(t), wiki.DateLabel(testDay(t)))

	runner.Process(context.Background(), run)

	snap := run.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("status %q, want completed", snap.Status)
	}
	if msgr.sends != 1 {
		t.Errorf("degraded digest should still be delivered, sends=%d", msgr.sends)
	}
}
