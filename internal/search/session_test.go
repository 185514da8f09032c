package search

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/veridoc-dev/veridoc/internal/answer"
	"github.com/veridoc-dev/veridoc/internal/backend"
	"github.com/veridoc-dev/veridoc/internal/evidence"
)

// fakeBackend answers queries from a function and counts calls.
type fakeBackend struct {
	calls   atomic.Int64
	respond func(ctx context.Context, question string) (*backend.QueryResponse, error)
}

func (f *fakeBackend) Query(ctx context.Context, question string) (*backend.QueryResponse, error) {
	f.calls.Add(1)
	return f.respond(ctx, question)
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func refundResponse() *backend.QueryResponse {
	return &backend.QueryResponse{
		Answer: "Refunds are allowed within 30 days[1].",
		Sources: []backend.QuerySource{
			{Document: strPtr("policy.pdf"), Page: intPtr(2), Snippet: strPtr("30-day refund window")},
		},
	}
}

func waitEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case e := <-events:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func waitSettled(t *testing.T, events <-chan Event, gen uint64) []Event {
	t.Helper()
	var seen []Event
	for {
		e := waitEvent(t, events)
		if e.Generation != gen {
			continue
		}
		seen = append(seen, e)
		if e.Stage == StageSettled || e.Stage == StageFailed {
			return seen
		}
	}
}

func TestSubmitEmptyQueryNoNetworkCall(t *testing.T) {
	fb := &fakeBackend{respond: func(context.Context, string) (*backend.QueryResponse, error) {
		return refundResponse(), nil
	}}
	s := NewSession(fb, evidence.NewStore(), 0, nil)

	if err := s.Submit(context.Background(), "   \t "); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("want ErrEmptyQuery, got %v", err)
	}
	if fb.calls.Load() != 0 {
		t.Errorf("backend called %d times, want 0", fb.calls.Load())
	}
	if s.Stage() != StageIdle {
		t.Errorf("stage: got %v, want idle", s.Stage())
	}
}

func TestStageSequenceInOrder(t *testing.T) {
	fb := &fakeBackend{respond: func(context.Context, string) (*backend.QueryResponse, error) {
		return refundResponse(), nil
	}}
	s := NewSession(fb, evidence.NewStore(), time.Millisecond, nil)

	if err := s.Submit(context.Background(), "what is the refund policy?"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	seen := waitSettled(t, s.Events(), 1)
	want := []Stage{StageRetrieving, StageAnalyzing, StageGenerating, StageSettled}
	if len(seen) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(seen), len(want), seen)
	}
	for i, e := range seen {
		if e.Stage != want[i] {
			t.Errorf("event %d: got %v, want %v", i, e.Stage, want[i])
		}
	}
	if fb.calls.Load() != 1 {
		t.Errorf("backend called %d times, want exactly 1", fb.calls.Load())
	}
}

func TestSettledResultMatchesExample(t *testing.T) {
	fb := &fakeBackend{respond: func(context.Context, string) (*backend.QueryResponse, error) {
		return refundResponse(), nil
	}}
	store := evidence.NewStore()
	s := NewSession(fb, store, 0, nil)

	if err := s.Submit(context.Background(), "What is the refund policy?"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	events := waitSettled(t, s.Events(), 1)
	result := events[len(events)-1].Result
	if result == nil {
		t.Fatal("settled event must carry a result")
	}

	if len(result.Segments) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(result.Segments), result.Segments)
	}
	if result.Segments[0].Text != "Refunds are allowed within 30 days" || result.Segments[0].Source != 0 {
		t.Errorf("cited segment: %+v", result.Segments[0])
	}
	if result.Segments[1].Source != answer.NoSource {
		t.Errorf("trailing segment should cite nothing: %+v", result.Segments[1])
	}

	if len(result.Sources) != 1 {
		t.Fatalf("got %d sources, want 1", len(result.Sources))
	}
	src := result.Sources[0]
	if src.DocumentName != "policy.pdf" || src.PageNumber != 2 {
		t.Errorf("source mapping: %+v", src)
	}
	if src.RelevanceScore != PlaceholderScore {
		t.Errorf("relevance: got %v, want placeholder %v", src.RelevanceScore, PlaceholderScore)
	}
	if src.HighlightedText != src.Snippet {
		t.Errorf("highlight should equal snippet: %+v", src)
	}

	if store.Len() != 1 || !store.HasSettled() {
		t.Error("evidence store should hold the settled list")
	}
}

func TestMissingPayloadFieldsDefaulted(t *testing.T) {
	fb := &fakeBackend{respond: func(context.Context, string) (*backend.QueryResponse, error) {
		return &backend.QueryResponse{
			Answer:  "No metadata available.",
			Sources: []backend.QuerySource{{}},
		}, nil
	}}
	s := NewSession(fb, evidence.NewStore(), 0, nil)

	if err := s.Submit(context.Background(), "anything"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	events := waitSettled(t, s.Events(), 1)
	src := events[len(events)-1].Result.Sources[0]

	if src.DocumentName != "Unknown Document" {
		t.Errorf("document name: got %q", src.DocumentName)
	}
	if src.PageNumber != 0 || src.Snippet != "" || src.HighlightedText != "" {
		t.Errorf("defaults: %+v", src)
	}
}

func TestFailurePublishesNoPartialResult(t *testing.T) {
	fb := &fakeBackend{respond: func(context.Context, string) (*backend.QueryResponse, error) {
		return nil, errors.New("connection refused")
	}}
	store := evidence.NewStore()
	s := NewSession(fb, store, 0, nil)

	if err := s.Submit(context.Background(), "anything"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	events := waitSettled(t, s.Events(), 1)
	last := events[len(events)-1]

	if last.Stage != StageFailed || last.Err == nil {
		t.Fatalf("want failed event with error, got %+v", last)
	}
	if s.Result() != nil {
		t.Error("no result may be published on failure")
	}
	if store.HasSettled() || store.Len() != 0 {
		t.Error("evidence store must stay in the pre-search state on failure")
	}
}

func TestSupersededResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	fb := &fakeBackend{respond: func(ctx context.Context, question string) (*backend.QueryResponse, error) {
		if question == "old" {
			// Ignore cancellation deliberately: the stale response must be
			// discarded even when the transport does not honor the context.
			<-release
			return &backend.QueryResponse{Answer: "OLD ANSWER"}, nil
		}
		return &backend.QueryResponse{Answer: "NEW ANSWER"}, nil
	}}
	store := evidence.NewStore()
	s := NewSession(fb, store, 0, nil)

	if err := s.Submit(context.Background(), "old"); err != nil {
		t.Fatalf("Submit old failed: %v", err)
	}
	if err := s.Submit(context.Background(), "new"); err != nil {
		t.Fatalf("Submit new failed: %v", err)
	}

	waitSettled(t, s.Events(), 2)
	close(release)

	// Give the stale generation a chance to misbehave.
	time.Sleep(50 * time.Millisecond)

	result := s.Result()
	if result == nil || result.Answer != "NEW ANSWER" {
		t.Fatalf("visible answer clobbered by stale response: %+v", result)
	}
	if result.Generation != 2 {
		t.Errorf("generation: got %d, want 2", result.Generation)
	}

	// No event of the stale generation may trail the settled one.
	select {
	case e := <-s.Events():
		if e.Generation == 1 && e.Stage != StageRetrieving {
			t.Errorf("stale generation published %+v", e)
		}
	default:
	}
}

func TestOutOfRangeCitationDegradesToPlainAnswer(t *testing.T) {
	fb := &fakeBackend{respond: func(context.Context, string) (*backend.QueryResponse, error) {
		return &backend.QueryResponse{
			Answer:  "Claim backed by nothing[7].",
			Sources: []backend.QuerySource{{Document: strPtr("a.pdf")}},
		}, nil
	}}
	s := NewSession(fb, evidence.NewStore(), 0, nil)

	if err := s.Submit(context.Background(), "anything"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	events := waitSettled(t, s.Events(), 1)
	result := events[len(events)-1].Result

	if len(result.Segments) != 1 {
		t.Fatalf("want single fallback segment, got %+v", result.Segments)
	}
	if result.Segments[0].Text != "Claim backed by nothing[7]." || result.Segments[0].Source != answer.NoSource {
		t.Errorf("fallback segment: %+v", result.Segments[0])
	}
}

func TestNewSubmitClearsActiveSelection(t *testing.T) {
	fb := &fakeBackend{respond: func(context.Context, string) (*backend.QueryResponse, error) {
		return refundResponse(), nil
	}}
	store := evidence.NewStore()
	s := NewSession(fb, store, 0, nil)

	if err := s.Submit(context.Background(), "first"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	waitSettled(t, s.Events(), 1)
	store.Select(0)
	if store.Active() != 0 {
		t.Fatal("setup: select failed")
	}

	if err := s.Submit(context.Background(), "second"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if store.Active() != evidence.NoActive {
		t.Error("active evidence index must reset on a new query")
	}
	waitSettled(t, s.Events(), 2)
}
