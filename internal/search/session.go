// Package search drives one question at a time through the answer pipeline
// and publishes stage transitions and settled results.
package search

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/veridoc-dev/veridoc/internal/answer"
	"github.com/veridoc-dev/veridoc/internal/backend"
	"github.com/veridoc-dev/veridoc/internal/evidence"
	"github.com/veridoc-dev/veridoc/internal/log"
)

// PlaceholderScore is used for every evidence item because the backend
// response does not carry per-source relevance scores yet.
const PlaceholderScore = 0.9

// ErrEmptyQuery rejects blank submissions before any network call.
var ErrEmptyQuery = errors.New("search: query is empty")

// Querier is the backend dependency of a Session.
type Querier interface {
	Query(ctx context.Context, question string) (*backend.QueryResponse, error)
}

// Result is the settled output of one session generation. Answer segments and
// evidence sources always belong to the same generation.
type Result struct {
	Query      string
	Answer     string
	Segments   []answer.Segment
	Sources    []evidence.Source
	Generation uint64
	Elapsed    time.Duration
}

// Event is one observable pipeline transition. Result is set only for
// StageSettled, Err only for StageFailed.
type Event struct {
	Generation uint64
	Stage      Stage
	Result     *Result
	Err        error
}

// Session owns the staged query pipeline for one conversation context. At
// most one query is in flight; submitting a new one supersedes the previous
// generation, whose eventual response is discarded unconditionally.
type Session struct {
	backend Querier
	store   *evidence.Store
	logger  *log.Logger
	pacing  time.Duration
	events  chan Event

	mu         sync.Mutex
	generation uint64
	stage      Stage
	cancel     context.CancelFunc
	result     *Result
}

// NewSession creates a Session publishing to its events channel. pacing is
// the cosmetic delay between the analyzing and generating stages; it paces
// the progress UI and never affects the result. logger may be nil.
func NewSession(q Querier, store *evidence.Store, pacing time.Duration, logger *log.Logger) *Session {
	return &Session{
		backend: q,
		store:   store,
		logger:  logger,
		pacing:  pacing,
		events:  make(chan Event, 64),
		stage:   StageIdle,
	}
}

// Events returns the channel carrying stage transitions and outcomes.
// Events of superseded generations are never published.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Stage returns the current pipeline stage.
func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Generation returns the current session generation.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Result returns the settled result of the current generation, or nil.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Submit starts a new query through the pipeline. It validates, supersedes
// any in-flight generation, clears the shared evidence state, and returns
// immediately; progress arrives on Events. An empty or whitespace-only query
// returns ErrEmptyQuery with zero side effects.
func (s *Session) Submit(ctx context.Context, query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return ErrEmptyQuery
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stage = StageRetrieving
	s.result = nil
	s.mu.Unlock()

	s.store.Reset()

	s.publish(Event{Generation: gen, Stage: StageRetrieving})
	s.logEvent(log.LogEvent{Event: log.EventQuerySubmitted, Generation: gen, Question: trimmed})

	go s.run(runCtx, gen, trimmed)
	return nil
}

// run executes one generation: exactly one backend call, then the staged
// walk to Settled. Every transition re-checks the generation so a superseded
// run can never touch newer state.
func (s *Session) run(ctx context.Context, gen uint64, query string) {
	start := time.Now()

	resp, err := s.backend.Query(ctx, query)
	if err != nil {
		s.fail(gen, err)
		return
	}

	if !s.advance(gen, StageAnalyzing) {
		s.discard(gen)
		return
	}

	// Pacing is presentation only; a cancelled context skips straight to
	// discard rather than delaying a superseding query.
	select {
	case <-time.After(s.pacing):
	case <-ctx.Done():
		s.discard(gen)
		return
	}

	if !s.advance(gen, StageGenerating) {
		s.discard(gen)
		return
	}

	sources := mapSources(resp.Sources)
	segments, segErr := answer.Parse(resp.Answer, len(sources))
	if segErr != nil {
		// Out-of-range citation markers violate the backend contract.
		// Degrade to a single unbound segment instead of failing the query.
		segments = []answer.Segment{{Text: resp.Answer, Source: answer.NoSource}}
		s.logEvent(log.LogEvent{Event: log.EventQueryFailed, Generation: gen, Error: segErr.Error()})
	}

	result := &Result{
		Query:      query,
		Answer:     resp.Answer,
		Segments:   segments,
		Sources:    sources,
		Generation: gen,
		Elapsed:    time.Since(start),
	}
	s.settle(gen, result)
}

// advance moves to the given stage if gen is still current.
func (s *Session) advance(gen uint64, stage Stage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false
	}
	s.stage = stage
	s.publish(Event{Generation: gen, Stage: stage})
	return true
}

// settle installs the result and the evidence list as one atomic pair.
func (s *Session) settle(gen uint64, result *Result) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.discard(gen)
		return
	}
	s.stage = StageSettled
	s.result = result
	s.store.Replace(result.Sources)
	s.publish(Event{Generation: gen, Stage: StageSettled, Result: result})
	s.mu.Unlock()

	s.logEvent(log.LogEvent{
		Event:      log.EventQuerySettled,
		Generation: gen,
		Sources:    len(result.Sources),
		DurationMs: result.Elapsed.Milliseconds(),
	})
}

// fail marks the generation failed if still current. No partial answer or
// evidence is published; the evidence store stays in its pre-search state.
func (s *Session) fail(gen uint64, err error) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.discard(gen)
		return
	}
	s.stage = StageFailed
	s.result = nil
	s.publish(Event{Generation: gen, Stage: StageFailed, Err: err})
	s.mu.Unlock()

	s.logEvent(log.LogEvent{Event: log.EventQueryFailed, Generation: gen, Error: err.Error()})
}

// discard records a superseded generation's outcome being dropped. Policy,
// not an error: nothing is published and nothing is surfaced to the user.
func (s *Session) discard(gen uint64) {
	s.logEvent(log.LogEvent{Event: log.EventStaleDiscarded, Generation: gen})
}

func (s *Session) publish(e Event) {
	s.events <- e
}

func (s *Session) logEvent(e log.LogEvent) {
	if s.logger == nil {
		return
	}
	_ = s.logger.Append(e)
}

// mapSources converts the raw backend payload to evidence sources, applying
// the defaulting rules for absent fields.
func mapSources(raw []backend.QuerySource) []evidence.Source {
	sources := make([]evidence.Source, len(raw))
	for i, src := range raw {
		name := "Unknown Document"
		if src.Document != nil && *src.Document != "" {
			name = *src.Document
		}
		page := 0
		if src.Page != nil {
			page = *src.Page
		}
		snippet := ""
		if src.Snippet != nil {
			snippet = *src.Snippet
		}
		sources[i] = evidence.Source{
			ID:              strconv.Itoa(i),
			DocumentName:    name,
			PageNumber:      page,
			Snippet:         snippet,
			RelevanceScore:  PlaceholderScore,
			HighlightedText: snippet,
		}
	}
	return sources
}
