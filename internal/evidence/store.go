// Package evidence holds the cited passages backing the current answer and
// their selection/expansion state.
package evidence

import "sync"

// NoActive marks an empty shared selection.
const NoActive = -1

// Source is one cited passage: document, page and snippet, in the order the
// backend returned it. The client never re-ranks.
type Source struct {
	ID              string
	DocumentName    string
	PageNumber      int
	Snippet         string
	RelevanceScore  float64
	HighlightedText string
}

// Store tracks the evidence list of the current settled search together with
// per-item expansion flags and the single shared active index. The active
// index is the same zero-based index space the answer segments cite.
type Store struct {
	mu       sync.Mutex
	sources  []Source
	expanded []bool
	active   int
	settled  bool
}

// NewStore returns an empty Store: no search performed yet.
func NewStore() *Store {
	return &Store{active: NoActive}
}

// Replace installs the evidence list of a freshly settled search. The
// previous list and its expansion state are discarded wholesale; lists from
// different sessions are never merged.
func (s *Store) Replace(sources []Source) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sources = make([]Source, len(sources))
	copy(s.sources, sources)
	s.expanded = make([]bool, len(sources))
	s.settled = true
}

// Reset clears everything back to the pre-search state. Called when a new
// query is submitted or a conversation starts over.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sources = nil
	s.expanded = nil
	s.active = NoActive
	s.settled = false
}

// ClearActive empties the shared selection without touching the list.
func (s *Store) ClearActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = NoActive
}

// Select makes index the shared active selection and toggles that item's
// expanded flag. Other items keep their flags; multiple items may be
// expanded at once. Out-of-range indices are ignored.
func (s *Store) Select(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.sources) {
		return
	}
	s.active = index
	s.expanded[index] = !s.expanded[index]
}

// SetActive sets the shared selection without toggling expansion. Used by the
// answer view, where clicking a citation badge highlights but never collapses.
func (s *Store) SetActive(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.sources) {
		return
	}
	s.active = index
}

// Active returns the shared active index, or NoActive.
func (s *Store) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Sources returns a copy of the current evidence list.
func (s *Store) Sources() []Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Source, len(s.sources))
	copy(out, s.sources)
	return out
}

// Len returns the number of evidence items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sources)
}

// Expanded reports whether the item at index is expanded.
func (s *Store) Expanded(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.expanded) {
		return false
	}
	return s.expanded[index]
}

// IsEmpty reports whether there is nothing to show: either no search has
// settled yet, or the settled search returned zero sources.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sources) == 0
}

// HasSettled reports whether any search has settled since the last Reset.
// Lets the UI distinguish "no search performed" from "zero evidence found".
func (s *Store) HasSettled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settled
}
