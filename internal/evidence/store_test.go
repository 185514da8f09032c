package evidence

import "testing"

func twoSources() []Source {
	return []Source{
		{ID: "0", DocumentName: "policy.pdf", PageNumber: 2, Snippet: "30-day refund window", RelevanceScore: 0.9},
		{ID: "1", DocumentName: "terms.docx", PageNumber: 7, Snippet: "warranty exclusions", RelevanceScore: 0.9},
	}
}

func TestSelectTogglesOnlyThatItem(t *testing.T) {
	s := NewStore()
	s.Replace(twoSources())

	s.Select(1)
	if s.Active() != 1 {
		t.Errorf("active: got %d, want 1", s.Active())
	}
	if !s.Expanded(1) {
		t.Error("item 1 should be expanded after Select")
	}
	if s.Expanded(0) {
		t.Error("item 0 must be unaffected")
	}

	// Second select toggles back, active stays.
	s.Select(1)
	if s.Expanded(1) {
		t.Error("item 1 should collapse on second Select")
	}
	if s.Active() != 1 {
		t.Errorf("active should remain 1, got %d", s.Active())
	}
}

func TestMultipleItemsExpandedSimultaneously(t *testing.T) {
	s := NewStore()
	s.Replace(twoSources())

	s.Select(0)
	s.Select(1)
	if !s.Expanded(0) || !s.Expanded(1) {
		t.Error("expansion is independent per item, not an accordion")
	}
}

func TestReplaceDiscardsPreviousState(t *testing.T) {
	s := NewStore()
	s.Replace(twoSources())
	s.Select(0)

	s.Replace([]Source{{ID: "0", DocumentName: "new.pdf"}})
	if s.Len() != 1 {
		t.Fatalf("len: got %d, want 1", s.Len())
	}
	if s.Expanded(0) {
		t.Error("expansion state must not survive Replace")
	}
}

func TestEmptyVersusNotSearched(t *testing.T) {
	s := NewStore()
	if !s.IsEmpty() || s.HasSettled() {
		t.Error("fresh store: empty, not settled")
	}

	s.Replace(nil)
	if !s.IsEmpty() {
		t.Error("zero-source settle is still empty")
	}
	if !s.HasSettled() {
		t.Error("zero-source settle must count as a performed search")
	}

	s.Reset()
	if s.HasSettled() {
		t.Error("Reset returns to the not-searched state")
	}
	if s.Active() != NoActive {
		t.Errorf("Reset clears the active index, got %d", s.Active())
	}
}

func TestSelectOutOfRangeIgnored(t *testing.T) {
	s := NewStore()
	s.Replace(twoSources())

	s.Select(5)
	s.Select(-1)
	if s.Active() != NoActive {
		t.Errorf("out-of-range select must not set active, got %d", s.Active())
	}
}

func TestSetActiveDoesNotToggle(t *testing.T) {
	s := NewStore()
	s.Replace(twoSources())

	s.SetActive(0)
	if s.Active() != 0 {
		t.Errorf("active: got %d, want 0", s.Active())
	}
	if s.Expanded(0) {
		t.Error("SetActive must not expand")
	}
}
