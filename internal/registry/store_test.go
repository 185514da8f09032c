package registry

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestConversationRoundTrip(t *testing.T) {
	store := newTestStore(t)

	conv, err := store.CreateConversation("Refund policy questions")
	if err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}
	if conv.ID == "" {
		t.Fatal("conversation must get an ID")
	}

	got, err := store.GetConversation(conv.ID)
	if err != nil {
		t.Fatalf("GetConversation failed: %v", err)
	}
	if got == nil || got.Title != "Refund policy questions" {
		t.Errorf("got %+v", got)
	}
}

func TestGetConversationMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetConversation("nope")
	if err != nil {
		t.Fatalf("GetConversation failed: %v", err)
	}
	if got != nil {
		t.Errorf("want nil for missing conversation, got %+v", got)
	}
}

func TestAddQueryAndList(t *testing.T) {
	store := newTestStore(t)

	conv, err := store.CreateConversation("Warranty")
	if err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}

	if err := store.AddQuery(conv.ID, "is water damage covered?", "No[1].", 1); err != nil {
		t.Fatalf("AddQuery failed: %v", err)
	}
	if err := store.AddQuery(conv.ID, "what about drops?", "Yes, within 90 days[1].", 2); err != nil {
		t.Fatalf("AddQuery failed: %v", err)
	}

	records, err := store.GetQueries(conv.ID)
	if err != nil {
		t.Fatalf("GetQueries failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Question != "is water damage covered?" || records[0].Sources != 1 {
		t.Errorf("first record: %+v", records[0])
	}

	summaries, err := store.ListConversations(10)
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Queries != 2 {
		t.Errorf("summaries: %+v", summaries)
	}
}
