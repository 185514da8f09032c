package log

import (
	"testing"
)

func TestAppendAndReadAll(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := NewLogger(tmpDir)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	events := []LogEvent{
		{Event: EventQuerySubmitted, Question: "what is the refund policy?", Generation: 1},
		{Event: EventQuerySettled, Generation: 1, Sources: 3, DurationMs: 840},
		{Event: EventUploadComplete, Files: 2},
	}
	for _, e := range events {
		if err := logger.Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	read, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(read) != 3 {
		t.Fatalf("got %d events, want 3", len(read))
	}
	if read[0].Event != EventQuerySubmitted || read[0].Question != "what is the refund policy?" {
		t.Errorf("first event mismatch: %+v", read[0])
	}
	if read[1].Sources != 3 {
		t.Errorf("sources: got %d, want 3", read[1].Sources)
	}
	if read[0].Time.IsZero() {
		t.Error("Append should stamp zero times")
	}
}

func TestReadAllMissingFile(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := NewLogger(tmpDir)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	events, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll on missing file should not error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}
