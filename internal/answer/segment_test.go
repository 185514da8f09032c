package answer

import (
	"errors"
	"testing"
)

func TestParseSingleCitation(t *testing.T) {
	segs, err := Parse("Refunds are allowed within 30 days[1].", 1)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[0].Text != "Refunds are allowed within 30 days" || segs[0].Source != 0 {
		t.Errorf("first segment: %+v", segs[0])
	}
	if segs[1].Text != "." || segs[1].Source != NoSource {
		t.Errorf("trailing segment: %+v", segs[1])
	}
}

func TestParseNoMarkers(t *testing.T) {
	segs, err := Parse("Plain answer with no citations.", 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].Text != "Plain answer with no citations." || segs[0].Source != NoSource {
		t.Errorf("segment: %+v", segs[0])
	}
}

func TestParseMultipleAndAdjacentMarkers(t *testing.T) {
	segs, err := Parse("First point[1] and second[2][3] done.", 3)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []Segment{
		{Text: "First point", Source: 0},
		{Text: " and second", Source: 1},
		{Text: "", Source: 2},
		{Text: " done.", Source: NoSource},
	}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d: %+v", len(segs), len(want), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d: got %+v, want %+v", i, segs[i], want[i])
		}
	}
}

func TestParseOutOfRangeMarker(t *testing.T) {
	_, err := Parse("Claim[5].", 2)

	var rangeErr *SourceRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("want SourceRangeError, got %v", err)
	}
	if rangeErr.Index != 4 || rangeErr.Count != 2 {
		t.Errorf("error detail: %+v", rangeErr)
	}
}

func TestParseZeroMarkerRejected(t *testing.T) {
	if _, err := Parse("Claim[0].", 2); err == nil {
		t.Fatal("marker [0] should be out of range (markers are one-based)")
	}
}

// Reconstruction property: for any answer, Join(Parse(answer)) equals the
// answer with markers stripped.
func TestJoinReconstructsStrippedAnswer(t *testing.T) {
	answers := []string{
		"Refunds are allowed within 30 days[1].",
		"No citations here at all.",
		"[1]leading marker",
		"a[1]b[2]c[3]",
		"",
		"unicode résumé[2] text[1] end",
	}
	for _, a := range answers {
		segs, err := Parse(a, 10)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", a, err)
		}
		if got, want := Join(segs), Strip(a); got != want {
			t.Errorf("Parse(%q): reconstruction got %q, want %q", a, got, want)
		}
	}
}
