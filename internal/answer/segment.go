// Package answer splits generated answer text into citation-bound segments.
package answer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// NoSource marks a segment that cites nothing.
const NoSource = -1

// Segment is a contiguous span of answer prose. Source, when not NoSource,
// is a zero-based index into the evidence list of the same session generation.
type Segment struct {
	Text   string
	Source int
}

// SourceRangeError reports a citation marker pointing outside the evidence list.
type SourceRangeError struct {
	Index int // zero-based index the marker resolved to
	Count int // number of evidence sources available
}

func (e *SourceRangeError) Error() string {
	return fmt.Sprintf("answer: citation index %d out of range (have %d sources)", e.Index, e.Count)
}

// markerRE matches inline citation markers of the form [1], [2], ...
var markerRE = regexp.MustCompile(`\[(\d+)\]`)

// Parse splits text on inline [n] citation markers. The prose preceding each
// marker becomes a segment bound to source n-1; prose after the last marker
// becomes a trailing unbound segment. Markers are one-based on the wire and
// zero-based in the result. Concatenating the segment texts in order
// reconstructs text with the markers stripped.
//
// A marker outside [1, sourceCount] returns a *SourceRangeError and no
// segments; the caller decides how to degrade.
func Parse(text string, sourceCount int) ([]Segment, error) {
	matches := markerRE.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Segment{{Text: text, Source: NoSource}}, nil
	}

	segments := make([]Segment, 0, len(matches)+1)
	last := 0
	for _, m := range matches {
		n, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			// Unreachable with the digit-only pattern, but keep the guard.
			return nil, fmt.Errorf("answer: parsing marker: %w", err)
		}
		if n < 1 || n > sourceCount {
			return nil, &SourceRangeError{Index: n - 1, Count: sourceCount}
		}
		segments = append(segments, Segment{Text: text[last:m[0]], Source: n - 1})
		last = m[1]
	}

	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:], Source: NoSource})
	}

	return segments, nil
}

// Join concatenates the segment texts in order. It is the reconstruction
// inverse of Parse for marker-stripped prose.
func Join(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Strip returns text with all citation markers removed. Useful for plain
// rendering paths that ignore citations.
func Strip(text string) string {
	return markerRE.ReplaceAllString(text, "")
}
