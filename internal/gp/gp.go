// Package gp defines the grapheme/phoneme dual representation used
// throughout phonofix.
//
// A [GraphemePhoneme] pairs a surface string with its phonetic form at unit
// granularity: one Latin word, one ideograph, or one numeral literal each
// produce exactly one grapheme unit and one phoneme unit. Parallel span
// lists locate every unit in both strings, which is what lets alignment
// results computed in phoneme space be projected back onto the original
// spelling without drift ([GraphemePhoneme.GraphemeSpanCovering]).
//
// Values are immutable after construction. Build them through the
// validating factories [New] and [Reconstruct]; both reject inconsistent
// inputs with a [*ValidationError] or [*ReconstructionError].
//
// All spans are half-open [start, end) byte-offset ranges.
package gp

import (
	"fmt"
	"strings"
)

// Span is a half-open [Start, End) byte-offset range into a string.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// ValidationError reports an invariant violation detected while
// constructing a [GraphemePhoneme].
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "gp: invalid grapheme/phoneme pair: " + e.Reason
}

// ReconstructionError reports that a stored grapheme unit could not be
// located in its stored grapheme text during [Reconstruct].
type ReconstructionError struct {
	// Unit is the grapheme unit that could not be found.
	Unit string

	// Index is the unit's position in the stored unit list.
	Index int
}

func (e *ReconstructionError) Error() string {
	return fmt.Sprintf("gp: reconstruct: grapheme unit %d (%q) not found in grapheme text", e.Index, e.Unit)
}

// GraphemePhoneme is the immutable dual representation of a phrase.
// The zero value is a valid empty representation.
type GraphemePhoneme struct {
	graphemeText  string
	graphemeUnits []string
	phonemeText   string
	phonemeUnits  []string
	graphemeSpans []Span
	phonemeSpans  []Span
}

// New builds a GraphemePhoneme from a surface string, its unit lists, and
// the grapheme-side spans. The phoneme text and phoneme spans are derived:
// the text is the concatenation of phonemeUnits and the spans are contiguous
// starting at zero.
//
// Validation failures return a [*ValidationError]:
//   - unit and span lists must all have equal length
//   - grapheme spans must be ascending, non-overlapping, and within bounds
func New(graphemeText string, graphemeUnits, phonemeUnits []string, graphemeSpans []Span) (*GraphemePhoneme, error) {
	if len(graphemeUnits) != len(phonemeUnits) {
		return nil, &ValidationError{Reason: fmt.Sprintf(
			"grapheme units (%d) and phoneme units (%d) differ in length",
			len(graphemeUnits), len(phonemeUnits))}
	}
	if len(graphemeSpans) != len(graphemeUnits) {
		return nil, &ValidationError{Reason: fmt.Sprintf(
			"grapheme spans (%d) and grapheme units (%d) differ in length",
			len(graphemeSpans), len(graphemeUnits))}
	}

	prevEnd := 0
	for i, sp := range graphemeSpans {
		if sp.Start < prevEnd || sp.End < sp.Start || sp.End > len(graphemeText) {
			return nil, &ValidationError{Reason: fmt.Sprintf(
				"grapheme span %d [%d,%d) is out of order or out of bounds", i, sp.Start, sp.End)}
		}
		prevEnd = sp.End
	}

	phonemeSpans := make([]Span, len(phonemeUnits))
	var b strings.Builder
	cursor := 0
	for i, unit := range phonemeUnits {
		phonemeSpans[i] = Span{Start: cursor, End: cursor + len(unit)}
		cursor += len(unit)
		b.WriteString(unit)
	}

	return &GraphemePhoneme{
		graphemeText:  graphemeText,
		graphemeUnits: append([]string(nil), graphemeUnits...),
		phonemeText:   b.String(),
		phonemeUnits:  append([]string(nil), phonemeUnits...),
		graphemeSpans: append([]Span(nil), graphemeSpans...),
		phonemeSpans:  phonemeSpans,
	}, nil
}

// Reconstruct rebuilds a GraphemePhoneme from its persisted components.
//
// Grapheme spans are re-derived by locating each unit in graphemeText with a
// sequential search that starts where the previous unit ended; a unit that
// cannot be found yields a [*ReconstructionError]. Phoneme spans are
// re-derived by cumulative unit length, and phonemeText must equal the
// concatenation of phonemeUnits.
func Reconstruct(graphemeText string, graphemeUnits []string, phonemeText string, phonemeUnits []string) (*GraphemePhoneme, error) {
	if joined := strings.Join(phonemeUnits, ""); joined != phonemeText {
		return nil, &ValidationError{Reason: fmt.Sprintf(
			"phoneme text %q is not the concatenation of its units %q", phonemeText, joined)}
	}

	graphemeSpans := make([]Span, 0, len(graphemeUnits))
	cursor := 0
	for i, unit := range graphemeUnits {
		idx := strings.Index(graphemeText[cursor:], unit)
		if idx < 0 {
			return nil, &ReconstructionError{Unit: unit, Index: i}
		}
		start := cursor + idx
		graphemeSpans = append(graphemeSpans, Span{Start: start, End: start + len(unit)})
		cursor = start + len(unit)
	}

	return New(graphemeText, graphemeUnits, phonemeUnits, graphemeSpans)
}

// GraphemeText returns the full original surface form.
func (g *GraphemePhoneme) GraphemeText() string { return g.graphemeText }

// PhonemeText returns the concatenated phonetic form.
func (g *GraphemePhoneme) PhonemeText() string { return g.phonemeText }

// Len returns the number of grapheme/phoneme unit pairs.
func (g *GraphemePhoneme) Len() int { return len(g.graphemeUnits) }

// GraphemeUnits returns a copy of the grapheme unit list.
func (g *GraphemePhoneme) GraphemeUnits() []string {
	return append([]string(nil), g.graphemeUnits...)
}

// PhonemeUnits returns a copy of the phoneme unit list.
func (g *GraphemePhoneme) PhonemeUnits() []string {
	return append([]string(nil), g.phonemeUnits...)
}

// GraphemeSpans returns a copy of the per-unit spans into GraphemeText.
func (g *GraphemePhoneme) GraphemeSpans() []Span {
	return append([]Span(nil), g.graphemeSpans...)
}

// PhonemeSpans returns a copy of the per-unit spans into PhonemeText.
// Spans are contiguous: each span's Start equals the previous span's End.
func (g *GraphemePhoneme) PhonemeSpans() []Span {
	return append([]Span(nil), g.phonemeSpans...)
}

// coveringUnits returns the first and last unit index whose phoneme span
// overlaps the half-open range [start, end), and whether any unit does.
func (g *GraphemePhoneme) coveringUnits(start, end int) (first, last int, ok bool) {
	if start >= end {
		return 0, 0, false
	}
	first = -1
	for i, sp := range g.phonemeSpans {
		if sp.End > start && sp.Start < end {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return 0, 0, false
	}
	return first, last, true
}

// GraphemeSpanCovering maps a phoneme-space range onto grapheme space.
//
// The requested range is expanded outward to whole-unit boundaries, never
// splitting a unit, and the returned span runs from the first overlapping
// unit's grapheme start to the last overlapping unit's grapheme end.
// ok is false when no unit overlaps the range.
func (g *GraphemePhoneme) GraphemeSpanCovering(start, end int) (Span, bool) {
	first, last, ok := g.coveringUnits(start, end)
	if !ok {
		return Span{}, false
	}
	return Span{Start: g.graphemeSpans[first].Start, End: g.graphemeSpans[last].End}, true
}

// SubsequenceCoveringSpan returns a new GraphemePhoneme restricted to the
// units whose phoneme spans overlap the half-open range [start, end) in
// PhonemeText, or nil when no unit overlaps.
//
// Like [GraphemePhoneme.GraphemeSpanCovering], the range expands to
// whole-unit boundaries. The result's GraphemeText is a literal substring
// of the original, and its spans are rebased to the shorter strings.
func (g *GraphemePhoneme) SubsequenceCoveringSpan(start, end int) *GraphemePhoneme {
	first, last, ok := g.coveringUnits(start, end)
	if !ok {
		return nil
	}

	graphStart := g.graphemeSpans[first].Start
	graphEnd := g.graphemeSpans[last].End

	subSpans := make([]Span, 0, last-first+1)
	for _, sp := range g.graphemeSpans[first : last+1] {
		subSpans = append(subSpans, Span{Start: sp.Start - graphStart, End: sp.End - graphStart})
	}

	sub, err := New(
		g.graphemeText[graphStart:graphEnd],
		g.graphemeUnits[first:last+1],
		g.phonemeUnits[first:last+1],
		subSpans,
	)
	if err != nil {
		// Unreachable for a validly constructed receiver: slicing parallel
		// lists of a valid instance preserves every invariant.
		panic(err)
	}
	return sub
}
