// Package correct implements the phonetic correction engine: aligning a
// sentence's phonetic form against every lexicon entry, projecting the
// best matches back into spelling space, and splicing the lexicon
// spellings into the original text.
package correct

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MrWong99/phonofix/internal/gp"
	"github.com/MrWong99/phonofix/pkg/provider/align"
)

// Candidate is one alignment hit, expressed as a byte range into the
// sentence's phoneme text.
type Candidate struct {
	Score        float64
	PhonemeStart int
	PhonemeEnd   int
}

// LocalAligner adapts a raw [align.Oracle] to the engine: it turns the
// oracle's aligned token streams into phoneme-offset candidates in the
// sentence's index space. Grapheme projection is deliberately not done
// here; that is the corrector's job, via the sentence's span algebra.
//
// LocalAligner is read-only after construction and safe for concurrent
// use (assuming the oracle is).
type LocalAligner struct {
	oracle align.Oracle
}

// NewLocalAligner wraps oracle. A nil oracle is a fatal configuration
// error.
func NewLocalAligner(oracle align.Oracle) (*LocalAligner, error) {
	if oracle == nil {
		return nil, errors.New("correct: alignment oracle is required")
	}
	return &LocalAligner{oracle: oracle}, nil
}

// Align aligns entry against sentence and returns candidates in the
// sentence's phoneme space. A degenerate alignment, one with no column
// where both sides are simultaneously non-gap, yields no candidates: a
// purely structural artifact of the oracle must never be reported as a
// match.
func (a *LocalAligner) Align(sentence, entry *gp.GraphemePhoneme) ([]Candidate, error) {
	res, err := a.oracle.Align(sentence.PhonemeText(), entry.PhonemeText())
	if err != nil {
		return nil, fmt.Errorf("correct: align %q: %w", entry.GraphemeText(), err)
	}

	start, end, ok := matchedRange(res.SentenceTokens, res.QueryTokens)
	if !ok {
		return nil, nil
	}
	return []Candidate{{Score: res.Score, PhonemeStart: start, PhonemeEnd: end}}, nil
}

// matchedRange walks the aligned token streams in lock-step and computes
// the sentence phoneme-offset range of the matched region.
//
// The walk is a two-state machine over the region marker: when either
// stream contains [align.RegionMarker] tokens, only columns between the
// first and second marker are matchable; oracles that emit no markers
// leave every column matchable. The sentence-side cursor advances by the
// literal length of each non-marker, non-gap sentence token. A column
// counts as matched when both sides carry content: non-gap, non-marker,
// not a bare separator.
func matchedRange(sentenceTokens, queryTokens []string) (start, end int, ok bool) {
	inside := true
	for _, tok := range sentenceTokens {
		if tok == align.RegionMarker {
			inside = false
			break
		}
	}
	if inside {
		for _, tok := range queryTokens {
			if tok == align.RegionMarker {
				inside = false
				break
			}
		}
	}

	n := min(len(sentenceTokens), len(queryTokens))
	cursor := 0
	start, end = -1, -1

	for i := 0; i < n; i++ {
		s, q := sentenceTokens[i], queryTokens[i]

		if s == align.RegionMarker || q == align.RegionMarker {
			inside = !inside
			// A marker column can still carry sentence content when only
			// the query side holds the marker.
			if s != align.RegionMarker && s != align.Gap {
				cursor += len(s)
			}
			continue
		}

		sContent := s != align.Gap && strings.TrimSpace(s) != ""
		qContent := q != align.Gap && strings.TrimSpace(q) != ""

		if inside && sContent && qContent {
			if start < 0 {
				start = cursor
			}
			end = cursor + len(s)
		}
		if s != align.Gap {
			cursor += len(s)
		}
	}

	if start < 0 {
		return 0, 0, false
	}
	return start, end, true
}
