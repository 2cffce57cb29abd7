// Package align defines the AlignmentOracle capability: computing a local
// alignment between two phonetic strings.
//
// An oracle returns index-parallel aligned token streams for both inputs
// plus a similarity score. The streams use literal marker tokens: [Gap]
// ("-") stands for an insertion or deletion with no counterpart on the
// other side, and some oracle modes bracket the locally-aligned subrange
// with the [RegionMarker] ("‖") on both sides. Whitespace-only tokens are
// separators, never content.
//
// How a score is computed is entirely the oracle's business; the engine
// only compares scores against each other and against a threshold, so any
// scale works as long as it is consistent across calls.
//
// Implementations must be deterministic and safe for concurrent use.
package align

const (
	// Gap is the indel marker token in aligned streams.
	Gap = "-"

	// RegionMarker brackets the locally-aligned subrange in oracle modes
	// that emit it.
	RegionMarker = "‖"
)

// Result is the raw output of one oracle alignment.
type Result struct {
	// Score is the alignment's similarity score. Higher is better.
	Score float64

	// SentenceTokens is the aligned token stream for the first input.
	// Index-parallel with QueryTokens.
	SentenceTokens []string

	// QueryTokens is the aligned token stream for the second input.
	QueryTokens []string
}

// Oracle computes a local alignment between a sentence phonetic string and
// a query phonetic string.
type Oracle interface {
	// Align aligns query against sentence and returns the aligned token
	// streams and score. The sentence-side stream must cover the entire
	// sentence input: concatenating its non-marker tokens reproduces the
	// sentence string. This is what allows the caller to recover character
	// offsets by walking the stream.
	Align(sentence, query string) (Result, error)
}
