// Package swalign implements the [align.Oracle] interface with an overlap
// dynamic-programming alignment over runes.
//
// The query floats freely within the sentence: sentence overhang before and
// after the aligned region costs nothing, while gaps and mismatches inside
// the region are penalised. The emitted sentence-side token stream covers
// the whole sentence (one token per rune, plus [align.Gap] where the query
// has an insertion), as the [align.Oracle] contract requires.
//
// Scores are normalised by query length, so a perfect match scores 1.0
// regardless of query size and partial matches scale down from there.
package swalign

import (
	"github.com/MrWong99/phonofix/pkg/provider/align"
)

// Option is a functional option for configuring an [Aligner].
type Option func(*Aligner)

// WithWeights sets the match reward and the mismatch and gap penalties.
// Penalties are given as negative values. Defaults: +1, -1, -1.
func WithWeights(match, mismatch, gap float64) Option {
	return func(a *Aligner) {
		a.match = match
		a.mismatch = mismatch
		a.gap = gap
	}
}

// Aligner is a rune-level overlap aligner. It is read-only after
// construction and safe for concurrent use.
type Aligner struct {
	match    float64
	mismatch float64
	gap      float64
}

var _ align.Oracle = (*Aligner)(nil)

// New returns an Aligner with the supplied options applied.
func New(opts ...Option) *Aligner {
	a := &Aligner{match: 1, mismatch: -1, gap: -1}
	for _, o := range opts {
		o(a)
	}
	return a
}

// traceback directions.
const (
	stop = iota
	diag
	fromSentence // consume a sentence rune against a query gap
	fromQuery    // consume a query rune against a sentence gap
)

// Align aligns query against sentence. Empty inputs produce an empty
// result, which downstream code treats as "no match".
func (a *Aligner) Align(sentence, query string) (align.Result, error) {
	s := []rune(sentence)
	q := []rune(query)
	if len(s) == 0 || len(q) == 0 {
		return align.Result{}, nil
	}

	m, n := len(s), len(q)

	// score[i][j] is the best score aligning s[:i] with q[:j]. Leading
	// sentence overhang is free (column 0); leading query gaps are not
	// (row 0), because the whole query is expected to match.
	score := make([][]float64, m+1)
	dir := make([][]uint8, m+1)
	for i := 0; i <= m; i++ {
		score[i] = make([]float64, n+1)
		dir[i] = make([]uint8, n+1)
	}
	for j := 1; j <= n; j++ {
		score[0][j] = score[0][j-1] + a.gap
		dir[0][j] = fromQuery
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			sub := a.mismatch
			if s[i-1] == q[j-1] {
				sub = a.match
			}

			best := score[i-1][j-1] + sub
			d := uint8(diag)
			if v := score[i-1][j] + a.gap; v > best {
				best = v
				d = fromSentence
			}
			if v := score[i][j-1] + a.gap; v > best {
				best = v
				d = fromQuery
			}
			score[i][j] = best
			dir[i][j] = d
		}
	}

	// Trailing sentence overhang is free: end anywhere in the last column.
	// Ties resolve to the leftmost end for determinism.
	endRow := 0
	for i := 1; i <= m; i++ {
		if score[i][n] > score[endRow][n] {
			endRow = i
		}
	}

	var revS, revQ []string
	i, j := endRow, n
	for j > 0 {
		switch dir[i][j] {
		case diag:
			revS = append(revS, string(s[i-1]))
			revQ = append(revQ, string(q[j-1]))
			i--
			j--
		case fromSentence:
			revS = append(revS, string(s[i-1]))
			revQ = append(revQ, align.Gap)
			i--
		case fromQuery:
			revS = append(revS, align.Gap)
			revQ = append(revQ, string(q[j-1]))
			j--
		}
	}

	sTokens := make([]string, 0, m+n)
	qTokens := make([]string, 0, m+n)
	for k := 0; k < i; k++ {
		sTokens = append(sTokens, string(s[k]))
		qTokens = append(qTokens, align.Gap)
	}
	for k := len(revS) - 1; k >= 0; k-- {
		sTokens = append(sTokens, revS[k])
		qTokens = append(qTokens, revQ[k])
	}
	for k := endRow; k < m; k++ {
		sTokens = append(sTokens, string(s[k]))
		qTokens = append(qTokens, align.Gap)
	}

	return align.Result{
		Score:          score[endRow][n] / float64(n),
		SentenceTokens: sTokens,
		QueryTokens:    qTokens,
	}, nil
}
