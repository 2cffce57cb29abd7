package correct

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/phonofix/internal/gp"
	"github.com/MrWong99/phonofix/internal/lexicon"
	"github.com/MrWong99/phonofix/internal/observe"
)

// DefaultThreshold is the minimum normalized alignment score an entry
// must reach before it is considered for replacement.
const DefaultThreshold = 0.5

// Option configures a [Corrector].
type Option func(*Corrector)

// WithThreshold sets the minimum alignment score. Scores equal to the
// threshold are kept.
func WithThreshold(t float64) Option {
	return func(c *Corrector) { c.threshold = t }
}

// WithWorkers bounds the number of concurrent alignment workers. Zero
// or one means sequential processing.
func WithWorkers(n int) Option {
	return func(c *Corrector) { c.workers = n }
}

// WithPrefilter enables the cheap phonetic gate that skips alignment
// for entries sharing no phonetic signal with the sentence.
func WithPrefilter(enabled bool) Option {
	return func(c *Corrector) { c.prefilter = enabled }
}

// WithMetrics attaches correction metrics. A nil Metrics disables
// recording.
func WithMetrics(m *observe.Metrics) Option {
	return func(c *Corrector) { c.metrics = m }
}

// Corrector rewrites sentences by replacing regions that sound like a
// lexicon phrase with that phrase's spelling. It is read-only after
// construction and safe for concurrent use.
type Corrector struct {
	lexicon   *lexicon.Lexicon
	aligner   *LocalAligner
	threshold float64
	workers   int
	prefilter bool
	metrics   *observe.Metrics
}

// NewCorrector builds a corrector over lex using aligner.
func NewCorrector(lex *lexicon.Lexicon, aligner *LocalAligner, opts ...Option) (*Corrector, error) {
	if lex == nil {
		return nil, errors.New("correct: lexicon is required")
	}
	if aligner == nil {
		return nil, errors.New("correct: aligner is required")
	}
	c := &Corrector{
		lexicon:   lex,
		aligner:   aligner,
		threshold: DefaultThreshold,
		workers:   1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.workers < 0 {
		return nil, fmt.Errorf("correct: workers must be >= 0, got %d", c.workers)
	}
	if math.IsNaN(c.threshold) {
		return nil, errors.New("correct: threshold must not be NaN")
	}
	return c, nil
}

// match is one above-threshold alignment hit, projected into the
// sentence's grapheme space.
type match struct {
	phrase        string
	score         float64
	graphemeStart int
	graphemeEnd   int
}

// Correct returns text with every winning lexicon phrase spliced in.
// Empty input and an empty lexicon are both no-ops. Replaced regions
// never overlap; when two winners collide, the earlier-starting, then
// longer, one survives.
func (c *Corrector) Correct(ctx context.Context, text string) (string, error) {
	started := time.Now()
	if strings.TrimSpace(text) == "" || c.lexicon.Len() == 0 {
		c.metrics.RecordCorrect(ctx, time.Since(started), 0)
		return text, nil
	}

	sentence, err := c.lexicon.Converter().ToGraphemePhoneme(text)
	if err != nil {
		return "", fmt.Errorf("correct: convert sentence: %w", err)
	}
	if len(sentence.PhonemeUnits()) == 0 {
		c.metrics.RecordCorrect(ctx, time.Since(started), 0)
		return text, nil
	}

	matches, err := c.alignAll(ctx, sentence)
	if err != nil {
		return "", err
	}

	winners := selectWinners(matches)
	accepted := resolveOverlaps(winners)
	c.metrics.AddCandidates(ctx, len(accepted), "accepted")
	c.metrics.AddCandidates(ctx, len(winners)-len(accepted), "overlapped")

	out := splice(text, accepted)
	c.metrics.RecordCorrect(ctx, time.Since(started), len(accepted))
	return out, nil
}

// alignAll aligns every lexicon entry against sentence and returns the
// above-threshold matches. Entries are fanned out across workers; the
// result is order-independent because selection and overlap resolution
// re-sort downstream.
func (c *Corrector) alignAll(ctx context.Context, sentence *gp.GraphemePhoneme) ([]match, error) {
	entries := c.lexicon.Entries()

	var gate *prefilter
	if c.prefilter {
		gate = newPrefilter(sentence)
	}

	results := make([][]match, len(entries))
	if c.workers <= 1 || len(entries) <= 1 {
		for i, e := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			ms, err := c.alignEntry(ctx, sentence, gate, e)
			if err != nil {
				return nil, err
			}
			results[i] = ms
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.workers)
		for i, e := range entries {
			g.Go(func() error {
				ms, err := c.alignEntry(gctx, sentence, gate, e)
				if err != nil {
					return err
				}
				results[i] = ms
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	var matches []match
	for _, ms := range results {
		matches = append(matches, ms...)
	}
	return matches, nil
}

func (c *Corrector) alignEntry(ctx context.Context, sentence *gp.GraphemePhoneme, gate *prefilter, e lexicon.Entry) ([]match, error) {
	if gate != nil && !gate.admit(e.GP) {
		c.metrics.AddPrefiltered(ctx, 1)
		return nil, nil
	}

	cands, err := c.aligner.Align(sentence, e.GP)
	if err != nil {
		return nil, err
	}
	c.metrics.AddAligned(ctx, 1)

	var matches []match
	for _, cand := range cands {
		if cand.Score < c.threshold {
			continue
		}
		span, ok := sentence.GraphemeSpanCovering(cand.PhonemeStart, cand.PhonemeEnd)
		if !ok {
			continue
		}
		matches = append(matches, match{
			phrase:        e.GP.GraphemeText(),
			score:         cand.Score,
			graphemeStart: span.Start,
			graphemeEnd:   span.End,
		})
	}
	return matches, nil
}

// selectWinners keeps every match tied for the global maximum score.
// Ties are real: two phrases can sound identical, and both regions
// deserve replacement.
func selectWinners(matches []match) []match {
	if len(matches) == 0 {
		return nil
	}
	best := math.Inf(-1)
	for _, m := range matches {
		if m.score > best {
			best = m.score
		}
	}
	var winners []match
	for _, m := range matches {
		if m.score == best {
			winners = append(winners, m)
		}
	}
	return winners
}

// resolveOverlaps greedily accepts non-overlapping matches. Sorting by
// start ascending then end descending makes the choice deterministic:
// at equal starts the longer region wins.
func resolveOverlaps(winners []match) []match {
	sorted := make([]match, len(winners))
	copy(sorted, winners)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].graphemeStart != sorted[j].graphemeStart {
			return sorted[i].graphemeStart < sorted[j].graphemeStart
		}
		return sorted[i].graphemeEnd > sorted[j].graphemeEnd
	})

	var accepted []match
	currentEnd := -1
	for _, m := range sorted {
		if m.graphemeStart >= currentEnd {
			accepted = append(accepted, m)
			currentEnd = m.graphemeEnd
		}
	}
	return accepted
}

// splice rebuilds text with each accepted match's phrase written over
// its grapheme range. Matches must be sorted and non-overlapping.
func splice(text string, accepted []match) string {
	if len(accepted) == 0 {
		return text
	}
	var b strings.Builder
	cursor := 0
	for _, m := range accepted {
		b.WriteString(text[cursor:m.graphemeStart])
		b.WriteString(m.phrase)
		cursor = m.graphemeEnd
	}
	b.WriteString(text[cursor:])
	return b.String()
}
