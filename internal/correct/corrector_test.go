package correct_test

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/MrWong99/phonofix/internal/convert"
	"github.com/MrWong99/phonofix/internal/correct"
	"github.com/MrWong99/phonofix/internal/lexicon"
	"github.com/MrWong99/phonofix/pkg/provider/align"
	alignmock "github.com/MrWong99/phonofix/pkg/provider/align/mock"
	"github.com/MrWong99/phonofix/pkg/provider/phoneticize"
	phonmock "github.com/MrWong99/phonofix/pkg/provider/phoneticize/mock"
)

// readings is the phonetic table used by every corrector test. The
// sentence "你好 hello world" comes out as "ni3hao3helowrld" with phoneme
// spans [0,3) [3,7) [7,11) [11,15).
var readings = map[string]string{
	"你":     "ni3",
	"好":     "hao3",
	"号":     "hao4",
	"hello": "helo",
	"world": "wrld",
	"halo":  "helo",
	"wrold": "wrld",
	"hallo": "hela",
	"hullo": "hulo",
	"mmmm":  "mmmm",
}

func newLexicon(t *testing.T, phrases ...string) *lexicon.Lexicon {
	t.Helper()
	phon := &phonmock.Phoneticizer{
		Fn: func(unit string, script phoneticize.Script) (string, error) {
			if v, ok := readings[unit]; ok {
				return v, nil
			}
			return unit, nil
		},
	}
	conv, err := convert.New(phon, nil, convert.Options{})
	if err != nil {
		t.Fatalf("convert.New returned error: %v", err)
	}
	lex := lexicon.New(conv)
	if err := lex.AddPhrases(phrases...); err != nil {
		t.Fatalf("AddPhrases returned error: %v", err)
	}
	return lex
}

func newCorrector(t *testing.T, lex *lexicon.Lexicon, oracle align.Oracle, opts ...correct.Option) *correct.Corrector {
	t.Helper()
	la, err := correct.NewLocalAligner(oracle)
	if err != nil {
		t.Fatalf("NewLocalAligner returned error: %v", err)
	}
	c, err := correct.NewCorrector(lex, la, opts...)
	if err != nil {
		t.Fatalf("NewCorrector returned error: %v", err)
	}
	return c
}

func TestNewCorrector_Validation(t *testing.T) {
	t.Parallel()

	lex := newLexicon(t)
	la, err := correct.NewLocalAligner(&alignmock.Oracle{})
	if err != nil {
		t.Fatalf("NewLocalAligner returned error: %v", err)
	}

	if _, err := correct.NewCorrector(nil, la); err == nil {
		t.Error("NewCorrector(nil lexicon) = nil error, want configuration error")
	}
	if _, err := correct.NewCorrector(lex, nil); err == nil {
		t.Error("NewCorrector(nil aligner) = nil error, want configuration error")
	}
	if _, err := correct.NewCorrector(lex, la, correct.WithWorkers(-1)); err == nil {
		t.Error("NewCorrector(workers -1) = nil error, want configuration error")
	}
	if _, err := correct.NewCorrector(lex, la, correct.WithThreshold(math.NaN())); err == nil {
		t.Error("NewCorrector(NaN threshold) = nil error, want configuration error")
	}
}

func TestCorrect_NoWork(t *testing.T) {
	t.Parallel()

	oracle := &alignmock.Oracle{}
	c := newCorrector(t, newLexicon(t, "你号halo"), oracle)
	ctx := context.Background()

	for _, text := range []string{"", "   "} {
		got, err := c.Correct(ctx, text)
		if err != nil {
			t.Fatalf("Correct(%q) returned error: %v", text, err)
		}
		if got != text {
			t.Errorf("Correct(%q) = %q, want input unchanged", text, got)
		}
	}

	// Punctuation-only input produces no phonetic units.
	got, err := c.Correct(ctx, "?!?")
	if err != nil {
		t.Fatalf("Correct returned error: %v", err)
	}
	if got != "?!?" {
		t.Errorf("Correct(%q) = %q, want input unchanged", "?!?", got)
	}

	empty := newCorrector(t, newLexicon(t), oracle)
	got, err = empty.Correct(ctx, "hello world")
	if err != nil {
		t.Fatalf("Correct with empty lexicon returned error: %v", err)
	}
	if got != "hello world" {
		t.Errorf("Correct with empty lexicon = %q, want input unchanged", got)
	}

	if n := oracle.CallCount(); n != 0 {
		t.Errorf("oracle called %d times, want 0", n)
	}
}

func TestCorrect_ReplacesMatchedRegion(t *testing.T) {
	t.Parallel()

	oracle := &alignmock.Oracle{Results: map[string]align.Result{
		// "你号halo" phoneticizes to "ni3hao4helo" and covers the
		// "ni3hao3helo" prefix of the sentence.
		"ni3hao4helo": {
			Score:          0.9,
			SentenceTokens: []string{"ni3hao3helo", "wrld"},
			QueryTokens:    []string{"ni3hao4helo", "-"},
		},
	}}
	c := newCorrector(t, newLexicon(t, "你号halo"), oracle)

	got, err := c.Correct(context.Background(), "你好 hello world")
	if err != nil {
		t.Fatalf("Correct returned error: %v", err)
	}
	if want := "你号halo world"; got != want {
		t.Errorf("Correct = %q, want %q", got, want)
	}
}

func TestCorrect_ReplacesInteriorRegion(t *testing.T) {
	t.Parallel()

	// "号halo" covers only "好 hello" in the middle of the sentence; the
	// weaker "你号" clears the threshold but loses to the maximum.
	oracle := &alignmock.Oracle{Results: map[string]align.Result{
		"hao4helo": {
			Score:          0.9,
			SentenceTokens: []string{"ni3", "hao3helo", "wrld"},
			QueryTokens:    []string{"-", "hao4helo", "-"},
		},
		"ni3hao4": {
			Score:          0.5,
			SentenceTokens: []string{"ni3hao3", "helowrld"},
			QueryTokens:    []string{"ni3hao4", "-"},
		},
	}}
	c := newCorrector(t, newLexicon(t, "号halo", "你号"), oracle,
		correct.WithThreshold(0.4))

	got, err := c.Correct(context.Background(), "你好 hello world")
	if err != nil {
		t.Fatalf("Correct returned error: %v", err)
	}
	if want := "你号halo world"; got != want {
		t.Errorf("Correct = %q, want %q", got, want)
	}
}

func TestCorrect_ThresholdBoundary(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name  string
		score float64
		want  string
	}{
		{"score at threshold is kept", 0.5, "你号halo world"},
		{"score below threshold is dropped", 0.499, "你好 hello world"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			oracle := &alignmock.Oracle{Results: map[string]align.Result{
				"ni3hao4helo": {
					Score:          tt.score,
					SentenceTokens: []string{"ni3hao3helo", "wrld"},
					QueryTokens:    []string{"ni3hao4helo", "-"},
				},
			}}
			c := newCorrector(t, newLexicon(t, "你号halo"), oracle)

			got, err := c.Correct(context.Background(), "你好 hello world")
			if err != nil {
				t.Fatalf("Correct returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Correct = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCorrect_KeepsAllTopTies(t *testing.T) {
	t.Parallel()

	// Two entries tie at the top score over disjoint regions; a third
	// clears the threshold but loses to the maximum and must not apply.
	oracle := &alignmock.Oracle{Results: map[string]align.Result{
		"ni3hao4": {
			Score:          0.9,
			SentenceTokens: []string{"ni3hao3", "helowrld"},
			QueryTokens:    []string{"ni3hao4", "-"},
		},
		"wrld": {
			Score:          0.9,
			SentenceTokens: []string{"ni3hao3helo", "wrld"},
			QueryTokens:    []string{"-", "wrld"},
		},
		"hela": {
			Score:          0.7,
			SentenceTokens: []string{"ni3hao3", "helo", "wrld"},
			QueryTokens:    []string{"-", "hela", "-"},
		},
	}}
	c := newCorrector(t, newLexicon(t, "你号", "wrold", "hallo"), oracle)

	got, err := c.Correct(context.Background(), "你好 hello world")
	if err != nil {
		t.Fatalf("Correct returned error: %v", err)
	}
	if want := "你号 hello wrold"; got != want {
		t.Errorf("Correct = %q, want %q", got, want)
	}
}

func TestCorrect_OverlapPrefersEarlierLonger(t *testing.T) {
	t.Parallel()

	// Both entries tie at 0.9 but their grapheme regions collide: the
	// prefix entry starts earlier and must win the whole region.
	oracle := &alignmock.Oracle{Results: map[string]align.Result{
		"ni3hao4helo": {
			Score:          0.9,
			SentenceTokens: []string{"ni3hao3helo", "wrld"},
			QueryTokens:    []string{"ni3hao4helo", "-"},
		},
		"hulo": {
			Score:          0.9,
			SentenceTokens: []string{"ni3hao3", "helo", "wrld"},
			QueryTokens:    []string{"-", "hulo", "-"},
		},
	}}
	c := newCorrector(t, newLexicon(t, "你号halo", "hullo"), oracle)

	got, err := c.Correct(context.Background(), "你好 hello world")
	if err != nil {
		t.Fatalf("Correct returned error: %v", err)
	}
	if want := "你号halo world"; got != want {
		t.Errorf("Correct = %q, want %q", got, want)
	}
}

// TestCorrect_ConcurrentFanOut proves entries are aligned in parallel:
// every Align call blocks on a barrier sized to the worker count, so the
// test only finishes if all three run at once.
func TestCorrect_ConcurrentFanOut(t *testing.T) {
	t.Parallel()

	var barrier sync.WaitGroup
	barrier.Add(3)
	oracle := &alignmock.Oracle{
		OnAlign: func(sentence, query string) {
			barrier.Done()
			barrier.Wait()
		},
	}
	c := newCorrector(t, newLexicon(t, "你号", "wrold", "hallo"), oracle,
		correct.WithWorkers(3))

	got, err := c.Correct(context.Background(), "你好 hello world")
	if err != nil {
		t.Fatalf("Correct returned error: %v", err)
	}
	if got != "你好 hello world" {
		t.Errorf("Correct = %q, want input unchanged", got)
	}
	if n := oracle.CallCount(); n != 3 {
		t.Errorf("oracle called %d times, want 3", n)
	}
}

func TestCorrect_PrefilterSkipsUnrelatedEntries(t *testing.T) {
	t.Parallel()

	oracle := &alignmock.Oracle{}
	c := newCorrector(t, newLexicon(t, "mmmm", "hallo"), oracle,
		correct.WithPrefilter(true))

	got, err := c.Correct(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Correct returned error: %v", err)
	}
	if got != "hello world" {
		t.Errorf("Correct = %q, want input unchanged", got)
	}
	if n := oracle.CallCount(); n != 1 {
		t.Fatalf("oracle called %d times, want 1 (unrelated entry skipped)", n)
	}
	if q := oracle.Calls[0].Query; q != "hela" {
		t.Errorf("aligned query = %q, want %q", q, "hela")
	}
}

func TestCorrect_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newCorrector(t, newLexicon(t, "你号halo"), &alignmock.Oracle{})
	if _, err := c.Correct(ctx, "你好 hello world"); err == nil {
		t.Error("Correct with cancelled context = nil error, want context error")
	}
}
