package convert_test

import (
	"strings"
	"testing"

	"github.com/MrWong99/phonofix/internal/convert"
	nummock "github.com/MrWong99/phonofix/pkg/provider/numexpand/mock"
	"github.com/MrWong99/phonofix/pkg/provider/phoneticize"
	phonmock "github.com/MrWong99/phonofix/pkg/provider/phoneticize/mock"
)

// echoPhon returns a mock phoneticizer with the default echo behaviour:
// "latin(x)" and "han(x)".
func echoPhon() *phonmock.Phoneticizer {
	return &phonmock.Phoneticizer{}
}

func mustConverter(t *testing.T, phon phoneticize.Phoneticizer, num *nummock.Expander, opts convert.Options) *convert.Converter {
	t.Helper()
	var c *convert.Converter
	var err error
	if num != nil {
		c, err = convert.New(phon, num, opts)
	} else {
		c, err = convert.New(phon, nil, opts)
	}
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return c
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	if _, err := convert.New(nil, nil, convert.Options{}); err == nil {
		t.Error("New(nil phoneticizer) = nil error, want configuration error")
	}
	if _, err := convert.New(echoPhon(), nil, convert.Options{NumberLang: "en"}); err == nil {
		t.Error("New(NumberLang without expander) = nil error, want configuration error")
	}
}

func TestConvert_MixedScripts(t *testing.T) {
	t.Parallel()

	c := mustConverter(t, echoPhon(), nil, convert.Options{})
	got, err := c.Convert("Hello 世界 NASA!")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	want := "latin(Hello) han(世界) latin(N) latin(A) latin(S) latin(A)!"
	if got != want {
		t.Errorf("Convert = %q, want %q", got, want)
	}
}

func TestConvert_MarkerStripping(t *testing.T) {
	t.Parallel()

	phon := &phonmock.Phoneticizer{
		Fn: func(unit string, script phoneticize.Script) (string, error) {
			if script == phoneticize.ScriptHan {
				return "pʰin1˥ ˈin2", nil
			}
			return "ˈɛn ˌoʊ1", nil
		},
	}
	c := mustConverter(t, phon, nil, convert.Options{
		RemoveToneMarks:   true,
		RemoveStressMarks: true,
		StripWhitespace:   true,
	})

	got, err := c.Convert("Hello 世界 !")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if got != "ɛnoʊpʰinin!" {
		t.Errorf("Convert = %q, want %q", got, "ɛnoʊpʰinin!")
	}
}

func TestConvert_RemovePunctuation(t *testing.T) {
	t.Parallel()

	c := mustConverter(t, echoPhon(), nil, convert.Options{RemovePunctuation: true})
	got, err := c.Convert("Hello， 世界！ NASA?")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	want := "latin(Hello) han(世界) latin(N) latin(A) latin(S) latin(A)"
	if got != want {
		t.Errorf("Convert = %q, want %q", got, want)
	}
}

func TestConvert_NumberExpansion(t *testing.T) {
	t.Parallel()

	num := &nummock.Expander{Responses: map[string]string{
		"361":  "three hundred sixty-one",
		"3.14": "three point one four",
	}}
	c := mustConverter(t, echoPhon(), num, convert.Options{NumberLang: "en"})

	got, err := c.Convert("Call 361 now.")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	want := "latin(Call) latin(three) latin(hundred) latin(sixty) latin(one) latin(now)."
	if got != want {
		t.Errorf("Convert = %q, want %q", got, want)
	}

	got, err = c.Convert("Pi is about 3.14.")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if !strings.Contains(got, "latin(point)") {
		t.Errorf("Convert = %q, want decimal expanded via %q", got, "latin(point)")
	}
}

func TestConvert_ChineseNumbers(t *testing.T) {
	t.Parallel()

	num := &nummock.Expander{Responses: map[string]string{"361": "三百六十一"}}
	c := mustConverter(t, echoPhon(), num, convert.Options{NumberLang: "zh_CN"})

	got, err := c.Convert("今天361")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if got != "han(今天)han(三百六十一)" {
		t.Errorf("Convert = %q, want %q", got, "han(今天)han(三百六十一)")
	}
}

func TestConvert_NumbersDisabledPassThrough(t *testing.T) {
	t.Parallel()

	c := mustConverter(t, echoPhon(), nil, convert.Options{})
	got, err := c.Convert("room 42")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if got != "latin(room) 42" {
		t.Errorf("Convert = %q, want %q", got, "latin(room) 42")
	}
}

func TestToGraphemePhoneme_UnitsAndSpans(t *testing.T) {
	t.Parallel()

	c := mustConverter(t, echoPhon(), nil, convert.Options{})
	text := "你好 hi"
	g, err := c.ToGraphemePhoneme(text)
	if err != nil {
		t.Fatalf("ToGraphemePhoneme returned error: %v", err)
	}

	if g.GraphemeText() != text {
		t.Errorf("GraphemeText=%q, want untouched input %q", g.GraphemeText(), text)
	}

	wantUnits := []string{"你", "好", "hi"}
	units := g.GraphemeUnits()
	if len(units) != len(wantUnits) {
		t.Fatalf("GraphemeUnits=%v, want %v", units, wantUnits)
	}
	for i := range wantUnits {
		if units[i] != wantUnits[i] {
			t.Errorf("unit %d = %q, want %q", i, units[i], wantUnits[i])
		}
	}

	// Each grapheme span must slice out its unit from the original text.
	spans := g.GraphemeSpans()
	for i, sp := range spans {
		if got := text[sp.Start:sp.End]; got != units[i] {
			t.Errorf("text[%d:%d]=%q, want unit %q", sp.Start, sp.End, got, units[i])
		}
	}

	if got := strings.Join(g.PhonemeUnits(), ""); got != g.PhonemeText() {
		t.Errorf("concat(PhonemeUnits)=%q, want %q", got, g.PhonemeText())
	}
}

// Per-character conversion of ideographs is what makes sub-run projection
// possible; a two-ideograph segment must yield two units.
func TestToGraphemePhoneme_PerIdeographUnits(t *testing.T) {
	t.Parallel()

	phon := echoPhon()
	c := mustConverter(t, phon, nil, convert.Options{})
	g, err := c.ToGraphemePhoneme("世界")
	if err != nil {
		t.Fatalf("ToGraphemePhoneme returned error: %v", err)
	}
	if g.Len() != 2 {
		t.Fatalf("Len=%d, want 2 (one unit per ideograph)", g.Len())
	}
	if got := g.PhonemeUnits()[0]; got != "han(世)" {
		t.Errorf("phoneme unit 0 = %q, want %q", got, "han(世)")
	}
}

func TestToGraphemePhoneme_AcronymSpellOut(t *testing.T) {
	t.Parallel()

	c := mustConverter(t, echoPhon(), nil, convert.Options{})
	g, err := c.ToGraphemePhoneme("NASA")
	if err != nil {
		t.Fatalf("ToGraphemePhoneme returned error: %v", err)
	}
	if g.Len() != 1 {
		t.Fatalf("Len=%d, want 1 (the acronym is one grapheme unit)", g.Len())
	}
	want := "latin(N) latin(A) latin(S) latin(A)"
	if got := g.PhonemeUnits()[0]; got != want {
		t.Errorf("phoneme unit = %q, want letters joined by single spaces %q", got, want)
	}
}

func TestToGraphemePhoneme_EmptyUnitsDropped(t *testing.T) {
	t.Parallel()

	// The phoneticizer yields only tone marks for 好, which normalization
	// removes entirely; the unit must vanish from the dual representation.
	phon := &phonmock.Phoneticizer{
		Fn: func(unit string, script phoneticize.Script) (string, error) {
			if unit == "好" {
				return "215", nil
			}
			return "x", nil
		},
	}
	c := mustConverter(t, phon, nil, convert.Options{RemoveToneMarks: true})

	text := "你好"
	g, err := c.ToGraphemePhoneme(text)
	if err != nil {
		t.Fatalf("ToGraphemePhoneme returned error: %v", err)
	}
	if g.Len() != 1 {
		t.Fatalf("Len=%d, want 1 (empty unit dropped)", g.Len())
	}
	if g.GraphemeText() != text {
		t.Errorf("GraphemeText=%q, want untouched %q", g.GraphemeText(), text)
	}
	if g.GraphemeUnits()[0] != "你" {
		t.Errorf("surviving unit = %q, want %q", g.GraphemeUnits()[0], "你")
	}
}

func TestToGraphemePhoneme_NumeralUnits(t *testing.T) {
	t.Parallel()

	num := &nummock.Expander{Responses: map[string]string{"42": "forty-two"}}
	c := mustConverter(t, echoPhon(), num, convert.Options{NumberLang: "en"})

	text := "room 42 ok"
	g, err := c.ToGraphemePhoneme(text)
	if err != nil {
		t.Fatalf("ToGraphemePhoneme returned error: %v", err)
	}

	units := g.GraphemeUnits()
	if len(units) != 3 {
		t.Fatalf("GraphemeUnits=%v, want [room 42 ok]", units)
	}
	if units[1] != "42" {
		t.Errorf("numeral unit = %q, want %q", units[1], "42")
	}
	spans := g.GraphemeSpans()
	if got := text[spans[1].Start:spans[1].End]; got != "42" {
		t.Errorf("numeral span slices %q, want %q", got, "42")
	}
	if got := g.PhonemeUnits()[1]; got != "latin(forty) latin(two)" {
		t.Errorf("numeral phoneme unit = %q, want %q", got, "latin(forty) latin(two)")
	}
}

func TestToGraphemePhoneme_Empty(t *testing.T) {
	t.Parallel()

	c := mustConverter(t, echoPhon(), nil, convert.Options{})
	g, err := c.ToGraphemePhoneme("")
	if err != nil {
		t.Fatalf("ToGraphemePhoneme returned error: %v", err)
	}
	if g.Len() != 0 || g.GraphemeText() != "" {
		t.Errorf("empty input produced %d units, grapheme %q", g.Len(), g.GraphemeText())
	}
}
