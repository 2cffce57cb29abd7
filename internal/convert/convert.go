// Package convert turns mixed-script text into phonetic form and builds
// the grapheme/phoneme dual representation.
//
// The pipeline tokenizes input with [tokenize.Split] and converts each
// segment through the configured [phoneticize.Phoneticizer]:
//
//   - Ideographic segments are phoneticized one character at a time, so
//     span projection can later select a sub-run of ideographs at
//     character granularity.
//   - Alphabetic segments are phoneticized as whole words, except that an
//     all-uppercase multi-letter token is spelled out letter by letter and
//     joined with single spaces, modelling acronym pronunciation.
//   - Other segments contribute no phonetic units, unless numeral
//     expansion is enabled: embedded numeral literals are then expanded to
//     words via the [numexpand.Expander] and phoneticized through the
//     Chinese or Latin path depending on the configured language tag.
//
// Normalization (tone marks, stress marks, punctuation, whitespace) is
// applied per phonetic unit according to [Options]. A unit whose phonetic
// form becomes empty after normalization is dropped from the dual
// representation entirely; the grapheme text always remains the untouched
// input.
package convert

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/MrWong99/phonofix/internal/gp"
	"github.com/MrWong99/phonofix/internal/tokenize"
	"github.com/MrWong99/phonofix/pkg/provider/numexpand"
	"github.com/MrWong99/phonofix/pkg/provider/phoneticize"
)

// stressMarks are the IPA primary and secondary stress markers.
const stressMarks = "ˈˌ"

// toneMarks are superscript tone digits and the tone-letter set.
const toneMarks = "012345˥˦˧˨˩"

// numberRe matches a numeral literal: optionally signed, with optional
// thousands separators and an optional decimal fraction. Grouped forms are
// listed first so "1,024" is not consumed as "1".
var numberRe = regexp.MustCompile(`[-+]?\d{1,3}(?:,\d{3})+(?:\.\d+)?|[-+]?\d+(?:\.\d+)?`)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Options control per-unit normalization and numeral expansion.
type Options struct {
	// RemoveToneMarks strips tone digits and tone letters from phonetic
	// units.
	RemoveToneMarks bool

	// RemoveStressMarks strips primary and secondary stress markers.
	RemoveStressMarks bool

	// StripWhitespace removes all whitespace from the phonetic output.
	StripWhitespace bool

	// RemovePunctuation strips characters in the Unicode punctuation
	// category from the output.
	RemovePunctuation bool

	// NumberLang is the language tag for numeral expansion (e.g. "en",
	// "zh_CN"). Empty disables expansion: numerals pass through as plain
	// literal text with no phonetic unit.
	NumberLang string
}

// Converter maps text to phonetic form. It is read-only after construction
// and safe for concurrent use.
type Converter struct {
	phon phoneticize.Phoneticizer
	num  numexpand.Expander
	opts Options
}

// New builds a Converter. A nil phoneticizer is a configuration error, as
// is setting Options.NumberLang without providing an expander; numeral
// handling must be decided at construction, not discovered mid-sentence.
func New(phon phoneticize.Phoneticizer, num numexpand.Expander, opts Options) (*Converter, error) {
	if phon == nil {
		return nil, errors.New("convert: phoneticizer is required")
	}
	if opts.NumberLang != "" && num == nil {
		return nil, fmt.Errorf("convert: number language %q configured without an expander", opts.NumberLang)
	}
	return &Converter{phon: phon, num: num, opts: opts}, nil
}

// chineseNumbers reports whether numeral expansion produces hanzi output.
func (c *Converter) chineseNumbers() bool {
	return strings.HasPrefix(strings.ToLower(c.opts.NumberLang), "zh")
}

// Convert returns the phonetic form of text as a plain string. Non-phonetic
// runs pass through literally, minus punctuation stripping when enabled.
func (c *Converter) Convert(text string) (string, error) {
	if text == "" {
		return "", nil
	}

	var b strings.Builder
	for _, seg := range tokenize.Split(text) {
		switch seg.Class {
		case tokenize.Ideographic:
			value, err := c.phon.Phoneticize(seg.Text, phoneticize.ScriptHan)
			if err != nil {
				return "", fmt.Errorf("convert: phoneticize %q: %w", seg.Text, err)
			}
			b.WriteString(c.applyMarkerOptions(value))

		case tokenize.Alphabetic:
			value, err := c.convertAlphabetic(seg.Text)
			if err != nil {
				return "", err
			}
			b.WriteString(c.applyMarkerOptions(value))

		default:
			if err := c.convertOtherPlain(&b, seg.Text); err != nil {
				return "", err
			}
		}
	}

	out := b.String()
	if c.opts.StripWhitespace {
		out = whitespaceRe.ReplaceAllString(out, "")
	}
	return out, nil
}

// convertOtherPlain writes an Other segment to b, expanding numeral
// literals when enabled and passing the remainder through.
func (c *Converter) convertOtherPlain(b *strings.Builder, raw string) error {
	writeLiteral := func(s string) {
		if c.opts.RemovePunctuation {
			s = stripPunctuation(s)
		}
		b.WriteString(s)
	}

	if c.opts.NumberLang == "" {
		writeLiteral(raw)
		return nil
	}

	last := 0
	for _, loc := range numberRe.FindAllStringIndex(raw, -1) {
		writeLiteral(raw[last:loc[0]])
		value, err := c.expandNumber(raw[loc[0]:loc[1]])
		if err != nil {
			return err
		}
		b.WriteString(c.applyMarkerOptions(value))
		last = loc[1]
	}
	writeLiteral(raw[last:])
	return nil
}

// ToGraphemePhoneme converts text into the full dual representation.
// Units whose phonetic form normalizes to empty are skipped; the returned
// value's GraphemeText always equals text.
func (c *Converter) ToGraphemePhoneme(text string) (*gp.GraphemePhoneme, error) {
	var (
		graphemeUnits []string
		phonemeUnits  []string
		graphemeSpans []gp.Span
	)

	appendUnit := func(grapheme string, span gp.Span, phonetic string) {
		normalized := c.normalizeUnit(phonetic)
		if normalized == "" {
			return
		}
		graphemeUnits = append(graphemeUnits, grapheme)
		phonemeUnits = append(phonemeUnits, normalized)
		graphemeSpans = append(graphemeSpans, span)
	}

	for _, seg := range tokenize.Split(text) {
		switch seg.Class {
		case tokenize.Ideographic:
			offset := seg.Start
			for _, r := range seg.Text {
				ch := string(r)
				value, err := c.phon.Phoneticize(ch, phoneticize.ScriptHan)
				if err != nil {
					return nil, fmt.Errorf("convert: phoneticize %q: %w", ch, err)
				}
				appendUnit(ch, gp.Span{Start: offset, End: offset + len(ch)}, value)
				offset += len(ch)
			}

		case tokenize.Alphabetic:
			value, err := c.convertAlphabetic(seg.Text)
			if err != nil {
				return nil, err
			}
			appendUnit(seg.Text, gp.Span{Start: seg.Start, End: seg.End}, value)

		default:
			if c.opts.NumberLang == "" {
				continue
			}
			for _, loc := range numberRe.FindAllStringIndex(seg.Text, -1) {
				literal := seg.Text[loc[0]:loc[1]]
				value, err := c.expandNumber(literal)
				if err != nil {
					return nil, err
				}
				span := gp.Span{Start: seg.Start + loc[0], End: seg.Start + loc[1]}
				appendUnit(literal, span, value)
			}
		}
	}

	return gp.New(text, graphemeUnits, phonemeUnits, graphemeSpans)
}

// convertAlphabetic phoneticizes a Latin word. An all-uppercase token of
// two or more letters is treated as an acronym: each letter is
// phoneticized on its own and the results are joined with single spaces.
func (c *Converter) convertAlphabetic(token string) (string, error) {
	if !isAcronym(token) {
		value, err := c.phon.Phoneticize(token, phoneticize.ScriptLatin)
		if err != nil {
			return "", fmt.Errorf("convert: phoneticize %q: %w", token, err)
		}
		return value, nil
	}

	letters := make([]string, 0, len(token))
	for _, r := range token {
		value, err := c.phon.Phoneticize(string(r), phoneticize.ScriptLatin)
		if err != nil {
			return "", fmt.Errorf("convert: phoneticize %q: %w", string(r), err)
		}
		if value = strings.TrimSpace(value); value != "" {
			letters = append(letters, value)
		}
	}
	return strings.Join(letters, " "), nil
}

// expandNumber expands a numeral literal to words and phoneticizes them
// through the path matching the configured language.
func (c *Converter) expandNumber(literal string) (string, error) {
	words, err := c.num.Expand(literal, c.opts.NumberLang)
	if err != nil {
		return "", fmt.Errorf("convert: expand %q: %w", literal, err)
	}

	if c.chineseNumbers() {
		value, err := c.phon.Phoneticize(words, phoneticize.ScriptHan)
		if err != nil {
			return "", fmt.Errorf("convert: phoneticize %q: %w", words, err)
		}
		return value, nil
	}

	// Word-by-word through the Latin path; hyphenated compounds like
	// "sixty-one" are split so letter rules see plain words.
	fields := strings.FieldsFunc(words, func(r rune) bool {
		return r == ' ' || r == '-'
	})
	parts := make([]string, 0, len(fields))
	for _, w := range fields {
		value, err := c.phon.Phoneticize(w, phoneticize.ScriptLatin)
		if err != nil {
			return "", fmt.Errorf("convert: phoneticize %q: %w", w, err)
		}
		if value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, " "), nil
}

// applyMarkerOptions strips stress and tone markers per Options. Used on
// phonetic values in the plain-string path.
func (c *Converter) applyMarkerOptions(value string) string {
	if c.opts.RemoveStressMarks {
		value = strings.Map(dropRunesIn(stressMarks), value)
	}
	if c.opts.RemoveToneMarks {
		value = strings.Map(dropRunesIn(toneMarks), value)
	}
	return value
}

// normalizeUnit applies every configured normalization to a phonetic unit
// destined for the dual representation. Whitespace is removed per unit
// here rather than on the final string, so phoneme spans stay exact.
func (c *Converter) normalizeUnit(value string) string {
	value = c.applyMarkerOptions(value)
	if c.opts.RemovePunctuation {
		value = stripPunctuation(value)
	}
	if c.opts.StripWhitespace {
		value = whitespaceRe.ReplaceAllString(value, "")
	}
	return value
}

// isAcronym reports whether token is an all-uppercase run of two or more
// letters.
func isAcronym(token string) bool {
	runes := []rune(token)
	if len(runes) < 2 {
		return false
	}
	for _, r := range runes {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// dropRunesIn returns a strings.Map function that deletes runes in set.
func dropRunesIn(set string) func(rune) rune {
	return func(r rune) rune {
		if strings.ContainsRune(set, r) {
			return -1
		}
		return r
	}
}

// stripPunctuation removes all characters in the Unicode punctuation
// category.
func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, s)
}
