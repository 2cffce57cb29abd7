// Package enrule implements the [phoneticize.Phoneticizer] interface for
// English using grapheme-to-phoneme letter rules.
//
// This is a dictionary-free approximation: common digraphs are mapped to
// IPA first, then remaining letters one at a time. It is intentionally
// crude; the correction engine compares two strings produced by the same
// rules, so systematic bias cancels out. Single letters are rendered as
// their spoken letter names ("n" → "ɛn"), which is what the converter's
// acronym spell-out path relies on.
package enrule

import (
	"fmt"
	"strings"

	"github.com/MrWong99/phonofix/pkg/provider/phoneticize"
)

// Provider converts English words to approximate IPA. It is stateless and
// safe for concurrent use.
type Provider struct{}

var _ phoneticize.Phoneticizer = (*Provider)(nil)

// New returns a rule-based English phoneticizer.
func New() *Provider { return &Provider{} }

// letterNames maps a single letter to its spoken name in IPA.
var letterNames = map[string]string{
	"a": "eɪ", "b": "bi", "c": "si", "d": "di", "e": "i",
	"f": "ɛf", "g": "dʒi", "h": "eɪtʃ", "i": "aɪ", "j": "dʒeɪ",
	"k": "keɪ", "l": "ɛl", "m": "ɛm", "n": "ɛn", "o": "oʊ",
	"p": "pi", "q": "kju", "r": "ɑr", "s": "ɛs", "t": "ti",
	"u": "ju", "v": "vi", "w": "dʌbəlju", "x": "ɛks", "y": "waɪ",
	"z": "zi",
}

// digraphs maps two-letter grapheme clusters to IPA. Checked before the
// single-letter table, longest-first at each position.
var digraphs = map[string]string{
	"ch": "tʃ", "sh": "ʃ", "th": "θ", "ph": "f", "wh": "w",
	"ng": "ŋ", "ck": "k", "qu": "kw", "gh": "g",
	"ee": "i", "oo": "u", "ea": "i", "ou": "aʊ", "ow": "aʊ",
	"ai": "eɪ", "ay": "eɪ", "oa": "oʊ", "oi": "ɔɪ", "oy": "ɔɪ",
	"au": "ɔ", "aw": "ɔ",
}

// letters maps a single letter to its most common IPA value.
var letters = map[byte]string{
	'a': "æ", 'b': "b", 'c': "k", 'd': "d", 'e': "ɛ",
	'f': "f", 'g': "g", 'h': "h", 'i': "ɪ", 'j': "dʒ",
	'k': "k", 'l': "l", 'm': "m", 'n': "n", 'o': "ɑ",
	'p': "p", 'q': "k", 'r': "r", 's': "s", 't': "t",
	'u': "ʌ", 'v': "v", 'w': "w", 'x': "ks", 'y': "j",
	'z': "z",
}

// Phoneticize converts an English unit to approximate IPA. A single letter
// becomes its letter name; longer words go through the digraph and letter
// rules. Only [phoneticize.ScriptLatin] units are supported.
func (p *Provider) Phoneticize(unit string, script phoneticize.Script) (string, error) {
	if script != phoneticize.ScriptLatin {
		return "", fmt.Errorf("enrule: unsupported script %v", script)
	}

	lower := strings.ToLower(unit)
	if name, ok := letterNames[lower]; ok && len(lower) == 1 {
		return name, nil
	}

	var b strings.Builder
	i := 0
	for i < len(lower) {
		if i+2 <= len(lower) {
			if ipa, ok := digraphs[lower[i:i+2]]; ok {
				b.WriteString(ipa)
				i += 2
				continue
			}
		}
		if ipa, ok := letters[lower[i]]; ok {
			b.WriteString(ipa)
		}
		// Non-letter bytes (apostrophes, hyphens inside a unit) are skipped.
		i++
	}

	// Trailing silent e: "name" → "næm" rather than "næmɛ".
	out := b.String()
	if len(lower) > 2 && strings.HasSuffix(lower, "e") && !strings.HasSuffix(lower, "ee") {
		out = strings.TrimSuffix(out, "ɛ")
	}
	return out, nil
}
