package correct

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/MrWong99/phonofix/internal/gp"
)

// jaroWinklerFloor is the fallback similarity below which an entry is
// skipped when its metaphone codes share nothing with the sentence.
const jaroWinklerFloor = 0.45

// prefilter is a cheap pre-alignment gate: an entry whose phoneme units
// share no Double Metaphone code with the sentence, and whose phoneme
// text is not even vaguely similar, is unlikely to produce a useful
// alignment, so the expensive call is skipped. The gate is a heuristic
// and may drop a borderline entry, which is why it is opt-in; any
// phonetic signal at all lets the entry through.
type prefilter struct {
	codes map[string]struct{}
	text  string
}

func newPrefilter(sentence *gp.GraphemePhoneme) *prefilter {
	pf := &prefilter{codes: make(map[string]struct{}), text: sentence.PhonemeText()}
	for _, unit := range sentence.PhonemeUnits() {
		for _, c := range metaphoneCodes(unit) {
			pf.codes[c] = struct{}{}
		}
	}
	return pf
}

// admit reports whether entry is worth aligning.
func (pf *prefilter) admit(entry *gp.GraphemePhoneme) bool {
	for _, unit := range entry.PhonemeUnits() {
		for _, c := range metaphoneCodes(unit) {
			if _, ok := pf.codes[c]; ok {
				return true
			}
		}
	}
	sim := matchr.JaroWinkler(pf.text, entry.PhonemeText(), true)
	return sim >= jaroWinklerFloor
}

func metaphoneCodes(unit string) []string {
	unit = strings.TrimSpace(unit)
	if unit == "" || !isASCIILetters(unit) {
		// Double Metaphone only speaks ASCII; IPA and tone-numbered
		// units get no code and fall through to the similarity check.
		return nil
	}
	primary, secondary := matchr.DoubleMetaphone(unit)
	var codes []string
	if primary != "" {
		codes = append(codes, primary)
	}
	if secondary != "" && secondary != primary {
		codes = append(codes, secondary)
	}
	return codes
}

func isASCIILetters(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
