// Package numexpand defines the NumberExpander capability: spelling out a
// numeric literal as words in a target language.
//
// The converter pipeline scans non-phonetic text runs for numeral literals
// (optionally signed, with optional thousands separators and an optional
// decimal fraction) and hands each literal to an [Expander]; the resulting
// words are then phoneticized like regular text. When no expander is
// configured, numerals pass through as literal text with no phonetic unit.
//
// Implementations must be deterministic and safe for concurrent use.
package numexpand

// Expander spells a numeric literal out as words.
type Expander interface {
	// Expand converts literal (e.g. "361", "-12.5", "1,024") to words in
	// the language identified by the BCP-47-style tag (e.g. "en", "zh_CN").
	// Implementations may reject tags they do not cover.
	Expand(literal, lang string) (string, error)
}
