// Package phoneticize defines the Phoneticizer capability: converting a
// single spelling unit (a word, an ideograph, a letter) into its phonetic
// string representation.
//
// Implementations wrap a language-specific grapheme-to-phoneme source, such
// as a pinyin table, a pronunciation dictionary, or a rule engine, behind one
// uniform method. The converter pipeline never branches on a concrete
// implementation type; it holds whatever [Phoneticizer] it was constructed
// with. Use [Router] to combine per-script implementations.
//
// Implementations must be deterministic (identical input yields identical
// output) and idempotent to call repeatedly, and must be safe for
// concurrent use.
package phoneticize

import "fmt"

// Script selects the conversion path for a unit.
type Script int

const (
	// ScriptLatin marks a unit made of Latin letters (a word or a single
	// letter of a spelled-out acronym).
	ScriptLatin Script = iota

	// ScriptHan marks a unit that is a single CJK ideograph or a run of
	// ideographs.
	ScriptHan
)

// String returns a human-readable name for the script.
func (s Script) String() string {
	switch s {
	case ScriptHan:
		return "han"
	default:
		return "latin"
	}
}

// Phoneticizer converts one spelling unit into its phonetic form.
type Phoneticizer interface {
	// Phoneticize returns the phonetic string for unit, which is written in
	// the given script. The result may contain stress marks, tone marks, and
	// whitespace; normalization is the caller's concern.
	Phoneticize(unit string, script Script) (string, error)
}

// Router dispatches units to a per-script [Phoneticizer]. It satisfies
// [Phoneticizer] itself, so a converter can be wired with independent Han
// and Latin backends.
type Router struct {
	// Han handles ScriptHan units.
	Han Phoneticizer

	// Latin handles ScriptLatin units.
	Latin Phoneticizer
}

var _ Phoneticizer = (*Router)(nil)

// Phoneticize forwards unit to the backend registered for script. A script
// with no registered backend is an error.
func (r *Router) Phoneticize(unit string, script Script) (string, error) {
	var p Phoneticizer
	switch script {
	case ScriptHan:
		p = r.Han
	case ScriptLatin:
		p = r.Latin
	}
	if p == nil {
		return "", fmt.Errorf("phoneticize: no backend registered for script %v", script)
	}
	return p.Phoneticize(unit, script)
}
