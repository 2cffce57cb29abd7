// Package mock provides a test double for the numexpand package.
package mock

import (
	"sync"

	"github.com/MrWong99/phonofix/pkg/provider/numexpand"
)

// Call records a single invocation of Expander.Expand.
type Call struct {
	Literal string
	Lang    string
}

// Expander is a mock implementation of numexpand.Expander. Responses maps
// a literal to the scripted words; unscripted literals echo back as
// "num(literal)".
type Expander struct {
	mu sync.Mutex

	// Responses maps numeric literals to their expanded words.
	Responses map[string]string

	// Err, if non-nil, is returned by every Expand call.
	Err error

	// Calls records every invocation in order.
	Calls []Call
}

var _ numexpand.Expander = (*Expander)(nil)

// Expand records the call and returns the scripted expansion.
func (e *Expander) Expand(literal, lang string) (string, error) {
	e.mu.Lock()
	e.Calls = append(e.Calls, Call{Literal: literal, Lang: lang})
	e.mu.Unlock()

	if e.Err != nil {
		return "", e.Err
	}
	if words, ok := e.Responses[literal]; ok {
		return words, nil
	}
	return "num(" + literal + ")", nil
}
