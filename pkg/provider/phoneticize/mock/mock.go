// Package mock provides a test double for the phoneticize package.
//
// Use Phoneticizer with a Fn to script conversions, or leave Fn nil to get
// the default echo behaviour ("latin(x)" / "han(x)"), which keeps phonetic
// strings readable in test failures.
package mock

import (
	"sync"

	"github.com/MrWong99/phonofix/pkg/provider/phoneticize"
)

// Call records a single invocation of Phoneticizer.Phoneticize.
type Call struct {
	Unit   string
	Script phoneticize.Script
}

// Phoneticizer is a mock implementation of phoneticize.Phoneticizer.
type Phoneticizer struct {
	mu sync.Mutex

	// Fn, if non-nil, computes the result of Phoneticize.
	Fn func(unit string, script phoneticize.Script) (string, error)

	// Err, if non-nil, is returned by every Phoneticize call (Fn is ignored).
	Err error

	// Calls records every invocation in order.
	Calls []Call
}

var _ phoneticize.Phoneticizer = (*Phoneticizer)(nil)

// Phoneticize records the call and returns the scripted result.
func (p *Phoneticizer) Phoneticize(unit string, script phoneticize.Script) (string, error) {
	p.mu.Lock()
	p.Calls = append(p.Calls, Call{Unit: unit, Script: script})
	p.mu.Unlock()

	if p.Err != nil {
		return "", p.Err
	}
	if p.Fn != nil {
		return p.Fn(unit, script)
	}
	return script.String() + "(" + unit + ")", nil
}

// CallCount returns the number of recorded calls.
func (p *Phoneticizer) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Calls)
}
