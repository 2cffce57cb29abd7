// Package mock provides a test double for the align package.
//
// Results are scripted per query string:
//
//	oracle := &mock.Oracle{Results: map[string]align.Result{
//	    "hɛloʊ": {Score: 0.9, SentenceTokens: ..., QueryTokens: ...},
//	}}
//
// Unscripted queries return a zero Result, which downstream code treats as
// "no match".
package mock

import (
	"sync"

	"github.com/MrWong99/phonofix/pkg/provider/align"
)

// Call records a single invocation of Oracle.Align.
type Call struct {
	Sentence string
	Query    string
}

// Oracle is a mock implementation of align.Oracle.
type Oracle struct {
	mu sync.Mutex

	// Results maps a query phonetic string to its scripted result.
	Results map[string]align.Result

	// Err, if non-nil, is returned by every Align call.
	Err error

	// OnAlign, if non-nil, is invoked at the start of every Align call.
	// Useful for asserting concurrency (e.g. with a sync.WaitGroup or
	// barrier channel).
	OnAlign func(sentence, query string)

	// Calls records every invocation.
	Calls []Call
}

var _ align.Oracle = (*Oracle)(nil)

// Align records the call and returns the scripted result for query.
func (o *Oracle) Align(sentence, query string) (align.Result, error) {
	if o.OnAlign != nil {
		o.OnAlign(sentence, query)
	}

	o.mu.Lock()
	o.Calls = append(o.Calls, Call{Sentence: sentence, Query: query})
	o.mu.Unlock()

	if o.Err != nil {
		return align.Result{}, o.Err
	}
	return o.Results[query], nil
}

// CallCount returns the number of recorded calls.
func (o *Oracle) CallCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.Calls)
}
