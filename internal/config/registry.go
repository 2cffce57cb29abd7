package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/MrWong99/phonofix/pkg/provider/align"
	"github.com/MrWong99/phonofix/pkg/provider/numexpand"
	"github.com/MrWong99/phonofix/pkg/provider/phoneticize"
)

// ErrProviderNotRegistered is returned by Create* methods when no factory has
// been registered under the requested provider name.
var ErrProviderNotRegistered = errors.New("config: provider not registered")

// Registry maps provider names to their constructor functions for each
// capability kind. It is safe for concurrent use.
type Registry struct {
	mu            sync.RWMutex
	phoneticizers map[string]func(ProviderEntry) (phoneticize.Phoneticizer, error)
	expanders     map[string]func(ProviderEntry) (numexpand.Expander, error)
	aligners      map[string]func(AlignerEntry) (align.Oracle, error)
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		phoneticizers: make(map[string]func(ProviderEntry) (phoneticize.Phoneticizer, error)),
		expanders:     make(map[string]func(ProviderEntry) (numexpand.Expander, error)),
		aligners:      make(map[string]func(AlignerEntry) (align.Oracle, error)),
	}
}

// RegisterPhoneticizer registers a phoneticizer factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) RegisterPhoneticizer(name string, factory func(ProviderEntry) (phoneticize.Phoneticizer, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phoneticizers[name] = factory
}

// RegisterExpander registers a numeral expander factory under name.
func (r *Registry) RegisterExpander(name string, factory func(ProviderEntry) (numexpand.Expander, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expanders[name] = factory
}

// RegisterAligner registers an alignment oracle factory under name.
func (r *Registry) RegisterAligner(name string, factory func(AlignerEntry) (align.Oracle, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aligners[name] = factory
}

// CreatePhoneticizer instantiates a phoneticizer using the factory registered
// under entry.Name. Returns [ErrProviderNotRegistered] if no factory has been
// registered for that name.
func (r *Registry) CreatePhoneticizer(entry ProviderEntry) (phoneticize.Phoneticizer, error) {
	r.mu.RLock()
	factory, ok := r.phoneticizers[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: phoneticizer/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}

// CreateExpander instantiates a numeral expander using the factory registered
// under entry.Name.
func (r *Registry) CreateExpander(entry ProviderEntry) (numexpand.Expander, error) {
	r.mu.RLock()
	factory, ok := r.expanders[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: expander/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}

// CreateAligner instantiates an alignment oracle using the factory registered
// under entry.Name.
func (r *Registry) CreateAligner(entry AlignerEntry) (align.Oracle, error) {
	r.mu.RLock()
	factory, ok := r.aligners[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: aligner/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}
