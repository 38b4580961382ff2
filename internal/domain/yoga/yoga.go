// Package yoga detects named planetary combinations through an extensible
// registry of (name, predicate, strength) definitions.
package yoga

import (
	"math"
	"sync"

	chart "github.com/samvat/rectify/internal/domain/chart"
)

// Match is one detected yoga and its strength.
type Match struct {
	Name     string  `json:"name"`
	Strength float64 `json:"strength"`
}

// Definition pairs a predicate with its strength function. Strength is
// only consulted when the predicate holds and must return a value in
// [0,1]; Detect clamps the returned value to that range.
type Definition struct {
	Name      string
	Predicate func(c chart.Chart) bool
	Strength  func(c chart.Chart) float64
}

// Registry holds an ordered set of yoga definitions. The zero value is
// empty; NewRegistry returns one pre-loaded with the standard definitions.
type Registry struct {
	mu   sync.RWMutex
	defs []Definition
}

// NewRegistry returns a registry loaded with the standard definitions.
func NewRegistry() *Registry {
	r := &Registry{}
	for _, d := range standardDefinitions() {
		r.Register(d)
	}
	return r
}

// Register appends a definition. Existing definitions are never touched;
// adding a yoga cannot change the behavior of another.
func (r *Registry) Register(d Definition) {
	if d.Name == "" || d.Predicate == nil || d.Strength == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs = append(r.defs, d)
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// Detect runs every definition against the chart, in registration order.
func (r *Registry) Detect(c chart.Chart) []Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Match
	for _, d := range r.defs {
		if !d.Predicate(c) {
			continue
		}
		s := d.Strength(c)
		out = append(out, Match{Name: d.Name, Strength: math.Max(0, math.Min(1, s))})
	}
	return out
}

// defaultRegistry serves package-level Detect.
var defaultRegistry = NewRegistry() //nolint:gochecknoglobals // shared immutable-after-init registry

// Detect runs the standard definitions against the chart.
func Detect(c chart.Chart) []Match {
	return defaultRegistry.Detect(c)
}
