package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/galkin/internal/actionangle"
	"github.com/san-kum/galkin/internal/potential"
)

type Registry struct {
	potentials map[string]func() (potential.Potential, error)
	transforms map[string]func(pot potential.Potential, delta float64) (actionangle.Transform, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		potentials: make(map[string]func() (potential.Potential, error)),
		transforms: make(map[string]func(potential.Potential, float64) (actionangle.Transform, error)),
	}

	for _, name := range potential.Names() {
		r.potentials[name] = func() (potential.Potential, error) { return potential.ByName(name) }
	}
	for _, name := range actionangle.Names() {
		r.transforms[name] = func(pot potential.Potential, delta float64) (actionangle.Transform, error) {
			return actionangle.ByName(name, pot, delta)
		}
	}
	return r
}

// RegisterPotential adds or replaces a named potential.
func (r *Registry) RegisterPotential(name string, fn func() (potential.Potential, error)) {
	r.potentials[name] = fn
}

func (r *Registry) GetPotential(name string) (potential.Potential, error) {
	fn, ok := r.potentials[name]
	if !ok {
		return nil, fmt.Errorf("unknown potential: %s", name)
	}
	return fn()
}

func (r *Registry) GetTransform(name string, pot potential.Potential, delta float64) (actionangle.Transform, error) {
	fn, ok := r.transforms[name]
	if !ok {
		return nil, fmt.Errorf("unknown action-angle transform: %s", name)
	}
	return fn(pot, delta)
}

func (r *Registry) ListPotentials() []string {
	return sortedKeys(r.potentials)
}

func (r *Registry) ListTransforms() []string {
	return sortedKeys(r.transforms)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
