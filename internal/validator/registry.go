package validator

import "fmt"

// Registry holds checks in registration order. The runner executes them in
// that order; checks must not depend on each other's outputs.
type Registry struct {
	checks []Check
	byName map[string]Check
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Check)}
}

// Register appends a check. Duplicate names are a programming error.
func (r *Registry) Register(c Check) error {
	if _, exists := r.byName[c.Name()]; exists {
		return fmt.Errorf("check %q already registered", c.Name())
	}
	r.checks = append(r.checks, c)
	r.byName[c.Name()] = c
	return nil
}

// MustRegister is Register for wiring code.
func (r *Registry) MustRegister(c Check) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Get returns the check with the given name.
func (r *Registry) Get(name string) (Check, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// All returns the checks in registration order.
func (r *Registry) All() []Check {
	return append([]Check(nil), r.checks...)
}

// Names returns the registered check names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.checks))
	for i, c := range r.checks {
		names[i] = c.Name()
	}
	return names
}
