package agent

import "fmt"

// Registry holds the agent definitions participating in one run, keyed by
// name. Registration order is irrelevant; Validate checks the handoff graph
// once all roles are present.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds a definition. Registering a duplicate or unnamed definition
// is an error.
func (r *Registry) Register(d *Definition) error {
	if d == nil || d.Name == "" {
		return fmt.Errorf("agent definition must have a name")
	}
	if _, exists := r.defs[d.Name]; exists {
		return fmt.Errorf("agent %q already registered", d.Name)
	}
	r.defs[d.Name] = d
	return nil
}

// Get returns the definition for name, or nil if unknown.
func (r *Registry) Get(name string) *Definition {
	return r.defs[name]
}

// Names returns the registered agent names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for n := range r.defs {
		names = append(names, n)
	}
	return names
}

// Validate checks that every declared handoff target resolves to a
// registered agent. A dangling target is a configuration bug and should fail
// before any model traffic is generated.
func (r *Registry) Validate() error {
	for name, d := range r.defs {
		for _, target := range d.Handoffs {
			if _, ok := r.defs[target]; !ok {
				return fmt.Errorf("agent %q declares handoff to unregistered agent %q", name, target)
			}
		}
	}
	return nil
}
