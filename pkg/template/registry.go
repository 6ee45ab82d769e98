package template

import "fmt"

// Registry stores registered templates and assigns their ids.
//
// Registration deduplicates by name: the first template registered under a
// name wins, and later registrations under the same name are ignored even
// when structurally different. Registered ids start at 1; 0 means
// unregistered.
type Registry struct {
	templates []*Template // index = id - 1
	byName    map[string]uint32
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]uint32)}
}

// Register stores t and returns its assigned id. If a template with the
// same name is already registered, the existing id is returned and t is
// discarded.
func (r *Registry) Register(t *Template) uint32 {
	if id, ok := r.byName[t.Name]; ok {
		return id
	}
	id := uint32(len(r.templates)) + 1
	t.ID = id
	r.templates = append(r.templates, t)
	r.byName[t.Name] = id
	return id
}

// Get returns the template with the given id. It panics for an
// unregistered id; use Contains for ids of unknown provenance.
func (r *Registry) Get(id uint32) *Template {
	if !r.Contains(id) {
		panic(fmt.Sprintf("template: unregistered template id %d", id))
	}
	return r.templates[id-1]
}

// Contains reports whether id names a registered template.
func (r *Registry) Contains(id uint32) bool {
	return id >= 1 && int(id) <= len(r.templates)
}

// Lookup returns the id registered under name.
func (r *Registry) Lookup(name string) (uint32, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	return len(r.templates)
}
