package param

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicateID is returned when a parameter ID is registered twice.
var ErrDuplicateID = errors.New("duplicate parameter id")

// Registry manages plugin parameters
type Registry struct {
	params map[string]*Parameter
	order  []string // Maintain order for indexed access
	mu     sync.RWMutex
}

// NewRegistry creates a new parameter registry
func NewRegistry() *Registry {
	return &Registry{
		params: make(map[string]*Parameter),
		order:  make([]string, 0),
	}
}

// Add registers new parameters. Nothing is added if any ID is empty or
// already taken.
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if p.ID == "" {
			return fmt.Errorf("parameter %q: empty id", p.Name)
		}
		if _, exists := r.params[p.ID]; exists || seen[p.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = true
	}

	for _, p := range params {
		r.params[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return nil
}

// Get retrieves a parameter by ID
func (r *Registry) Get(id string) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.params[id]
}

// GetByIndex retrieves a parameter by index
func (r *Registry) GetByIndex(index int) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.order) {
		return nil
	}
	return r.params[r.order[index]]
}

// Count returns the number of parameters
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// All returns all parameters in order
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		result[i] = r.params[id]
	}
	return result
}

// Reset returns every parameter to its default value.
func (r *Registry) Reset(origin any) {
	for _, p := range r.All() {
		p.SetValueFrom(p.DefaultValue, origin)
	}
}
