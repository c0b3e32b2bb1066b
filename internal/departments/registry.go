package departments

import (
	"errors"
	"fmt"
)

// ErrUnknownDepartment is returned when a division id is not
// registered.
var ErrUnknownDepartment = errors.New("unknown department")

// Registry is the explicit owner of the division roster. Divisions are
// addressed by stable id and iterated in registration order; there is
// no ambient global registry.
type Registry struct {
	divisions map[string]*Department
	order     []string
}

func NewRegistry() *Registry {
	return &Registry{divisions: make(map[string]*Department)}
}

// Register adds a division. Registering a duplicate id is a programmer
// error.
func (r *Registry) Register(d *Department) error {
	if _, ok := r.divisions[d.ID]; ok {
		return fmt.Errorf("register %s: already registered", d.ID)
	}
	r.divisions[d.ID] = d
	r.order = append(r.order, d.ID)
	return nil
}

func (r *Registry) Get(id string) (*Department, error) {
	d, ok := r.divisions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDepartment, id)
	}
	return d, nil
}

func (r *Registry) Has(id string) bool {
	_, ok := r.divisions[id]
	return ok
}

// IDs returns division ids in registration order. The round loop
// processes queues in exactly this order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int { return len(r.order) }
