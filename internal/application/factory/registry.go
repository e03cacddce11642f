package factory

import (
	"errors"
	"fmt"
	"slices"

	"github.com/younwookim/timeloop/internal/domain/entity"
	"github.com/younwookim/timeloop/internal/ecs"
)

var (
	// ErrUnknownType is returned when no factory is registered for a type name.
	ErrUnknownType = errors.New("unknown entity type")
	// ErrDuplicateType is returned when a type name is registered twice.
	ErrDuplicateType = errors.New("duplicate entity type")
)

// AttachFunc runs after an entity's component has been stored, with the id
// that was just assigned. It adds whatever else the entity needs (visuals,
// trigger areas).
type AttachFunc func(w *ecs.World, id ecs.EntityID, d entity.EntityDescriptor)

type factoryFunc func(w *ecs.World, d entity.EntityDescriptor) ecs.EntityID

type entry struct {
	create factoryFunc
	attach AttachFunc
	fields []FieldInfo
}

// Registry maps entity type names to factories. It is filled once at
// startup and only read afterward.
type Registry struct {
	entries map[string]entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a factory for typeName. The factory default-constructs a T,
// applies the descriptor's fields through schema, and hands the result to
// store. attach may be nil.
func Register[T any](r *Registry, typeName string, schema *Schema[T], store func(w *ecs.World, id ecs.EntityID, c T), attach AttachFunc) error {
	if _, ok := r.entries[typeName]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, typeName)
	}
	if schema == nil {
		schema = NewSchema[T]()
	}

	r.entries[typeName] = entry{
		create: func(w *ecs.World, d entity.EntityDescriptor) ecs.EntityID {
			id := w.NewEntity()
			w.Position[id] = ecs.Position{Vec: d.Position}

			var c T
			schema.Apply(&c, d.Fields)
			store(w, id, c)
			return id
		},
		attach: attach,
		fields: schema.Fields(),
	}
	return nil
}

// Instantiate creates the entity described by d. An unregistered type
// creates nothing and returns ErrUnknownType.
func (r *Registry) Instantiate(w *ecs.World, d entity.EntityDescriptor) (ecs.EntityID, error) {
	e, ok := r.entries[d.Type]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, d.Type)
	}

	id := e.create(w, d)
	if e.attach != nil {
		e.attach(w, id, d)
	}
	return id, nil
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Fields returns the importable fields of a registered type.
func (r *Registry) Fields(typeName string) ([]FieldInfo, bool) {
	e, ok := r.entries[typeName]
	if !ok {
		return nil, false
	}
	return slices.Clone(e.fields), true
}
