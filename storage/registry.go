package storage

import (
	"github.com/rotisserie/eris"

	"github.com/keen-eyes/keeneyes/types"
)

// Registry maps component names to storage descriptors. It survives World.Clear
// so component IDs stay stable for the lifetime of a world.
type Registry struct {
	byName map[string]types.ComponentMetadata
	byID   []types.ComponentMetadata
}

func NewRegistry() *Registry {
	return &Registry{
		byName: map[string]types.ComponentMetadata{},
	}
}

// RegisterComponent registers component type T, assigning it the next free
// ComponentID. Registering the same type twice is a no-op that returns the
// original metadata; registering a different type under an already-taken name
// fails.
func RegisterComponent[T types.Component](r *Registry, isTag bool) (types.ComponentMetadata, error) {
	md, err := newMetadata[T](isTag)
	if err != nil {
		return nil, err
	}
	if existing, ok := r.byName[md.name]; ok {
		same, err := types.IsSchemaValid(existing.GetSchema(), md.schema)
		if err != nil {
			return nil, err
		}
		if !same || existing.IsTag() != isTag {
			return nil, eris.Wrapf(ErrComponentSchemaMismatch, "component %q", md.name)
		}
		return existing, nil
	}
	if err := md.SetID(types.ComponentID(len(r.byID))); err != nil {
		return nil, err
	}
	r.byName[md.name] = md
	r.byID = append(r.byID, md)
	return md, nil
}

// GetByName returns the metadata registered under name.
func (r *Registry) GetByName(name string) (types.ComponentMetadata, error) {
	md, ok := r.byName[name]
	if !ok {
		return nil, eris.Wrapf(ErrComponentNotRegistered, "component %q", name)
	}
	return md, nil
}

// GetByID returns the metadata with the given id.
func (r *Registry) GetByID(id types.ComponentID) (types.ComponentMetadata, error) {
	if int(id) < 0 || int(id) >= len(r.byID) {
		return nil, eris.Wrapf(ErrComponentNotRegistered, "component id %d", id)
	}
	return r.byID[id], nil
}

// Components returns all registered component metadata in ID order.
func (r *Registry) Components() []types.ComponentMetadata {
	out := make([]types.ComponentMetadata, len(r.byID))
	copy(out, r.byID)
	return out
}

func (r *Registry) Len() int {
	return len(r.byID)
}
