package keeneyes

import (
	"github.com/rotisserie/eris"

	"github.com/keen-eyes/keeneyes/storage"
	"github.com/keen-eyes/keeneyes/types"
)

// RegisterComponent registers the data component type T with the world.
// Registering the same type twice is a no-op.
func RegisterComponent[T types.Component](w *World) error {
	md, err := storage.RegisterComponent[T](w.registry, false)
	if err != nil {
		return err
	}
	w.logger.Debug().
		Str("component_name", md.Name()).
		Int("component_id", int(md.ID())).
		Msg("component registered")
	return nil
}

// RegisterTag registers the zero-size tag component type T with the world.
func RegisterTag[T types.Component](w *World) error {
	md, err := storage.RegisterComponent[T](w.registry, true)
	if err != nil {
		return err
	}
	w.logger.Debug().
		Str("component_name", md.Name()).
		Int("component_id", int(md.ID())).
		Msg("tag component registered")
	return nil
}

func componentMetadata[T types.Component](w *World) (types.ComponentMetadata, error) {
	var t T
	return w.registry.GetByName(t.Name())
}

// GetComponent returns a pointer to the entity's component of type T. The
// pointer is invalidated by structural changes (spawn, despawn, add/remove
// component). It fails if the entity is dead or does not carry the component.
func GetComponent[T types.Component](w *World, e types.Entity) (*T, error) {
	md, err := componentMetadata[T](w)
	if err != nil {
		return nil, err
	}
	if md.IsTag() {
		return nil, eris.Wrapf(ErrComponentIsTag, "component %q", md.Name())
	}
	loc, err := w.index.Location(e)
	if err != nil {
		return nil, err
	}
	arch := w.table.Archetype(loc.Archetype)
	return storage.Ref[T](arch, md.ID(), loc.Row)
}

// HasComponent reports whether the entity carries component T (data or tag).
// Dead entities and unregistered components report false.
func HasComponent[T types.Component](w *World, e types.Entity) bool {
	md, err := componentMetadata[T](w)
	if err != nil {
		return false
	}
	loc, err := w.index.Location(e)
	if err != nil {
		return false
	}
	arch := w.table.Archetype(loc.Archetype)
	return arch != nil && arch.HasComponent(md.ID())
}

// SetComponent overwrites the entity's component of type T.
func SetComponent[T types.Component](w *World, e types.Entity, value *T) error {
	ref, err := GetComponent[T](w, e)
	if err != nil {
		return err
	}
	*ref = *value
	w.logger.Debug().
		Stringer("entity", e).
		Str("component_name", (*value).Name()).
		Msg("entity updated")
	return nil
}

// UpdateComponent applies fn to the entity's component of type T in place.
func UpdateComponent[T types.Component](w *World, e types.Entity, fn func(*T)) error {
	ref, err := GetComponent[T](w, e)
	if err != nil {
		return err
	}
	fn(ref)
	return nil
}

// AddComponent attaches component T with the given value, migrating the
// entity to the archetype matching its widened component set.
func AddComponent[T types.Component](w *World, e types.Entity, value T) error {
	md, err := componentMetadata[T](w)
	if err != nil {
		return err
	}
	loc, err := w.index.Location(e)
	if err != nil {
		return err
	}
	src := w.table.Archetype(loc.Archetype)
	if src.HasComponent(md.ID()) {
		return eris.Wrapf(storage.ErrComponentAlreadyOnEntity, "component %q on %s", md.Name(), e)
	}

	comps := append(append([]types.ComponentMetadata{}, src.Components()...), md)
	dst, err := w.table.GetOrCreate(comps)
	if err != nil {
		return err
	}
	newRow, moved, err := src.MoveRowTo(dst, loc.Row, e)
	if err != nil {
		return eris.Wrap(ErrWorldStateMigration, err.Error())
	}
	if !md.IsTag() {
		if err := dst.SetValue(md.ID(), newRow, value); err != nil {
			return err
		}
	}
	if err := w.index.SetLocation(e, storage.Location{Archetype: dst.ID(), Row: newRow}); err != nil {
		return err
	}
	if !moved.IsNull() {
		if err := w.index.SetLocation(moved, loc); err != nil {
			return err
		}
	}
	return nil
}

// RemoveComponent detaches component T, migrating the entity to the archetype
// matching its narrowed component set.
func RemoveComponent[T types.Component](w *World, e types.Entity) error {
	md, err := componentMetadata[T](w)
	if err != nil {
		return err
	}
	loc, err := w.index.Location(e)
	if err != nil {
		return err
	}
	src := w.table.Archetype(loc.Archetype)
	if !src.HasComponent(md.ID()) {
		return eris.Wrapf(storage.ErrComponentNotOnEntity, "component %q on %s", md.Name(), e)
	}

	comps := make([]types.ComponentMetadata, 0, len(src.Components())-1)
	for _, c := range src.Components() {
		if c.ID() != md.ID() {
			comps = append(comps, c)
		}
	}
	dst, err := w.table.GetOrCreate(comps)
	if err != nil {
		return err
	}
	newRow, moved, err := src.MoveRowTo(dst, loc.Row, e)
	if err != nil {
		return eris.Wrap(ErrWorldStateMigration, err.Error())
	}
	if err := w.index.SetLocation(e, storage.Location{Archetype: dst.ID(), Row: newRow}); err != nil {
		return err
	}
	if !moved.IsNull() {
		if err := w.index.SetLocation(moved, loc); err != nil {
			return err
		}
	}
	return nil
}

// ComponentNames returns the names of all registered components in ID order.
func (w *World) ComponentNames() []string {
	comps := w.registry.Components()
	out := make([]string, len(comps))
	for i, c := range comps {
		out[i] = c.Name()
	}
	return out
}
