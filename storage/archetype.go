package storage

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/keen-eyes/keeneyes/types"
)

// Archetype stores every entity sharing one exact component set. Data
// components get one contiguous column each; tag components contribute to the
// signature only. The entity column is parallel to every data column.
type Archetype struct {
	id       types.ArchetypeID
	comps    []types.ComponentMetadata
	columns  map[types.ComponentID]column
	entities []types.Entity
}

func newArchetype(id types.ArchetypeID, comps []types.ComponentMetadata) (*Archetype, error) {
	sorted := make([]types.ComponentMetadata, len(comps))
	copy(sorted, comps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID() < sorted[j].ID() })

	columns := make(map[types.ComponentID]column, len(sorted))
	for _, md := range sorted {
		if md.IsTag() {
			continue
		}
		factory, ok := md.(columnFactory)
		if !ok {
			return nil, eris.Errorf("component %q metadata cannot build storage columns", md.Name())
		}
		columns[md.ID()] = factory.newColumn()
	}
	return &Archetype{
		id:      id,
		comps:   sorted,
		columns: columns,
	}, nil
}

func (a *Archetype) ID() types.ArchetypeID { return a.id }

// Components returns the archetype's component set in ID order.
func (a *Archetype) Components() []types.ComponentMetadata { return a.comps }

// ComponentSet returns the component set as plain Components for filtering.
func (a *Archetype) ComponentSet() []types.Component {
	out := make([]types.Component, len(a.comps))
	for i, c := range a.comps {
		out[i] = c
	}
	return out
}

// Count returns the number of entities stored in the archetype.
func (a *Archetype) Count() int { return len(a.entities) }

// Entities returns the archetype's entity column. Callers must not mutate it.
func (a *Archetype) Entities() []types.Entity { return a.entities }

// EntityAt returns the entity stored at row.
func (a *Archetype) EntityAt(row int) types.Entity { return a.entities[row] }

// HasComponent reports whether the archetype's set includes the component id.
func (a *Archetype) HasComponent(id types.ComponentID) bool {
	for _, c := range a.comps {
		if c.ID() == id {
			return true
		}
	}
	return false
}

// PushRow appends a row for entity e. values maps component IDs to initial
// component values; columns without a value are zero-filled.
func (a *Archetype) PushRow(e types.Entity, values map[types.ComponentID]any) (int, error) {
	for id, col := range a.columns {
		v, ok := values[id]
		if !ok {
			col.appendZero()
			continue
		}
		if err := col.appendValue(v); err != nil {
			return 0, err
		}
	}
	a.entities = append(a.entities, e)
	return len(a.entities) - 1, nil
}

// SwapRemoveRow removes the row, moving the last row into its place. It
// returns the entity that moved into row, or Null if the removed row was last.
func (a *Archetype) SwapRemoveRow(row int) types.Entity {
	last := len(a.entities) - 1
	moved := types.Null
	if row != last {
		moved = a.entities[last]
		a.entities[row] = moved
	}
	a.entities = a.entities[:last]
	for _, col := range a.columns {
		col.swapRemove(row)
	}
	return moved
}

// MoveRowTo copies the row's component values into dst for every component
// the two archetypes share, appends entity e to dst, and swap-removes the
// source row. It returns the new row index in dst and the entity moved into
// the vacated source row (Null if none).
func (a *Archetype) MoveRowTo(dst *Archetype, row int, e types.Entity) (newRow int, moved types.Entity, err error) {
	for id, col := range a.columns {
		dstCol, ok := dst.columns[id]
		if !ok {
			continue
		}
		if err := col.copyRowTo(dstCol, row); err != nil {
			return 0, types.Null, err
		}
	}
	// Zero-fill columns dst has but the source does not.
	for id, dstCol := range dst.columns {
		if _, ok := a.columns[id]; !ok {
			dstCol.appendZero()
		}
	}
	dst.entities = append(dst.entities, e)
	moved = a.SwapRemoveRow(row)
	return len(dst.entities) - 1, moved, nil
}

// Value returns the boxed component value at (id, row).
func (a *Archetype) Value(id types.ComponentID, row int) (any, error) {
	col, ok := a.columns[id]
	if !ok {
		return nil, eris.Wrapf(ErrComponentNotOnEntity, "component id %d", id)
	}
	if row < 0 || row >= col.len() {
		return nil, eris.Errorf("row %d out of range", row)
	}
	return col.valueAt(row), nil
}

// SetValue overwrites the component value at (id, row).
func (a *Archetype) SetValue(id types.ComponentID, row int, v any) error {
	col, ok := a.columns[id]
	if !ok {
		return eris.Wrapf(ErrComponentNotOnEntity, "component id %d", id)
	}
	if row < 0 || row >= col.len() {
		return eris.Errorf("row %d out of range", row)
	}
	return col.setValue(row, v)
}

// Ref returns a pointer into the column storing component T. The pointer is
// only valid until the next structural change to the archetype.
func Ref[T types.Component](a *Archetype, id types.ComponentID, row int) (*T, error) {
	col, ok := a.columns[id]
	if !ok {
		return nil, eris.Wrapf(ErrComponentNotOnEntity, "component id %d", id)
	}
	typed, ok := col.(*typedColumn[T])
	if !ok {
		return nil, eris.Errorf("column for component id %d does not store the requested type", id)
	}
	if row < 0 || row >= len(typed.data) {
		return nil, eris.Errorf("row %d out of range", row)
	}
	return typed.ref(row), nil
}

// Column returns the raw slice backing component T's column. Used by the
// parallel query paths; the slice is invalidated by structural changes.
func Column[T types.Component](a *Archetype, id types.ComponentID) ([]T, error) {
	col, ok := a.columns[id]
	if !ok {
		return nil, eris.Wrapf(ErrComponentNotOnEntity, "component id %d", id)
	}
	typed, ok := col.(*typedColumn[T])
	if !ok {
		return nil, eris.Errorf("column for component id %d does not store the requested type", id)
	}
	return typed.data, nil
}
