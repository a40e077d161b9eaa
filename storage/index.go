package storage

import (
	"github.com/rotisserie/eris"

	"github.com/keen-eyes/keeneyes/types"
)

// Location is an entity's position in archetype storage.
type Location struct {
	Archetype types.ArchetypeID
	Row       int
}

type entityRecord struct {
	loc     Location
	version uint32
	alive   bool
}

// EntityIndex is the dense id/generation table. Index 0 is reserved so the
// zero Entity is always the null sentinel. Freed indices are recycled with a
// bumped generation, invalidating stale handles.
type EntityIndex struct {
	records []entityRecord
	free    []uint32
	alive   int
}

func NewEntityIndex() *EntityIndex {
	return &EntityIndex{
		records: make([]entityRecord, 1), // slot 0 reserved for Null
	}
}

// Spawn allocates a new entity handle, reusing a recycled index if available.
func (idx *EntityIndex) Spawn() types.Entity {
	idx.alive++
	if n := len(idx.free); n > 0 {
		id := idx.free[n-1]
		idx.free = idx.free[:n-1]
		rec := &idx.records[id]
		rec.alive = true
		rec.loc = Location{}
		return types.Entity{ID: id, Version: rec.version}
	}
	id := uint32(len(idx.records))
	idx.records = append(idx.records, entityRecord{version: 1, alive: true})
	return types.Entity{ID: id, Version: 1}
}

// Despawn frees the entity's index for recycling. The generation is bumped
// immediately so any held handle with the old generation becomes invalid.
func (idx *EntityIndex) Despawn(e types.Entity) error {
	if !idx.IsAlive(e) {
		return eris.Wrapf(ErrEntityDoesNotExist, "%s", e)
	}
	rec := &idx.records[e.ID]
	rec.alive = false
	rec.version++
	idx.free = append(idx.free, e.ID)
	idx.alive--
	return nil
}

// IsAlive reports whether the handle refers to a live entity.
func (idx *EntityIndex) IsAlive(e types.Entity) bool {
	if e.IsNull() || int(e.ID) >= len(idx.records) {
		return false
	}
	rec := idx.records[e.ID]
	return rec.alive && rec.version == e.Version
}

// Location returns where the entity's row lives.
func (idx *EntityIndex) Location(e types.Entity) (Location, error) {
	if !idx.IsAlive(e) {
		return Location{}, eris.Wrapf(ErrEntityDoesNotExist, "%s", e)
	}
	return idx.records[e.ID].loc, nil
}

// SetLocation records the entity's new row after a spawn or migration.
func (idx *EntityIndex) SetLocation(e types.Entity, loc Location) error {
	if !idx.IsAlive(e) {
		return eris.Wrapf(ErrEntityDoesNotExist, "%s", e)
	}
	idx.records[e.ID].loc = loc
	return nil
}

// Count returns the number of live entities.
func (idx *EntityIndex) Count() int { return idx.alive }

// Clear despawns everything, preserving generation counters so handles held
// across a Clear stay invalid.
func (idx *EntityIndex) Clear() {
	for i := range idx.records {
		if i == 0 {
			continue
		}
		rec := &idx.records[i]
		if rec.alive {
			rec.alive = false
			rec.version++
			idx.free = append(idx.free, uint32(i))
		}
	}
	idx.alive = 0
}
