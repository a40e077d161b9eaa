package keeneyes

import (
	"github.com/rotisserie/eris"

	"github.com/keen-eyes/keeneyes/filter"
	"github.com/keen-eyes/keeneyes/types"
)

// CallbackFn is invoked for each entity a search yields. Return false to stop
// the iteration.
type CallbackFn func(types.Entity) bool

type searchCache struct {
	archetypes []types.ArchetypeID
	seen       int
	epoch      uint64
}

// Search enumerates the entities whose archetype matches a component filter.
// Matches are cached: re-running a search only scans archetypes created since
// its last evaluation, so holding a Search across frames is cheap.
type Search struct {
	world   *World
	filter  filter.ComponentFilter
	matches *searchCache
}

// Search creates a search over the world for the given filter.
func (w *World) Search(f filter.ComponentFilter) *Search {
	return &Search{
		world:   w,
		filter:  f,
		matches: &searchCache{},
	}
}

func (s *Search) evaluate() []types.ArchetypeID {
	cache := s.matches
	if epoch := s.world.table.Epoch(); cache.epoch != epoch {
		// The table was cleared; cached IDs now refer to recycled archetypes.
		cache.archetypes = nil
		cache.seen = 0
		cache.epoch = epoch
	}
	total := s.world.table.Count()
	cache.archetypes = append(cache.archetypes, s.world.table.SearchFrom(s.filter, cache.seen)...)
	cache.seen = total
	return cache.archetypes
}

// Each iterates over all matching entities in archetype order (insertion
// order within an archetype, creation order across archetypes). Return false
// from the callback to stop early.
func (s *Search) Each(callback CallbackFn) {
	for _, id := range s.evaluate() {
		arch := s.world.table.Archetype(id)
		if arch == nil {
			continue
		}
		for _, e := range arch.Entities() {
			if !callback(e) {
				return
			}
		}
	}
}

// Count returns the number of matching entities.
func (s *Search) Count() int {
	n := 0
	for _, id := range s.evaluate() {
		if arch := s.world.table.Archetype(id); arch != nil {
			n += arch.Count()
		}
	}
	return n
}

// First returns the first matching entity in iteration order.
func (s *Search) First() (types.Entity, error) {
	for _, id := range s.evaluate() {
		arch := s.world.table.Archetype(id)
		if arch != nil && arch.Count() > 0 {
			return arch.EntityAt(0), nil
		}
	}
	return types.Null, eris.Wrap(ErrEntityNotFound, "no entity matches the search")
}

// MustFirst is First, panicking when nothing matches.
func (s *Search) MustFirst() types.Entity {
	e, err := s.First()
	if err != nil {
		panic("no entity matches the search")
	}
	return e
}

// Collect returns all matching entities in iteration order.
func (s *Search) Collect() []types.Entity {
	var out []types.Entity
	s.Each(func(e types.Entity) bool {
		out = append(out, e)
		return true
	})
	return out
}
