package storage

import (
	"strconv"
	"strings"

	"github.com/keen-eyes/keeneyes/filter"
	"github.com/keen-eyes/keeneyes/types"
)

// Table owns every archetype in a world, keyed by an interned component-set
// signature. Archetype IDs are assigned in creation order and stay stable
// until Clear.
type Table struct {
	archetypes  []*Archetype
	bySignature map[string]types.ArchetypeID
	epoch       uint64
}

func NewTable() *Table {
	return &Table{
		bySignature: map[string]types.ArchetypeID{},
	}
}

func signature(comps []types.ComponentMetadata) string {
	ids := make([]int, len(comps))
	for i, c := range comps {
		ids[i] = int(c.ID())
	}
	// comps arrive sorted from the registry path, but re-sort defensively is
	// unnecessary: newArchetype sorts, and signature is built from its result.
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(id))
	}
	return sb.String()
}

// GetOrCreate returns the archetype for the exact component set, creating it
// on first use.
func (t *Table) GetOrCreate(comps []types.ComponentMetadata) (*Archetype, error) {
	probe, err := newArchetype(types.ArchetypeID(len(t.archetypes)), comps)
	if err != nil {
		return nil, err
	}
	sig := signature(probe.comps)
	if id, ok := t.bySignature[sig]; ok {
		return t.archetypes[id], nil
	}
	t.bySignature[sig] = probe.id
	t.archetypes = append(t.archetypes, probe)
	return probe, nil
}

// Archetype returns the archetype with the given id, or nil.
func (t *Table) Archetype(id types.ArchetypeID) *Archetype {
	if int(id) < 0 || int(id) >= len(t.archetypes) {
		return nil
	}
	return t.archetypes[id]
}

// Count returns the number of archetypes.
func (t *Table) Count() int { return len(t.archetypes) }

// Epoch identifies the current generation of archetype IDs. It advances on
// Clear, invalidating any cached IDs handed out before.
func (t *Table) Epoch() uint64 { return t.epoch }

// SearchFrom returns the IDs of archetypes at index >= start whose component
// set matches the filter. Queries cache their matches and re-scan only the
// archetypes created since their last evaluation.
func (t *Table) SearchFrom(f filter.ComponentFilter, start int) []types.ArchetypeID {
	var out []types.ArchetypeID
	for i := start; i < len(t.archetypes); i++ {
		if f.MatchesComponents(t.archetypes[i].ComponentSet()) {
			out = append(out, t.archetypes[i].id)
		}
	}
	return out
}

// EntityCount returns the number of entities across all archetypes.
func (t *Table) EntityCount() int {
	n := 0
	for _, a := range t.archetypes {
		n += a.Count()
	}
	return n
}

// Clear drops every archetype and signature. Component registrations are
// unaffected; archetypes are re-interned on demand.
func (t *Table) Clear() {
	t.archetypes = nil
	t.bySignature = map[string]types.ArchetypeID{}
	t.epoch++
}
