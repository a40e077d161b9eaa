package keeneyes

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/keen-eyes/keeneyes/types"
)

// AddTag tags the entity. It returns false if the entity already carried the
// tag. Empty or whitespace-only tags are rejected.
func (w *World) AddTag(e types.Entity, tag string) (bool, error) {
	if strings.TrimSpace(tag) == "" {
		return false, ErrInvalidTag
	}
	if !w.index.IsAlive(e) {
		return false, eris.Wrapf(ErrEntityNotFound, "%s", e)
	}
	owned, ok := w.entityTags[e]
	if !ok {
		owned = map[string]struct{}{}
		w.entityTags[e] = owned
	}
	if _, has := owned[tag]; has {
		return false, nil
	}
	owned[tag] = struct{}{}

	set, ok := w.tags[tag]
	if !ok {
		set = map[types.Entity]struct{}{}
		w.tags[tag] = set
	}
	set[e] = struct{}{}
	return true, nil
}

// RemoveTag untags the entity, returning false if the tag was not present.
func (w *World) RemoveTag(e types.Entity, tag string) bool {
	owned, ok := w.entityTags[e]
	if !ok {
		return false
	}
	if _, has := owned[tag]; !has {
		return false
	}
	delete(owned, tag)
	if len(owned) == 0 {
		delete(w.entityTags, e)
	}
	if set, ok := w.tags[tag]; ok {
		delete(set, e)
		if len(set) == 0 {
			delete(w.tags, tag)
		}
	}
	return true
}

// HasTag reports whether the entity carries the tag.
func (w *World) HasTag(e types.Entity, tag string) bool {
	_, has := w.entityTags[e][tag]
	return has
}

// GetTags returns the entity's tags, sorted.
func (w *World) GetTags(e types.Entity) []string {
	owned := w.entityTags[e]
	out := make([]string, 0, len(owned))
	for tag := range owned {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// QueryByTag returns every entity carrying the tag. Unknown tags yield an
// empty slice.
func (w *World) QueryByTag(tag string) []types.Entity {
	set := w.tags[tag]
	out := make([]types.Entity, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	return out
}

func (w *World) clearTags(e types.Entity) {
	for tag := range w.entityTags[e] {
		if set, ok := w.tags[tag]; ok {
			delete(set, e)
			if len(set) == 0 {
				delete(w.tags, tag)
			}
		}
	}
	delete(w.entityTags, e)
}

// GetEntityByName resolves a named entity. The second return is false if no
// live entity has the name.
func (w *World) GetEntityByName(name string) (types.Entity, bool) {
	e, ok := w.names[name]
	return e, ok
}

// GetName returns the entity's name, or "" if it is unnamed.
func (w *World) GetName(e types.Entity) string {
	return w.entityNames[e]
}

// SetName names (or renames) an entity. Names are unique per world.
func (w *World) SetName(e types.Entity, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if !w.index.IsAlive(e) {
		return eris.Wrapf(ErrEntityNotFound, "%s", e)
	}
	if holder, taken := w.names[name]; taken && holder != e {
		return ErrNameTaken
	}
	w.clearName(e)
	w.names[name] = e
	w.entityNames[e] = name
	return nil
}

func (w *World) clearName(e types.Entity) {
	if name, ok := w.entityNames[e]; ok {
		delete(w.names, name)
		delete(w.entityNames, e)
	}
}
