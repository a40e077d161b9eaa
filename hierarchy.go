package keeneyes

import (
	"github.com/rotisserie/eris"

	"github.com/keen-eyes/keeneyes/types"
)

// SetParent records parent as the entity's parent, replacing any existing
// edge. Passing Null as the parent removes the edge. An edge that would make
// an entity its own ancestor is refused: with StrictHierarchy an error is
// returned, otherwise the call is a no-op.
func (w *World) SetParent(child, parent types.Entity) error {
	if !w.index.IsAlive(child) {
		return eris.Wrapf(ErrEntityNotFound, "child %s", child)
	}
	if parent.IsNull() {
		w.detachFromParent(child)
		return nil
	}
	if !w.index.IsAlive(parent) {
		return eris.Wrapf(ErrEntityNotFound, "parent %s", parent)
	}
	if child == parent || w.isAncestor(child, parent) {
		if w.cfg.StrictHierarchy {
			return eris.Wrapf(ErrHierarchyCycle, "cannot parent %s under %s", child, parent)
		}
		return nil
	}

	w.detachFromParent(child)
	w.parents[child] = parent
	set, ok := w.children[parent]
	if !ok {
		set = map[types.Entity]struct{}{}
		w.children[parent] = set
	}
	set[child] = struct{}{}
	return nil
}

// isAncestor reports whether candidate is an ancestor of (or equal to) e.
func (w *World) isAncestor(candidate, e types.Entity) bool {
	for cur := e; !cur.IsNull(); cur = w.parents[cur] {
		if cur == candidate {
			return true
		}
	}
	return false
}

func (w *World) detachFromParent(child types.Entity) {
	parent, ok := w.parents[child]
	if !ok {
		return
	}
	delete(w.parents, child)
	if set, ok := w.children[parent]; ok {
		delete(set, child)
		if len(set) == 0 {
			delete(w.children, parent)
		}
	}
}

// GetParent returns the entity's parent, or Null if it has none.
func (w *World) GetParent(child types.Entity) types.Entity {
	return w.parents[child]
}

// AddChild parents child under parent. It is SetParent with the arguments
// flipped to read naturally at call sites building trees top-down.
func (w *World) AddChild(parent, child types.Entity) error {
	return w.SetParent(child, parent)
}

// RemoveChild detaches child from parent. It returns true only if child's
// recorded parent is parent; otherwise nothing is mutated and false is
// returned.
func (w *World) RemoveChild(parent, child types.Entity) bool {
	if w.parents[child] != parent || parent.IsNull() {
		return false
	}
	w.detachFromParent(child)
	return true
}

// GetChildren returns the entity's direct children. Order is unspecified.
func (w *World) GetChildren(parent types.Entity) []types.Entity {
	set := w.children[parent]
	out := make([]types.Entity, 0, len(set))
	for child := range set {
		out = append(out, child)
	}
	return out
}

// GetDescendants returns every transitive descendant of the entity,
// breadth-first. Order within a level is unspecified.
func (w *World) GetDescendants(parent types.Entity) []types.Entity {
	var out []types.Entity
	queue := w.GetChildren(parent)
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		out = append(out, e)
		queue = append(queue, w.GetChildren(e)...)
	}
	return out
}

// GetAncestors returns the chain of ancestors, immediate parent first and
// root last. An entity with no parent yields an empty slice.
func (w *World) GetAncestors(child types.Entity) []types.Entity {
	var out []types.Entity
	for cur := w.parents[child]; !cur.IsNull(); cur = w.parents[cur] {
		out = append(out, cur)
	}
	return out
}

// GetRoot walks the hierarchy upwards and returns the topmost ancestor, or
// the entity itself if it has no parent.
func (w *World) GetRoot(e types.Entity) types.Entity {
	root := e
	for cur := w.parents[e]; !cur.IsNull(); cur = w.parents[cur] {
		root = cur
	}
	return root
}
