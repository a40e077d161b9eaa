package keeneyes

import (
	"github.com/rotisserie/eris"

	"github.com/keen-eyes/keeneyes/filter"
	"github.com/keen-eyes/keeneyes/storage"
	"github.com/keen-eyes/keeneyes/types"
)

func dataMetadata[T types.Component](w *World) (types.ComponentMetadata, error) {
	md, err := componentMetadata[T](w)
	if err != nil {
		return nil, err
	}
	if md.IsTag() {
		return nil, eris.Wrapf(ErrComponentIsTag, "component %q", md.Name())
	}
	return md, nil
}

// ForEach iterates over every entity carrying component A, passing a pointer
// into the component's storage column. Iteration order is archetype order.
func ForEach[A types.Component](w *World, fn func(types.Entity, *A)) error {
	mdA, err := dataMetadata[A](w)
	if err != nil {
		return err
	}
	var a A
	s := w.Search(filter.Contains(a))
	for _, id := range s.evaluate() {
		arch := w.table.Archetype(id)
		if arch == nil || arch.Count() == 0 {
			continue
		}
		colA, err := storage.Column[A](arch, mdA.ID())
		if err != nil {
			return err
		}
		ents := arch.Entities()
		for i := range ents {
			fn(ents[i], &colA[i])
		}
	}
	return nil
}

// ForEach2 iterates over every entity carrying both A and B.
func ForEach2[A, B types.Component](w *World, fn func(types.Entity, *A, *B)) error {
	mdA, err := dataMetadata[A](w)
	if err != nil {
		return err
	}
	mdB, err := dataMetadata[B](w)
	if err != nil {
		return err
	}
	var a A
	var b B
	s := w.Search(filter.Contains(a, b))
	for _, id := range s.evaluate() {
		arch := w.table.Archetype(id)
		if arch == nil || arch.Count() == 0 {
			continue
		}
		colA, err := storage.Column[A](arch, mdA.ID())
		if err != nil {
			return err
		}
		colB, err := storage.Column[B](arch, mdB.ID())
		if err != nil {
			return err
		}
		ents := arch.Entities()
		for i := range ents {
			fn(ents[i], &colA[i], &colB[i])
		}
	}
	return nil
}

// ForEach3 iterates over every entity carrying A, B, and C.
func ForEach3[A, B, C types.Component](w *World, fn func(types.Entity, *A, *B, *C)) error {
	mdA, err := dataMetadata[A](w)
	if err != nil {
		return err
	}
	mdB, err := dataMetadata[B](w)
	if err != nil {
		return err
	}
	mdC, err := dataMetadata[C](w)
	if err != nil {
		return err
	}
	var a A
	var b B
	var c C
	s := w.Search(filter.Contains(a, b, c))
	for _, id := range s.evaluate() {
		arch := w.table.Archetype(id)
		if arch == nil || arch.Count() == 0 {
			continue
		}
		colA, err := storage.Column[A](arch, mdA.ID())
		if err != nil {
			return err
		}
		colB, err := storage.Column[B](arch, mdB.ID())
		if err != nil {
			return err
		}
		colC, err := storage.Column[C](arch, mdC.ID())
		if err != nil {
			return err
		}
		ents := arch.Entities()
		for i := range ents {
			fn(ents[i], &colA[i], &colB[i], &colC[i])
		}
	}
	return nil
}
