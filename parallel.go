package keeneyes

import (
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/keen-eyes/keeneyes/filter"
	"github.com/keen-eyes/keeneyes/storage"
	"github.com/keen-eyes/keeneyes/telemetry"
	"github.com/keen-eyes/keeneyes/types"
)

// ForEachParallel iterates over every entity carrying component A. When the
// matched entity count is at least minEntities the work is partitioned across
// worker goroutines; below the threshold it runs sequentially on the calling
// goroutine. A minEntities of zero or less uses the world's configured
// threshold.
//
// Partitions are disjoint and every entity is visited exactly once, with no
// ordering guarantee between partitions. The engine performs no further
// synchronization: the callback must only touch the invoked entity's own
// components to stay race-free.
func ForEachParallel[A types.Component](w *World, minEntities int, fn func(types.Entity, *A)) error {
	mdA, err := dataMetadata[A](w)
	if err != nil {
		return err
	}
	if minEntities <= 0 {
		minEntities = w.cfg.ParallelThreshold
	}

	type unit struct {
		ents []types.Entity
		colA []A
	}
	var a A
	s := w.Search(filter.Contains(a))
	var units []unit
	total := 0
	for _, id := range s.evaluate() {
		arch := w.table.Archetype(id)
		if arch == nil || arch.Count() == 0 {
			continue
		}
		colA, err := storage.Column[A](arch, mdA.ID())
		if err != nil {
			return err
		}
		units = append(units, unit{ents: arch.Entities(), colA: colA})
		total += arch.Count()
	}

	start := time.Now()
	if total < minEntities {
		for _, u := range units {
			for i := range u.ents {
				fn(u.ents[i], &u.colA[i])
			}
		}
		telemetry.EmitQueryStat(start, "foreach_sequential", total)
		return nil
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := (total + workers - 1) / workers
	if chunk < 1 {
		chunk = 1
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for _, u := range units {
		for lo := 0; lo < len(u.ents); lo += chunk {
			hi := lo + chunk
			if hi > len(u.ents) {
				hi = len(u.ents)
			}
			ents, colA := u.ents[lo:hi], u.colA[lo:hi]
			g.Go(func() error {
				for i := range ents {
					fn(ents[i], &colA[i])
				}
				return nil
			})
		}
	}
	err = g.Wait()
	telemetry.EmitQueryStat(start, "foreach_parallel", total)
	return err
}

// ForEachParallel2 is ForEachParallel over entities carrying both A and B.
func ForEachParallel2[A, B types.Component](
	w *World, minEntities int, fn func(types.Entity, *A, *B),
) error {
	mdA, err := dataMetadata[A](w)
	if err != nil {
		return err
	}
	mdB, err := dataMetadata[B](w)
	if err != nil {
		return err
	}
	if minEntities <= 0 {
		minEntities = w.cfg.ParallelThreshold
	}

	type unit struct {
		ents []types.Entity
		colA []A
		colB []B
	}
	var a A
	var b B
	s := w.Search(filter.Contains(a, b))
	var units []unit
	total := 0
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
		units = append(units, unit{ents: arch.Entities(), colA: colA, colB: colB})
		total += arch.Count()
	}

	start := time.Now()
	if total < minEntities {
		for _, u := range units {
			for i := range u.ents {
				fn(u.ents[i], &u.colA[i], &u.colB[i])
			}
		}
		telemetry.EmitQueryStat(start, "foreach_sequential", total)
		return nil
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := (total + workers - 1) / workers
	if chunk < 1 {
		chunk = 1
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for _, u := range units {
		for lo := 0; lo < len(u.ents); lo += chunk {
			hi := lo + chunk
			if hi > len(u.ents) {
				hi = len(u.ents)
			}
			ents, colA, colB := u.ents[lo:hi], u.colA[lo:hi], u.colB[lo:hi]
			g.Go(func() error {
				for i := range ents {
					fn(ents[i], &colA[i], &colB[i])
				}
				return nil
			})
		}
	}
	err = g.Wait()
	telemetry.EmitQueryStat(start, "foreach_parallel", total)
	return err
}

// ForEachParallelReadOnly is the read-only variant of ForEachParallel: the
// callback receives component values by copy, so concurrent reads of shared
// components are safe as well.
func ForEachParallelReadOnly[A types.Component](
	w *World, minEntities int, fn func(types.Entity, A),
) error {
	return ForEachParallel(w, minEntities, func(e types.Entity, a *A) {
		fn(e, *a)
	})
}

// ForEachParallelReadOnly2 is the read-only variant of ForEachParallel2.
func ForEachParallelReadOnly2[A, B types.Component](
	w *World, minEntities int, fn func(types.Entity, A, B),
) error {
	return ForEachParallel2(w, minEntities, func(e types.Entity, a *A, b *B) {
		fn(e, *a, *b)
	})
}
