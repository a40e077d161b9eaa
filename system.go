package keeneyes

import (
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/keen-eyes/keeneyes/telemetry"
)

// System is a function run against the world once per Update call.
type System func(w *World) error

// Phase groups systems into coarse execution buckets. Within a phase systems
// run by ascending order value, then registration order.
type Phase int

const (
	PhaseEarlyUpdate Phase = iota
	PhaseUpdate
	PhaseLateUpdate
)

type systemEntry struct {
	name  string
	phase Phase
	order int
	seq   int
	fn    System
}

// RegisterSystem registers a named system. Names are unique per world.
func (w *World) RegisterSystem(name string, phase Phase, order int, fn System) error {
	if _, dup := w.systemNames[name]; dup {
		return eris.Wrapf(ErrSystemRegistered, "system %q", name)
	}
	w.systemNames[name] = struct{}{}
	w.systems = append(w.systems, systemEntry{
		name:  name,
		phase: phase,
		order: order,
		seq:   len(w.systems),
		fn:    fn,
	})
	sort.SliceStable(w.systems, func(i, j int) bool {
		if w.systems[i].phase != w.systems[j].phase {
			return w.systems[i].phase < w.systems[j].phase
		}
		if w.systems[i].order != w.systems[j].order {
			return w.systems[i].order < w.systems[j].order
		}
		return w.systems[i].seq < w.systems[j].seq
	})
	w.logger.Debug().Str("system", name).Int("phase", int(phase)).Msg("system registered")
	return nil
}

// SystemNames returns the registered system names in execution order.
func (w *World) SystemNames() []string {
	out := make([]string, len(w.systems))
	for i, s := range w.systems {
		out[i] = s.name
	}
	return out
}

// Update runs every registered system once, in phase/order/registration
// order. The first system error aborts the pass.
func (w *World) Update() error {
	for _, s := range w.systems {
		start := time.Now()
		if err := s.fn(w); err != nil {
			return eris.Wrapf(err, "system %q failed", s.name)
		}
		telemetry.EmitSystemStat(start, s.name)
	}
	return nil
}
