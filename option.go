package keeneyes

import (
	"github.com/rs/zerolog"

	"github.com/keen-eyes/keeneyes/persist"
)

// WorldOption configures a World during NewWorld.
type WorldOption func(*World)

// WithCustomLogger replaces the world's logger.
func WithCustomLogger(logger zerolog.Logger) WorldOption {
	return func(w *World) {
		w.logger = logger
	}
}

// WithConfig replaces the environment-loaded configuration wholesale.
func WithConfig(cfg WorldConfig) WorldOption {
	return func(w *World) {
		if cfg.ParallelThreshold <= 0 {
			cfg.ParallelThreshold = DefaultParallelThreshold
		}
		w.cfg = cfg
	}
}

// WithSaveManager replaces the world's persistence manager, typically to use
// a different slot store or an encryption provider.
func WithSaveManager(m *persist.Manager) WorldOption {
	return func(w *World) {
		w.saves = m
	}
}

// WithEditorVersion overrides the host version plugins are validated against.
func WithEditorVersion(version string) WorldOption {
	return func(w *World) {
		w.cfg.EditorVersion = version
	}
}

// WithParallelThreshold overrides the default entity count at which parallel
// query iteration kicks in.
func WithParallelThreshold(n int) WorldOption {
	return func(w *World) {
		if n > 0 {
			w.cfg.ParallelThreshold = n
		}
	}
}

// WithStrictHierarchy toggles whether cycle-creating SetParent calls return
// an error (true) or are refused silently (false).
func WithStrictHierarchy(strict bool) WorldOption {
	return func(w *World) {
		w.cfg.StrictHierarchy = strict
	}
}

// WithSaveDirectory changes where the default file slot store writes slots.
func WithSaveDirectory(dir string) WorldOption {
	return func(w *World) {
		w.cfg.SaveDirectory = dir
	}
}
