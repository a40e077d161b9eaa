package plugin

// Dependency declares that a plugin requires another plugin, optionally at a
// constrained version, to be loaded first.
type Dependency struct {
	ID         string `json:"id"`
	Constraint string `json:"constraint,omitempty"`
}

// Manifest describes a plugin to the dependency resolver.
type Manifest struct {
	ID               string       `json:"id"`
	Version          string       `json:"version"`
	Dependencies     []Dependency `json:"dependencies,omitempty"`
	MinEditorVersion string       `json:"minEditorVersion,omitempty"`
	MaxEditorVersion string       `json:"maxEditorVersion,omitempty"`
}

// LoadedPlugin is a manifest plus its load-time state.
type LoadedPlugin struct {
	Manifest Manifest
	Enabled  bool
}

// State is the resolver's verdict for one plugin.
type State int

const (
	StateUnresolved State = iota
	StateResolved
	StateMissingDependency
	StateVersionMismatch
	StateCyclicDependency
	StateEditorVersionIncompatible
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateResolved:
		return "resolved"
	case StateMissingDependency:
		return "missing_dependency"
	case StateVersionMismatch:
		return "version_mismatch"
	case StateCyclicDependency:
		return "cyclic_dependency"
	case StateEditorVersionIncompatible:
		return "editor_version_incompatible"
	}
	return "unknown"
}
