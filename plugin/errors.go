package plugin

import (
	"fmt"
	"strings"
)

// Resolution failures are returned as typed error records rather than thrown,
// so a caller can report every problem at once.

type MissingDependencyError struct {
	PluginID        string
	MissingPluginID string
}

func (e MissingDependencyError) Error() string {
	return fmt.Sprintf("plugin %q requires missing plugin %q", e.PluginID, e.MissingPluginID)
}

type VersionMismatchError struct {
	PluginID         string
	DependencyID     string
	InstalledVersion string
	Constraint       string
}

func (e VersionMismatchError) Error() string {
	return fmt.Sprintf("plugin %q requires %q %s but %s is installed",
		e.PluginID, e.DependencyID, e.Constraint, e.InstalledVersion)
}

type CyclicDependencyError struct {
	CyclePath []string
}

func (e CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic plugin dependency: %s", strings.Join(e.CyclePath, " -> "))
}

type EditorVersionIncompatibleError struct {
	PluginID      string
	EditorVersion string
}

func (e EditorVersionIncompatibleError) Error() string {
	return fmt.Sprintf("plugin %q is incompatible with editor version %s", e.PluginID, e.EditorVersion)
}
