// Package filter provides composable component filters used by the query
// engine to select archetypes.
package filter

import (
	"github.com/keen-eyes/keeneyes/types"
)

// ComponentFilter decides whether an archetype's component set matches.
type ComponentFilter interface {
	// MatchesComponents returns true if the component set matches the filter.
	MatchesComponents(components []types.Component) bool
}

// ComponentWrapper wraps a Component type for filtering purposes.
type ComponentWrapper struct {
	Component types.Component
}

// Component returns a ComponentWrapper for the given component type T.
func Component[T types.Component]() ComponentWrapper {
	var x T
	return ComponentWrapper{
		Component: x,
	}
}
