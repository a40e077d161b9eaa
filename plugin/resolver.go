package plugin

import (
	"sort"

	"github.com/rotisserie/eris"
)

// ResolutionResult reports the outcome of resolving a plugin set. IsValid is
// true only when no errors were produced; LoadOrder then lists every plugin
// with dependencies before dependents.
type ResolutionResult struct {
	IsValid   bool
	LoadOrder []string
	Errors    []error
	States    map[string]State
}

// Resolver validates plugin sets against an editor host version and computes
// install/uninstall ordering.
type Resolver struct {
	EditorVersion string
}

func NewResolver(editorVersion string) *Resolver {
	return &Resolver{EditorVersion: editorVersion}
}

// TopologicalSort orders the dependency graph (node -> its dependencies) so
// every dependency precedes its dependents. Ties break lexicographically so
// the order is deterministic. If a cycle exists, order holds only the ids
// resolvable before the cycle was hit and cyclePath holds the ids forming
// the cycle.
func TopologicalSort(graph map[string][]string) (order []string, cyclePath []string) {
	pending := make(map[string]int, len(graph))
	dependents := make(map[string][]string, len(graph))
	for id, deps := range graph {
		count := 0
		for _, dep := range deps {
			if _, ok := graph[dep]; ok {
				count++
				dependents[dep] = append(dependents[dep], id)
			}
		}
		pending[id] = count
	}

	var ready []string
	for id, count := range pending {
		if count == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		for _, dep := range dependents[id] {
			pending[dep]--
			if pending[dep] == 0 {
				ready = append(ready, dep)
			}
		}
		sort.Strings(ready)
	}

	if len(order) == len(graph) {
		return order, nil
	}

	// Some nodes could not be emitted: a cycle exists among (or upstream of)
	// them. Walk the remainder to extract one concrete cycle.
	remaining := make([]string, 0, len(graph)-len(order))
	emitted := make(map[string]bool, len(order))
	for _, id := range order {
		emitted[id] = true
	}
	for id := range graph {
		if !emitted[id] {
			remaining = append(remaining, id)
		}
	}
	sort.Strings(remaining)
	for _, id := range remaining {
		if cycle := FindCyclePath(graph, id); len(cycle) > 0 {
			// Drop the repeated terminal id: callers want the participants.
			return order, cycle[:len(cycle)-1]
		}
	}
	return order, remaining
}

// FindCyclePath searches depth-first along dependency edges for a cycle that
// starts and ends at start. The returned path repeats start as its final
// element; an empty slice means no such cycle exists.
func FindCyclePath(graph map[string][]string, start string) []string {
	visited := map[string]bool{start: true}
	var path []string

	var dfs func(node string) []string
	dfs = func(node string) []string {
		path = append(path, node)
		deps := append([]string{}, graph[node]...)
		sort.Strings(deps)
		for _, dep := range deps {
			if dep == start {
				found := append([]string{}, path...)
				return append(found, start)
			}
			if visited[dep] {
				continue
			}
			if _, ok := graph[dep]; !ok {
				continue
			}
			visited[dep] = true
			if found := dfs(dep); found != nil {
				return found
			}
		}
		path = path[:len(path)-1]
		return nil
	}

	found := dfs(start)
	if found == nil {
		return []string{}
	}
	return found
}

// Resolve validates every plugin in the set: declared dependencies must
// exist, installed versions must satisfy declared constraints, the
// dependency graph must be acyclic, and the editor host version must fall in
// each plugin's supported range. All failures are collected; none aborts the
// scan.
func (r *Resolver) Resolve(plugins map[string]LoadedPlugin) ResolutionResult {
	result := ResolutionResult{States: make(map[string]State, len(plugins))}

	ids := make([]string, 0, len(plugins))
	graph := make(map[string][]string, len(plugins))
	for id, lp := range plugins {
		ids = append(ids, id)
		deps := make([]string, 0, len(lp.Manifest.Dependencies))
		for _, dep := range lp.Manifest.Dependencies {
			deps = append(deps, dep.ID)
		}
		graph[id] = deps
	}
	sort.Strings(ids)

	for _, id := range ids {
		manifest := plugins[id].Manifest
		state := StateResolved

		if !versionInRange(r.EditorVersion, manifest.MinEditorVersion, manifest.MaxEditorVersion) {
			result.Errors = append(result.Errors, EditorVersionIncompatibleError{
				PluginID:      id,
				EditorVersion: r.EditorVersion,
			})
			state = StateEditorVersionIncompatible
		}

		for _, dep := range manifest.Dependencies {
			installed, ok := plugins[dep.ID]
			if !ok {
				result.Errors = append(result.Errors, MissingDependencyError{
					PluginID:        id,
					MissingPluginID: dep.ID,
				})
				state = StateMissingDependency
				continue
			}
			if dep.Constraint == "" {
				continue
			}
			constraint, err := ParseConstraint(dep.Constraint)
			if err != nil || !constraint.IsSatisfiedBy(installed.Manifest.Version) {
				result.Errors = append(result.Errors, VersionMismatchError{
					PluginID:         id,
					DependencyID:     dep.ID,
					InstalledVersion: installed.Manifest.Version,
					Constraint:       dep.Constraint,
				})
				state = StateVersionMismatch
			}
		}
		result.States[id] = state
	}

	order, cycle := TopologicalSort(graph)
	if len(cycle) > 0 {
		result.Errors = append(result.Errors, CyclicDependencyError{CyclePath: cycle})
		for _, id := range cycle {
			result.States[id] = StateCyclicDependency
		}
	}

	result.IsValid = len(result.Errors) == 0
	if result.IsValid {
		result.LoadOrder = order
	}
	return result
}

// CanLoad validates a single plugin against an already-loaded set, used for
// hot-adding. On success LoadOrder contains just the new plugin's id.
func (r *Resolver) CanLoad(manifest Manifest, loaded map[string]LoadedPlugin) ResolutionResult {
	result := ResolutionResult{States: map[string]State{}}
	state := StateResolved

	if !versionInRange(r.EditorVersion, manifest.MinEditorVersion, manifest.MaxEditorVersion) {
		result.Errors = append(result.Errors, EditorVersionIncompatibleError{
			PluginID:      manifest.ID,
			EditorVersion: r.EditorVersion,
		})
		state = StateEditorVersionIncompatible
	}

	for _, dep := range manifest.Dependencies {
		installed, ok := loaded[dep.ID]
		if !ok {
			result.Errors = append(result.Errors, MissingDependencyError{
				PluginID:        manifest.ID,
				MissingPluginID: dep.ID,
			})
			state = StateMissingDependency
			continue
		}
		if dep.Constraint == "" {
			continue
		}
		constraint, err := ParseConstraint(dep.Constraint)
		if err != nil || !constraint.IsSatisfiedBy(installed.Manifest.Version) {
			result.Errors = append(result.Errors, VersionMismatchError{
				PluginID:         manifest.ID,
				DependencyID:     dep.ID,
				InstalledVersion: installed.Manifest.Version,
				Constraint:       dep.Constraint,
			})
			state = StateVersionMismatch
		}
	}

	result.States[manifest.ID] = state
	result.IsValid = len(result.Errors) == 0
	if result.IsValid {
		result.LoadOrder = []string{manifest.ID}
	}
	return result
}

// CanUnload reports whether the plugin can be removed. It returns false with
// the blocking dependents while any currently-enabled plugin still declares
// the id as a dependency.
func CanUnload(id string, loaded map[string]LoadedPlugin) (bool, []string) {
	var blockers []string
	for otherID, lp := range loaded {
		if otherID == id || !lp.Enabled {
			continue
		}
		for _, dep := range lp.Manifest.Dependencies {
			if dep.ID == id {
				blockers = append(blockers, otherID)
				break
			}
		}
	}
	sort.Strings(blockers)
	return len(blockers) == 0, blockers
}

// GetUnloadOrder returns the exact reverse of the resolved load order.
func (r *Resolver) GetUnloadOrder(plugins map[string]LoadedPlugin) ([]string, error) {
	result := r.Resolve(plugins)
	if !result.IsValid {
		return nil, eris.Errorf("cannot compute unload order: %d resolution errors", len(result.Errors))
	}
	out := make([]string, len(result.LoadOrder))
	for i, id := range result.LoadOrder {
		out[len(out)-1-i] = id
	}
	return out, nil
}
