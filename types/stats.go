package types

import "github.com/goccy/go-json"

// WorldStats is a read-only snapshot of world-level counters, surfaced by the
// automation bridge's state.getWorldStats command.
type WorldStats struct {
	EntityCount    int `json:"entityCount"`
	ArchetypeCount int `json:"archetypeCount"`
	ComponentCount int `json:"componentCount"`
	TagCount       int `json:"tagCount"`
	SystemCount    int `json:"systemCount"`
}

// EntityStateElement describes one entity for debug/bridge output.
type EntityStateElement struct {
	Entity     Entity                     `json:"entity"`
	Name       string                     `json:"name,omitempty"`
	Tags       []string                   `json:"tags,omitempty"`
	Components map[string]json.RawMessage `json:"components"`
}
