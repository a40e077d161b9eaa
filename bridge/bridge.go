// Package bridge exposes read-only world state to external test drivers and
// editor tooling over a small command protocol. Commands are namespaced
// ("state.getEntityCount") and dispatched to handlers that serialize their
// results as JSON.
package bridge

import (
	"github.com/goccy/go-json"

	"github.com/keen-eyes/keeneyes/types"
)

// Request is one command invocation from a test driver.
type Request struct {
	ID      string          `json:"id"`
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// Response carries the result of a command back to the driver. Exactly one of
// Data and Error is meaningful, selected by Success.
type Response struct {
	ID      string          `json:"id"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Provider is the read-only world surface the bridge serves from. The world
// implements it; tests can substitute fakes.
type Provider interface {
	EntityCount() int
	WorldStats() types.WorldStats
	EntityByName(name string) (types.Entity, bool)
	EntitiesWithTag(tag string) []types.Entity
	QueryEntities(query string) ([]types.Entity, error)
	DebugState() ([]types.EntityStateElement, error)
}
