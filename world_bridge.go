package keeneyes

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/keen-eyes/keeneyes/bridge"
	"github.com/keen-eyes/keeneyes/eql"
	"github.com/keen-eyes/keeneyes/filter"
	"github.com/keen-eyes/keeneyes/types"
)

var _ bridge.Provider = &World{}

// WorldStats satisfies the bridge provider surface.
func (w *World) WorldStats() types.WorldStats { return w.Stats() }

// EntityByName satisfies the bridge provider surface.
func (w *World) EntityByName(name string) (types.Entity, bool) {
	return w.GetEntityByName(name)
}

// EntitiesWithTag satisfies the bridge provider surface.
func (w *World) EntitiesWithTag(tag string) []types.Entity {
	return w.QueryByTag(tag)
}

// ParseQuery compiles query text against this world's registered components.
func (w *World) ParseQuery(query string) (filter.ComponentFilter, error) {
	return eql.Parse(query, func(name string) (types.ComponentMetadata, error) {
		return w.registry.GetByName(name)
	})
}

// QueryEntities runs a query-language expression and returns the matching
// entities.
func (w *World) QueryEntities(query string) ([]types.Entity, error) {
	f, err := w.ParseQuery(query)
	if err != nil {
		return nil, err
	}
	return w.Search(f).Collect(), nil
}

// DebugState dumps every live entity with its name, tags, and JSON-encoded
// component values.
func (w *World) DebugState() ([]types.EntityStateElement, error) {
	var out []types.EntityStateElement
	for _, archID := range w.table.SearchFrom(filter.All(), 0) {
		arch := w.table.Archetype(archID)
		comps := arch.Components()
		for row, e := range arch.Entities() {
			elem := types.EntityStateElement{
				Entity:     e,
				Name:       w.entityNames[e],
				Tags:       w.GetTags(e),
				Components: make(map[string]json.RawMessage, len(comps)),
			}
			for _, md := range comps {
				if md.IsTag() {
					continue
				}
				v, err := arch.Value(md.ID(), row)
				if err != nil {
					return nil, err
				}
				encoded, err := md.Encode(v)
				if err != nil {
					return nil, eris.Wrapf(err, "failed to encode component %q on %s", md.Name(), e)
				}
				elem.Components[md.Name()] = encoded
			}
			out = append(out, elem)
		}
	}
	return out, nil
}

// StartBridge builds a bridge server over this world on the configured port.
// The caller owns the returned server's lifecycle.
func (w *World) StartBridge() *bridge.Server {
	return bridge.NewServer(
		bridge.NewDispatcher(w),
		bridge.WithPort(w.cfg.BridgePort),
		bridge.WithServerLogger(w.logger),
	)
}
