package types

import (
	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"
	"github.com/wI2L/jsondiff"
)

// ComponentID identifies a registered component type within a single world.
type ComponentID int

// ArchetypeID identifies a group of entities sharing an identical component
// set. IDs are assigned in archetype creation order.
type ArchetypeID int

// Component is the interface user component structs implement. A component is
// a plain data record with value semantics; Name must be unique per world.
type Component interface {
	// Name returns the registered name of the component.
	Name() string
}

// ComponentMetadata wraps a user-defined Component struct with the bookkeeping
// the storage layer and serializers need.
type ComponentMetadata interface {
	// SetID assigns the registry ID of this component. It may only be set once.
	SetID(ComponentID) error
	// ID returns the registry ID of the component.
	ID() ComponentID
	// IsTag reports whether the component is a zero-size, presence-only tag.
	IsTag() bool
	// Encode marshals a component value to JSON.
	Encode(any) ([]byte, error)
	// Decode unmarshals JSON into a component value of the underlying type.
	Decode([]byte) (any, error)
	// GetSchema returns the JSON schema captured at registration.
	GetSchema() []byte

	Component
}

// SerializeComponentSchema reflects the JSON schema for a component struct.
func SerializeComponentSchema(component Component) ([]byte, error) {
	componentSchema := jsonschema.Reflect(component)
	schema, err := componentSchema.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "component must be json serializable")
	}
	return schema, nil
}

// IsSchemaValid reports whether two JSON schemas are identical.
func IsSchemaValid(jsonSchemaBytes1 []byte, jsonSchemaBytes2 []byte) (bool, error) {
	patch, err := jsondiff.CompareJSON(jsonSchemaBytes1, jsonSchemaBytes2)
	if err != nil {
		return false, eris.Wrap(err, "")
	}
	return patch.String() == "", nil
}
