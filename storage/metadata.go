package storage

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/keen-eyes/keeneyes/types"
)

// metadata is the concrete ComponentMetadata for a user component struct T.
type metadata[T types.Component] struct {
	id     types.ComponentID
	idSet  bool
	name   string
	isTag  bool
	schema []byte
}

var _ types.ComponentMetadata = &metadata[nilComponent]{}
var _ columnFactory = &metadata[nilComponent]{}

type nilComponent struct{}

func (nilComponent) Name() string { return "" }

// newMetadata captures the schema of T and wraps it for registration.
func newMetadata[T types.Component](isTag bool) (*metadata[T], error) {
	var zero T
	schema, err := types.SerializeComponentSchema(zero)
	if err != nil {
		return nil, err
	}
	return &metadata[T]{
		name:   zero.Name(),
		isTag:  isTag,
		schema: schema,
	}, nil
}

func (m *metadata[T]) Name() string { return m.name }

func (m *metadata[T]) SetID(id types.ComponentID) error {
	if m.idSet {
		// IDs are immutable once assigned; re-registration reuses the
		// original metadata instead.
		if m.id == id {
			return nil
		}
		return eris.Wrapf(ErrComponentIDAlreadySet, "component %q already has id %d", m.name, m.id)
	}
	m.id = id
	m.idSet = true
	return nil
}

func (m *metadata[T]) ID() types.ComponentID { return m.id }

func (m *metadata[T]) IsTag() bool { return m.isTag }

func (m *metadata[T]) GetSchema() []byte { return m.schema }

func (m *metadata[T]) Encode(v any) ([]byte, error) {
	switch val := v.(type) {
	case T:
		return json.Marshal(val)
	case *T:
		return json.Marshal(val)
	default:
		return nil, eris.Errorf("cannot encode %T as component %q", v, m.name)
	}
}

func (m *metadata[T]) Decode(b []byte) (any, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, eris.Wrapf(err, "cannot decode component %q", m.name)
	}
	return t, nil
}

func (m *metadata[T]) newColumn() column {
	return &typedColumn[T]{}
}
