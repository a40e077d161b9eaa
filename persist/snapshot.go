package persist

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/keen-eyes/keeneyes/types"
)

// Format selects the on-disk encoding of a slot payload.
type Format int

const (
	FormatJSON Format = iota
	FormatBinary
)

func (f Format) String() string {
	if f == FormatBinary {
		return "binary"
	}
	return "json"
}

// EntityRecord is one persisted entity: its old handle (so loads can report
// an old-to-new mapping), name, tags, parent edge, and component payloads
// keyed by registered component name.
type EntityRecord struct {
	Entity     types.Entity               `json:"entity"`
	Name       string                     `json:"name,omitempty"`
	Tags       []string                   `json:"tags,omitempty"`
	Parent     types.Entity               `json:"parent,omitempty"`
	Components map[string]json.RawMessage `json:"components"`
}

// Snapshot is a serialized view of world state, independent of the encoding
// it is stored with.
type Snapshot struct {
	ID       uuid.UUID      `json:"id"`
	SavedAt  time.Time      `json:"savedAt"`
	Entities []EntityRecord `json:"entities"`
}

// NewSnapshot stamps an empty snapshot with a fresh id and the current time.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		ID:      uuid.New(),
		SavedAt: time.Now().UTC(),
	}
}

// SlotInfo is the metadata surfaced for a stored slot.
type SlotInfo struct {
	SlotName    string    `json:"slotName"`
	ID          uuid.UUID `json:"id"`
	SavedAt     time.Time `json:"savedAt"`
	Format      Format    `json:"format"`
	EntityCount int       `json:"entityCount"`
	Encrypted   bool      `json:"encrypted"`
	SizeBytes   int       `json:"sizeBytes"`
}
