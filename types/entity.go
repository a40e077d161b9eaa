package types

import "fmt"

// Entity is a handle to a world entity. The ID is an index into the world's
// entity table and the Version is the generation counter for that index.
// A handle is only valid while its Version matches the live generation; stale
// handles left over from a despawn are detected rather than dereferenced.
type Entity struct {
	ID      uint32 `json:"id"`
	Version uint32 `json:"version"`
}

// Null is the all-zero sentinel entity. It is never alive.
var Null = Entity{}

// IsNull reports whether e is the null sentinel.
func (e Entity) IsNull() bool {
	return e == Null
}

func (e Entity) String() string {
	return fmt.Sprintf("Entity(%d:%d)", e.ID, e.Version)
}
