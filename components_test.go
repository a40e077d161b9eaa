package keeneyes_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/keen-eyes/keeneyes"
)

type Position struct {
	X float64
	Y float64
}

func (Position) Name() string { return "position" }

type Velocity struct {
	DX float64
	DY float64
}

func (Velocity) Name() string { return "velocity" }

type Health struct {
	Current int
	Max     int
}

func (Health) Name() string { return "health" }

type PlayerTag struct{}

func (PlayerTag) Name() string { return "player" }

type Counter struct {
	Value int
}

func (Counter) Name() string { return "counter" }

type GameState struct {
	Score int
	Level int
}

func (GameState) Name() string { return "game_state" }

// newTestWorld builds a quiet world with the shared test components
// registered and saves pointed at a throwaway directory.
func newTestWorld(t *testing.T, opts ...keeneyes.WorldOption) *keeneyes.World {
	t.Helper()
	opts = append([]keeneyes.WorldOption{
		keeneyes.WithCustomLogger(zerolog.Nop()),
		keeneyes.WithSaveDirectory(t.TempDir()),
	}, opts...)
	w, err := keeneyes.NewWorld(opts...)
	require.NoError(t, err)

	require.NoError(t, keeneyes.RegisterComponent[Position](w))
	require.NoError(t, keeneyes.RegisterComponent[Velocity](w))
	require.NoError(t, keeneyes.RegisterComponent[Health](w))
	require.NoError(t, keeneyes.RegisterComponent[Counter](w))
	require.NoError(t, keeneyes.RegisterTag[PlayerTag](w))
	return w
}
