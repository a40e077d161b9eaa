package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keen-eyes/keeneyes/storage"
	"github.com/keen-eyes/keeneyes/types"
)

type health struct {
	Current int
	Max     int
}

func (health) Name() string { return "health" }

type velocity struct {
	DX float64
	DY float64
}

func (velocity) Name() string { return "velocity" }

type frozen struct{}

func (frozen) Name() string { return "frozen" }

// healthImposter collides with health's registered name but has a different
// shape.
type healthImposter struct {
	HP string
}

func (healthImposter) Name() string { return "health" }

func TestRegisterAssignsSequentialIDs(t *testing.T) {
	r := storage.NewRegistry()

	first, err := storage.RegisterComponent[health](r, false)
	require.NoError(t, err)
	second, err := storage.RegisterComponent[velocity](r, false)
	require.NoError(t, err)

	assert.Equal(t, types.ComponentID(0), first.ID())
	assert.Equal(t, types.ComponentID(1), second.ID())
	assert.Equal(t, 2, r.Len())
}

func TestRegisterSameTypeTwiceReturnsOriginal(t *testing.T) {
	r := storage.NewRegistry()

	first, err := storage.RegisterComponent[health](r, false)
	require.NoError(t, err)
	again, err := storage.RegisterComponent[health](r, false)
	require.NoError(t, err)

	assert.Equal(t, first.ID(), again.ID())
	assert.Equal(t, 1, r.Len())
}

func TestRegisterConflictingSchemaFails(t *testing.T) {
	r := storage.NewRegistry()

	_, err := storage.RegisterComponent[health](r, false)
	require.NoError(t, err)

	_, err = storage.RegisterComponent[healthImposter](r, false)
	assert.ErrorContains(t, err, "health")
}

func TestRegisterTagDataMismatchFails(t *testing.T) {
	r := storage.NewRegistry()

	_, err := storage.RegisterComponent[frozen](r, true)
	require.NoError(t, err)

	_, err = storage.RegisterComponent[frozen](r, false)
	assert.Error(t, err)
}

func TestGetByNameAndID(t *testing.T) {
	r := storage.NewRegistry()

	md, err := storage.RegisterComponent[velocity](r, false)
	require.NoError(t, err)

	byName, err := r.GetByName("velocity")
	require.NoError(t, err)
	assert.Equal(t, md.ID(), byName.ID())

	byID, err := r.GetByID(md.ID())
	require.NoError(t, err)
	assert.Equal(t, "velocity", byID.Name())

	_, err = r.GetByName("missing")
	assert.ErrorIs(t, err, storage.ErrComponentNotRegistered)
}
