package app_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinhole-calib/internal/app"
)

// TestState_Lifecycle walks the demo flow: perturb the estimate, calibrate,
// and observe the recovered truth committed as the current estimate.
func TestState_Lifecycle(t *testing.T) {
	state, err := app.NewState()
	require.NoError(t, err)

	truth := state.Scenario().Truth
	assert.NotEqual(t, truth, state.Intrinsics(), "demo start must be perturbed")
	assert.Nil(t, state.LastRun())

	notified := 0
	state.Subscribe(func() { notified++ })

	state.Perturb(rand.New(rand.NewSource(3)))
	assert.Equal(t, 1, notified, "perturb must notify")

	run, err := state.Calibrate(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, notified, "calibrate must notify")
	require.NotNil(t, state.LastRun())
	assert.Less(t, run.Result.Cost, 1e-8)

	got := state.Intrinsics()
	assert.InDelta(t, truth.Fx, got.Fx, 1e-2)
	assert.InDelta(t, truth.Fy, got.Fy, 1e-2)
	assert.InDelta(t, truth.Cx, got.Cx, 1e-2)
	assert.InDelta(t, truth.Cy, got.Cy, 1e-2)
}

// TestState_PerturbReproducible verifies that perturbation is a pure
// function of the random source.
func TestState_PerturbReproducible(t *testing.T) {
	a, err := app.NewState()
	require.NoError(t, err)
	b, err := app.NewState()
	require.NoError(t, err)

	a.Perturb(rand.New(rand.NewSource(11)))
	b.Perturb(rand.New(rand.NewSource(11)))
	assert.Equal(t, a.Intrinsics(), b.Intrinsics())
}
