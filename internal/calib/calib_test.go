package calib_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"pinhole-calib/internal/calib"
	"pinhole-calib/internal/camera"
	"pinhole-calib/internal/optimize"
	"pinhole-calib/pkg/geometry"
)

// twoPointSetup builds the reference calibration problem: two 3D points at
// depth 1000 observed by a camera with focal (300, 300) and principal
// point (200, 150), with the starting estimate offset by (+50, -50) in
// focal and (+20, -20) in center.
func twoPointSetup(t *testing.T) ([]calib.Observation, calib.Params, camera.Intrinsics) {
	t.Helper()
	truth := camera.NewIntrinsics(300, 300, 200, 150)
	scenario := calib.Scenario{
		Points: []geometry.Point3D{
			geometry.NewPoint3D(-150, -75, 1000),
			geometry.NewPoint3D(150, 75, 1000),
		},
		Truth: truth,
	}
	obs, err := scenario.Observations()
	require.NoError(t, err)
	return obs, scenario.PerturbedStart(), truth
}

// TestCalibrate_RecoversTruth verifies the end-to-end reference scenario:
// the perturbed estimate recovers the true intrinsics within 1e-2 in at
// most 30 iterations, with residuals driven below 1e-6.
func TestCalibrate_RecoversTruth(t *testing.T) {
	obs, start, truth := twoPointSetup(t)
	opts := optimize.DefaultOptions()
	opts.MaxIterations = 30

	params, result, err := calib.Calibrate(obs, start, &opts)
	require.NoError(t, err)

	in := params.Intrinsics()
	assert.InDelta(t, truth.Fx, in.Fx, 1e-2, "fx")
	assert.InDelta(t, truth.Fy, in.Fy, 1e-2, "fy")
	assert.InDelta(t, truth.Cx, in.Cx, 1e-2, "cx")
	assert.InDelta(t, truth.Cy, in.Cy, 1e-2, "cy")
	assert.LessOrEqual(t, result.Iterations, 30)

	// Each residual entry must be within 1e-6 of zero.
	for _, o := range obs {
		uv, err := in.Project(o.Point)
		require.NoError(t, err)
		assert.InDelta(t, o.Pixel.X, uv.X, 1e-6, "u residual")
		assert.InDelta(t, o.Pixel.Y, uv.Y, 1e-6, "v residual")
	}
}

// TestCalibrate_RoundTrip verifies the projection round-trip property on
// the full demo rectangle: intrinsics recovered from projections of known
// points reproduce those projections.
func TestCalibrate_RoundTrip(t *testing.T) {
	scenario := calib.DefaultScenario()
	obs, err := scenario.Observations()
	require.NoError(t, err)

	params, result, err := calib.Calibrate(obs, scenario.PerturbedStart(), nil)
	require.NoError(t, err)
	assert.Less(t, result.Cost, 1e-10, "perfect synthetic data must be fit exactly")

	reprojected, err := params.Intrinsics().ProjectAll(scenario.Points)
	require.NoError(t, err)
	for i, o := range obs {
		assert.InDelta(t, o.Pixel.X, reprojected[i].X, 1e-6)
		assert.InDelta(t, o.Pixel.Y, reprojected[i].Y, 1e-6)
	}
}

// TestCalibrate_ZeroIterations verifies that a zero budget returns the
// starting groups unchanged along with their cost.
func TestCalibrate_ZeroIterations(t *testing.T) {
	obs, start, _ := twoPointSetup(t)
	opts := optimize.DefaultOptions()
	opts.MaxIterations = 0

	params, result, err := calib.Calibrate(obs, start, &opts)
	require.NoError(t, err)
	assert.Equal(t, start, params, "parameters must be unchanged")
	assert.Positive(t, result.Cost, "perturbed start must have nonzero cost")
	assert.Zero(t, result.Iterations)
}

// TestCalibrate_InputErrors verifies the unrecoverable input conditions:
// no observations, and a point on the image plane.
func TestCalibrate_InputErrors(t *testing.T) {
	_, start, _ := twoPointSetup(t)

	_, _, err := calib.Calibrate(nil, start, nil)
	assert.ErrorIs(t, err, calib.ErrNoObservations)

	bad := []calib.Observation{{
		Point: geometry.NewPoint3D(10, 10, 0),
		Pixel: geometry.NewPoint2D(100, 100),
	}}
	_, _, err = calib.Calibrate(bad, start, nil)
	assert.Error(t, err, "zero depth must be rejected")
}

// TestParams_VectorRoundTrip verifies the flatten/unflatten pair preserves
// the grouping contract in the fx, fy, cx, cy order.
func TestParams_VectorRoundTrip(t *testing.T) {
	p := calib.Params{
		Focal:  geometry.NewPoint2D(310.5, 290.25),
		Center: geometry.NewPoint2D(199, 151.75),
	}
	v := p.Vector()
	assert.Equal(t, []float64{310.5, 290.25, 199, 151.75}, v)
	assert.Equal(t, p, calib.ParamsFromVector(v))

	in := camera.NewIntrinsics(300, 301, 200, 149)
	assert.Equal(t, in, calib.ParamsFromIntrinsics(in).Intrinsics())
}

// TestNewProblem_JacobiansAgree verifies the analytic Jacobian against the
// finite-difference fallback on the same correspondences.
func TestNewProblem_JacobiansAgree(t *testing.T) {
	obs, start, _ := twoPointSetup(t)

	analytic := calib.NewProblem(obs, start, false)
	numeric := calib.NewProblem(obs, start, true)
	require.NotNil(t, analytic.Jac, "analytic problem must carry a Jacobian")
	require.Nil(t, numeric.Jac, "numeric problem defers to the solver fallback")

	x := start.Vector()
	got := mat.NewDense(analytic.Size, analytic.Dim, nil)
	analytic.Jac(got, x)

	nj := optimize.NumJac{Func: numeric.Func}
	want := mat.NewDense(numeric.Size, numeric.Dim, nil)
	nj.Jac(want, x)

	for i := 0; i < analytic.Size; i++ {
		for j := 0; j < analytic.Dim; j++ {
			assert.InDelta(t, want.At(i, j), got.At(i, j), 1e-4, "entry (%d,%d)", i, j)
		}
	}
}

// TestCalibrate_NumericJacobian verifies that the finite-difference path
// also recovers the truth, since the Jacobian strategy is pluggable.
func TestCalibrate_NumericJacobian(t *testing.T) {
	obs, start, truth := twoPointSetup(t)

	res, err := optimize.Minimize(calib.NewProblem(obs, start, true), nil)
	require.NoError(t, err)

	in := calib.ParamsFromVector(res.X).Intrinsics()
	assert.InDelta(t, truth.Fx, in.Fx, 1e-2)
	assert.InDelta(t, truth.Fy, in.Fy, 1e-2)
	assert.InDelta(t, truth.Cx, in.Cx, 1e-2)
	assert.InDelta(t, truth.Cy, in.Cy, 1e-2)
}

// TestRandomScenario_Reproducible verifies that scenarios are a pure
// function of the seed.
func TestRandomScenario_Reproducible(t *testing.T) {
	a := calib.RandomScenario(rand.New(rand.NewSource(42)))
	b := calib.RandomScenario(rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b, "same seed must produce the same scenario")

	c := calib.RandomScenario(rand.New(rand.NewSource(43)))
	assert.NotEqual(t, a.Truth, c.Truth, "different seeds should differ")
}

// TestRandomScenario_Calibratable verifies that seeded random scenarios
// are themselves solvable from a random nearby start.
func TestRandomScenario_Calibratable(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	scenario := calib.RandomScenario(rng)
	obs, err := scenario.Observations()
	require.NoError(t, err)

	params, result, err := calib.Calibrate(obs, scenario.RandomStart(rng, 80, 40), nil)
	require.NoError(t, err)
	assert.Less(t, result.Cost, 1e-8)

	in := params.Intrinsics()
	assert.InDelta(t, scenario.Truth.Fx, in.Fx, 1e-2)
	assert.InDelta(t, scenario.Truth.Fy, in.Fy, 1e-2)
	assert.InDelta(t, scenario.Truth.Cx, in.Cx, 1e-2)
	assert.InDelta(t, scenario.Truth.Cy, in.Cy, 1e-2)
}
