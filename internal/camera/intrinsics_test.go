package camera_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinhole-calib/internal/camera"
	"pinhole-calib/pkg/geometry"
)

// TestProject_Formula verifies the perspective division against values
// computed by hand.
func TestProject_Formula(t *testing.T) {
	in := camera.NewIntrinsics(300, 300, 200, 150)

	uv, err := in.Project(geometry.NewPoint3D(-150, -75, 1000))
	require.NoError(t, err)
	assert.InDelta(t, 155, uv.X, 1e-12, "u = 300*(-0.15) + 200")
	assert.InDelta(t, 127.5, uv.Y, 1e-12, "v = 300*(-0.075) + 150")

	// A point on the optical axis lands exactly on the principal point.
	uv, err = in.Project(geometry.NewPoint3D(0, 0, 500))
	require.NoError(t, err)
	assert.Equal(t, geometry.NewPoint2D(200, 150), uv)
}

// TestProject_BadDepth verifies that zero and negative depths are rejected.
func TestProject_BadDepth(t *testing.T) {
	in := camera.NewIntrinsics(300, 300, 200, 150)

	_, err := in.Project(geometry.NewPoint3D(1, 1, 0))
	assert.ErrorIs(t, err, camera.ErrBadDepth, "zero depth is undefined")

	_, err = in.Project(geometry.NewPoint3D(1, 1, -10))
	assert.ErrorIs(t, err, camera.ErrBadDepth, "negative depth is undefined")

	_, err = in.ProjectAll([]geometry.Point3D{
		{X: 0, Y: 0, Z: 100},
		{X: 1, Y: 1, Z: -1},
	})
	assert.ErrorIs(t, err, camera.ErrBadDepth, "ProjectAll must surface the bad point")
}

// TestCheckValid verifies the intrinsics validity rules.
func TestCheckValid(t *testing.T) {
	assert.NoError(t, camera.NewIntrinsics(300, 300, 200, 150).CheckValid())
	assert.Error(t, camera.NewIntrinsics(0, 300, 200, 150).CheckValid(), "zero focal")
	assert.Error(t, camera.NewIntrinsics(300, -1, 200, 150).CheckValid(), "negative focal")
	assert.Error(t, camera.NewIntrinsics(300, 300, math.NaN(), 150).CheckValid(), "NaN center")
	assert.Error(t, camera.NewIntrinsics(math.Inf(1), 300, 200, 150).CheckValid(), "infinite focal")
}
