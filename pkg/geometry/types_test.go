package geometry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pinhole-calib/pkg/geometry"
)

// TestPoint2D_Ops verifies the basic vector arithmetic.
func TestPoint2D_Ops(t *testing.T) {
	a := geometry.NewPoint2D(3, 4)
	b := geometry.NewPoint2D(1, -2)

	assert.Equal(t, geometry.NewPoint2D(4, 2), a.Add(b))
	assert.Equal(t, geometry.NewPoint2D(2, 6), a.Sub(b))
	assert.Equal(t, geometry.NewPoint2D(6, 8), a.Scale(2))
	assert.InDelta(t, 5.0, a.Distance(geometry.Point2D{}), 1e-12)
}

// TestPoint3D_Norm verifies the 3D length.
func TestPoint3D_Norm(t *testing.T) {
	assert.InDelta(t, 7.0, geometry.NewPoint3D(2, 3, 6).Norm(), 1e-12)
}

// TestRect_Corners verifies corner ordering: top-left, top-right,
// bottom-right, bottom-left.
func TestRect_Corners(t *testing.T) {
	r := geometry.NewRect(-150, -75, 300, 150)
	corners := r.Corners()

	assert.Equal(t, geometry.NewPoint2D(-150, -75), corners[0])
	assert.Equal(t, geometry.NewPoint2D(150, -75), corners[1])
	assert.Equal(t, geometry.NewPoint2D(150, 75), corners[2])
	assert.Equal(t, geometry.NewPoint2D(-150, 75), corners[3])
	assert.Equal(t, geometry.NewPoint2D(0, 0), r.Center())
	assert.True(t, r.Contains(geometry.NewPoint2D(0, 0)))
	assert.False(t, r.Contains(geometry.NewPoint2D(200, 0)))
}

// TestBoundingBox verifies the bounding box and centroid of a point set.
func TestBoundingBox(t *testing.T) {
	points := []geometry.Point2D{{X: 1, Y: 2}, {X: -3, Y: 5}, {X: 4, Y: -1}}

	box := geometry.BoundingBox(points)
	assert.Equal(t, geometry.NewRect(-3, -1, 7, 6), box)

	c := geometry.Centroid(points)
	assert.InDelta(t, 2.0/3.0, c.X, 1e-12)
	assert.InDelta(t, 2.0, c.Y, 1e-12)

	assert.Equal(t, geometry.Rect{}, geometry.BoundingBox(nil))
	assert.Equal(t, geometry.Point2D{}, geometry.Centroid(nil))
}
