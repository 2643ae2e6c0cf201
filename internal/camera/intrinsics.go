// Package camera models a pinhole camera and its perspective projection.
package camera

import (
	"errors"
	"fmt"
	"math"

	"pinhole-calib/pkg/geometry"
)

// ErrBadDepth is returned when a point lies on or behind the image plane,
// where the perspective projection is undefined.
var ErrBadDepth = errors.New("point depth must be strictly positive")

// Intrinsics holds the parameters of the pinhole projection: focal lengths
// and principal point, both in pixels.
type Intrinsics struct {
	Fx float64 `json:"fx"`
	Fy float64 `json:"fy"`
	Cx float64 `json:"cx"`
	Cy float64 `json:"cy"`
}

// NewIntrinsics creates Intrinsics from focal lengths and principal point.
func NewIntrinsics(fx, fy, cx, cy float64) Intrinsics {
	return Intrinsics{Fx: fx, Fy: fy, Cx: cx, Cy: cy}
}

// CheckValid reports whether the intrinsics describe a usable camera:
// finite values and strictly positive focal lengths.
func (in Intrinsics) CheckValid() error {
	for _, v := range [4]float64{in.Fx, in.Fy, in.Cx, in.Cy} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite intrinsics %+v", in)
		}
	}
	if in.Fx <= 0 || in.Fy <= 0 {
		return fmt.Errorf("focal lengths must be positive, got (%g, %g)", in.Fx, in.Fy)
	}
	return nil
}

// Project maps a 3D point in camera coordinates to 2D pixel coordinates:
//
//	u = fx * X/Z + cx
//	v = fy * Y/Z + cy
//
// Returns ErrBadDepth if the point has non-positive depth.
func (in Intrinsics) Project(p geometry.Point3D) (geometry.Point2D, error) {
	if p.Z <= 0 {
		return geometry.Point2D{}, fmt.Errorf("projecting (%g, %g, %g): %w", p.X, p.Y, p.Z, ErrBadDepth)
	}
	return geometry.Point2D{
		X: in.Fx*p.X/p.Z + in.Cx,
		Y: in.Fy*p.Y/p.Z + in.Cy,
	}, nil
}

// ProjectAll projects a set of 3D points. It fails on the first point with
// non-positive depth.
func (in Intrinsics) ProjectAll(points []geometry.Point3D) ([]geometry.Point2D, error) {
	projected := make([]geometry.Point2D, len(points))
	for i, p := range points {
		uv, err := in.Project(p)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		projected[i] = uv
	}
	return projected, nil
}
