// Package calib assembles the camera-calibration least-squares problem:
// recovering pinhole intrinsics from 2D-3D point correspondences.
package calib

import (
	"pinhole-calib/internal/camera"
	"pinhole-calib/pkg/geometry"
)

// Params groups the intrinsic parameters the way callers think about them:
// a focal-length pair and a principal-point pair. The solver works on the
// flat vector form; Vector and ParamsFromVector are the two sides of that
// contract.
type Params struct {
	Focal  geometry.Point2D `json:"focal"`
	Center geometry.Point2D `json:"center"`
}

// ParamsFromIntrinsics splits camera intrinsics into parameter groups.
func ParamsFromIntrinsics(in camera.Intrinsics) Params {
	return Params{
		Focal:  geometry.Point2D{X: in.Fx, Y: in.Fy},
		Center: geometry.Point2D{X: in.Cx, Y: in.Cy},
	}
}

// Intrinsics converts the parameter groups back to camera intrinsics.
func (p Params) Intrinsics() camera.Intrinsics {
	return camera.Intrinsics{Fx: p.Focal.X, Fy: p.Focal.Y, Cx: p.Center.X, Cy: p.Center.Y}
}

// Vector flattens the groups into the solver's parameter vector, ordered
// fx, fy, cx, cy.
func (p Params) Vector() []float64 {
	return []float64{p.Focal.X, p.Focal.Y, p.Center.X, p.Center.Y}
}

// ParamsFromVector rebuilds the groups from a flat parameter vector in the
// order produced by Vector.
func ParamsFromVector(x []float64) Params {
	return Params{
		Focal:  geometry.Point2D{X: x[0], Y: x[1]},
		Center: geometry.Point2D{X: x[2], Y: x[3]},
	}
}

// numParams is the dimensionality of the flat parameter vector.
const numParams = 4
