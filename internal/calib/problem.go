package calib

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"pinhole-calib/internal/optimize"
	"pinhole-calib/pkg/geometry"
)

// ErrNoObservations is returned when a calibration is attempted without any
// point correspondences.
var ErrNoObservations = errors.New("no observations")

// Observation is a single 2D-3D correspondence: a known 3D point in camera
// coordinates and the pixel it was observed at.
type Observation struct {
	Point geometry.Point3D `json:"point"`
	Pixel geometry.Point2D `json:"pixel"`
}

// checkObservations rejects correspondences the projection model cannot
// explain: points on or behind the image plane.
func checkObservations(obs []Observation) error {
	if len(obs) == 0 {
		return ErrNoObservations
	}
	for i, o := range obs {
		if o.Point.Z <= 0 {
			return fmt.Errorf("observation %d: depth %g not strictly positive", i, o.Point.Z)
		}
	}
	return nil
}

// NewProblem builds the least-squares problem for the given correspondences
// and starting estimate. Residuals are laid out two per observation
// (u error, then v error), so the residual vector has length 2*len(obs).
//
// The residual of observation i against parameter vector x = (fx, fy, cx, cy):
//
//	r[2i]   = u_i - (fx * X/Z + cx)
//	r[2i+1] = v_i - (fy * Y/Z + cy)
//
// The Jacobian is supplied in closed form; pass useNumJac to fall back to
// finite differences instead (the two agree to differencing accuracy).
func NewProblem(obs []Observation, initial Params, useNumJac bool) optimize.Problem {
	p := optimize.Problem{
		Dim:        numParams,
		Size:       2 * len(obs),
		Func:       residualFunc(obs),
		InitParams: initial.Vector(),
	}
	if !useNumJac {
		p.Jac = jacobianFunc(obs)
	}
	return p
}

func residualFunc(obs []Observation) optimize.ResidualFunc {
	return func(dst, x []float64) {
		fx, fy, cx, cy := x[0], x[1], x[2], x[3]
		for i, o := range obs {
			dst[2*i] = o.Pixel.X - (fx*o.Point.X/o.Point.Z + cx)
			dst[2*i+1] = o.Pixel.Y - (fy*o.Point.Y/o.Point.Z + cy)
		}
	}
}

// jacobianFunc returns the analytic Jacobian of the projection residual.
// The projection is linear in each intrinsic parameter, so the entries are
// constant in x: ∂r_u/∂fx = -X/Z, ∂r_u/∂cx = -1, and Y/Z likewise for the
// v row. Cross terms are zero.
func jacobianFunc(obs []Observation) optimize.JacobianFunc {
	return func(dst *mat.Dense, _ []float64) {
		dst.Zero()
		for i, o := range obs {
			dst.Set(2*i, 0, -o.Point.X/o.Point.Z)
			dst.Set(2*i, 2, -1)
			dst.Set(2*i+1, 1, -o.Point.Y/o.Point.Z)
			dst.Set(2*i+1, 3, -1)
		}
	}
}
