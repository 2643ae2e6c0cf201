package calib

import (
	"fmt"

	"pinhole-calib/internal/optimize"
)

// Calibrate refines the intrinsic parameter groups so that the projections
// of the observed 3D points match the observed pixels in the least-squares
// sense. It returns the refined groups in the same shape as the input,
// together with the solver result (final cost of ½‖r‖², iteration counts,
// termination status).
//
// An exhausted iteration budget is not an error; inspect the result's
// Status and Cost to judge the estimate. Errors are reserved for unusable
// input: no observations, non-positive depths, or a malformed starting
// estimate.
func Calibrate(obs []Observation, initial Params, opts *optimize.Options) (Params, optimize.Result, error) {
	if err := checkObservations(obs); err != nil {
		return initial, optimize.Result{}, fmt.Errorf("calibrate: %w", err)
	}
	res, err := optimize.Minimize(NewProblem(obs, initial, false), opts)
	if err != nil {
		return initial, res, fmt.Errorf("calibrate: %w", err)
	}
	return ParamsFromVector(res.X), res, nil
}
