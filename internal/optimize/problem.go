package optimize

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ResidualFunc evaluates the residual vector at x, writing the result into
// dst. len(dst) is the residual count and len(x) the parameter count; the
// function must not retain either slice.
type ResidualFunc func(dst, x []float64)

// JacobianFunc writes the residual Jacobian at x into dst, one row per
// residual and one column per parameter.
type JacobianFunc func(dst *mat.Dense, x []float64)

// Problem describes a nonlinear least-squares problem: find x minimizing
// ½‖Func(x)‖².
type Problem struct {
	// Dim is the number of parameters.
	Dim int
	// Size is the number of residuals.
	Size int
	// Func evaluates the residual vector.
	Func ResidualFunc
	// Jac evaluates the Jacobian. When nil, forward finite differences of
	// Func are used.
	Jac JacobianFunc
	// InitParams is the starting estimate, of length Dim. The solver never
	// mutates it.
	InitParams []float64
}

// defaultStep is the base relative step for finite differencing.
const defaultStep = 1e-6

// NumJac computes a Jacobian by forward finite differences of a residual
// function. It is the fallback used when a problem supplies no analytic
// Jacobian.
type NumJac struct {
	Func ResidualFunc
	// Step overrides the base differencing step. Zero means defaultStep.
	// The step applied to parameter j is scaled by max(1, |x_j|).
	Step float64
}

// Jac implements JacobianFunc.
func (nj *NumJac) Jac(dst *mat.Dense, x []float64) {
	rows, cols := dst.Dims()
	base := make([]float64, rows)
	perturbed := make([]float64, rows)
	nj.Func(base, x)

	xp := make([]float64, cols)
	copy(xp, x)
	for j := 0; j < cols; j++ {
		step := nj.Step
		if step == 0 {
			step = defaultStep
		}
		h := step * math.Max(1, math.Abs(x[j]))
		xp[j] = x[j] + h
		nj.Func(perturbed, xp)
		xp[j] = x[j]
		for i := 0; i < rows; i++ {
			dst.Set(i, j, (perturbed[i]-base[i])/h)
		}
	}
}
