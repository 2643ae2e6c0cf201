// Package optimize implements a Levenberg-Marquardt solver for nonlinear
// least-squares problems.
//
// The solver iterates on the damped normal equations
//
//	(JᵀJ + λ·diag(JᵀJ)) Δ = -Jᵀr
//
// accepting steps that reduce the cost ½‖r‖² and adapting the damping
// factor λ between the Gauss-Newton (λ→0) and gradient-descent (λ→∞)
// regimes. It is a pure in-memory routine: it owns no global state, so
// independent invocations are safe to run concurrently.
package optimize

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Status describes how a minimization run terminated.
type Status int

const (
	// StatusIterationLimit means the iteration budget ran out before any
	// tolerance was met. The result is the best estimate found, not an error.
	StatusIterationLimit Status = iota
	// StatusConverged means the relative cost decrease fell below CostTol.
	StatusConverged
	// StatusSmallStep means the accepted step norm fell below StepTol.
	StatusSmallStep
	// StatusLambdaLimit means damping grew past MaxLambda without an
	// acceptable step: the solver diverged and returned the last good estimate.
	StatusLambdaLimit
)

// String returns a short human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusIterationLimit:
		return "iteration limit"
	case StatusConverged:
		return "converged"
	case StatusSmallStep:
		return "small step"
	case StatusLambdaLimit:
		return "damping limit"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Options tunes the solver. Zero-valued fields take the defaults from
// DefaultOptions.
type Options struct {
	// MaxIterations bounds the number of outer iterations. Zero returns the
	// initial estimate and its cost unchanged.
	MaxIterations int
	// CostTol stops when the relative cost decrease of an accepted step
	// falls below it.
	CostTol float64
	// StepTol stops when the norm of an accepted step falls below
	// StepTol * (1 + ‖x‖).
	StepTol float64
	// GradTol stops when the infinity norm of the gradient Jᵀr falls
	// below it. This is what fires at an exact minimum, where no trial
	// step can decrease the cost.
	GradTol float64
	// InitLambda is the starting damping factor. Must be positive.
	InitLambda float64
	// LambdaUp multiplies λ after a rejected step.
	LambdaUp float64
	// LambdaDown divides λ after an accepted step.
	LambdaDown float64
	// MaxLambda bounds λ; exceeding it declares divergence.
	MaxLambda float64
	// MaxInnerRetries bounds consecutive rejected trial steps within one
	// outer iteration.
	MaxInnerRetries int
}

// DefaultOptions returns the solver defaults: tolerance 1e-8 on relative
// cost decrease, 1e-12 on step norm, λ starting at 1e-3 with factor-10
// adaptation, and at most 50 damping retries per iteration.
func DefaultOptions() Options {
	return Options{
		MaxIterations:   100,
		CostTol:         1e-8,
		StepTol:         1e-12,
		GradTol:         1e-10,
		InitLambda:      1e-3,
		LambdaUp:        10,
		LambdaDown:      10,
		MaxLambda:       1e12,
		MaxInnerRetries: 50,
	}
}

// fill replaces zero fields with defaults so callers can set only what they
// care about.
func (o Options) fill() Options {
	def := DefaultOptions()
	if o.CostTol == 0 {
		o.CostTol = def.CostTol
	}
	if o.StepTol == 0 {
		o.StepTol = def.StepTol
	}
	if o.GradTol == 0 {
		o.GradTol = def.GradTol
	}
	if o.InitLambda == 0 {
		o.InitLambda = def.InitLambda
	}
	if o.LambdaUp == 0 {
		o.LambdaUp = def.LambdaUp
	}
	if o.LambdaDown == 0 {
		o.LambdaDown = def.LambdaDown
	}
	if o.MaxLambda == 0 {
		o.MaxLambda = def.MaxLambda
	}
	if o.MaxInnerRetries == 0 {
		o.MaxInnerRetries = def.MaxInnerRetries
	}
	return o
}

// Result holds the outcome of a minimization run.
type Result struct {
	// X is the refined parameter vector.
	X []float64
	// Cost is ½‖r(X)‖².
	Cost float64
	// Iterations is the number of outer iterations executed.
	Iterations int
	// Accepted is the number of accepted steps.
	Accepted int
	// Lambda is the damping factor at exit.
	Lambda float64
	// Status reports which stopping rule fired.
	Status Status
}

// diagFloor keeps the damped diagonal positive when a column of the
// Jacobian vanishes (residual constant in that parameter), so the Cholesky
// factorization stays well defined instead of crashing on a singular system.
const diagFloor = 1e-12

// Minimize runs Levenberg-Marquardt on the problem. The returned Result
// always carries the best estimate found; running out of iterations or
// damping headroom is reported through Result.Status, not as an error.
// Errors are reserved for malformed problems (ErrInvalidInput), non-finite
// evaluations at the current estimate (ErrNotFinite), and unfactorizable
// normal equations (ErrSingular).
func Minimize(p Problem, opts *Options) (Result, error) {
	if err := validate(p); err != nil {
		return Result{}, err
	}
	var o Options
	if opts != nil {
		o = *opts
	} else {
		o = DefaultOptions()
	}
	o = o.fill()
	if o.MaxIterations < 0 {
		return Result{}, fmt.Errorf("%w: negative MaxIterations %d", ErrInvalidInput, o.MaxIterations)
	}

	// The solver owns its own copy of the estimate; the caller's slice is
	// never written to.
	x := make([]float64, p.Dim)
	copy(x, p.InitParams)

	jac := p.Jac
	if jac == nil {
		nj := &NumJac{Func: p.Func}
		jac = nj.Jac
	}

	r := make([]float64, p.Size)
	p.Func(r, x)
	cost, err := costOf(r)
	if err != nil {
		return Result{}, fmt.Errorf("at initial estimate: %w", err)
	}

	res := Result{X: x, Cost: cost, Lambda: o.InitLambda, Status: StatusIterationLimit}
	if o.MaxIterations == 0 {
		return res, nil
	}

	j := mat.NewDense(p.Size, p.Dim, nil)
	jtj := mat.NewDense(p.Dim, p.Dim, nil)
	damped := mat.NewSymDense(p.Dim, nil)
	grad := mat.NewVecDense(p.Dim, nil)
	negGrad := mat.NewVecDense(p.Dim, nil)
	var delta mat.VecDense
	var chol mat.Cholesky

	rVec := mat.NewVecDense(p.Size, r)
	trial := make([]float64, p.Dim)
	trialR := make([]float64, p.Size)
	lambda := o.InitLambda

	for iter := 1; iter <= o.MaxIterations; iter++ {
		res.Iterations = iter

		jac(j, x)
		if !allFiniteMat(j) {
			return res, fmt.Errorf("iteration %d: jacobian: %w", iter, ErrNotFinite)
		}
		jtj.Mul(j.T(), j)
		grad.MulVec(j.T(), rVec)
		if mat.Norm(grad, math.Inf(1)) < o.GradTol {
			res.Status = StatusConverged
			return res, nil
		}
		negGrad.ScaleVec(-1, grad)

		accepted := false
		var newCost, stepNorm float64
		for retry := 0; retry <= o.MaxInnerRetries; retry++ {
			if lambda > o.MaxLambda {
				break
			}

			// Damp the diagonal of the approximate Hessian. A vanished
			// diagonal entry is floored so the system stays positive
			// definite; the corresponding parameter simply does not move.
			for a := 0; a < p.Dim; a++ {
				for b := a; b < p.Dim; b++ {
					damped.SetSym(a, b, jtj.At(a, b))
				}
				d := jtj.At(a, a)
				scale := d
				if scale < diagFloor {
					scale = diagFloor
				}
				damped.SetSym(a, a, d+lambda*scale)
			}

			if ok := chol.Factorize(damped); !ok {
				lambda *= o.LambdaUp
				if lambda > o.MaxLambda {
					return res, fmt.Errorf("iteration %d: %w", iter, ErrSingular)
				}
				continue
			}
			if err := chol.SolveVecTo(&delta, negGrad); err != nil {
				lambda *= o.LambdaUp
				continue
			}

			for a := 0; a < p.Dim; a++ {
				trial[a] = x[a] + delta.AtVec(a)
			}
			p.Func(trialR, trial)
			c, err := costOf(trialR)
			if err != nil || c >= cost {
				// Worse (or unusable) step: back toward gradient descent.
				lambda *= o.LambdaUp
				continue
			}

			// Better step: commit and move toward Gauss-Newton.
			copy(x, trial)
			copy(r, trialR)
			newCost = c
			stepNorm = mat.Norm(&delta, 2)
			lambda /= o.LambdaDown
			accepted = true
			res.Accepted++
			break
		}

		res.Lambda = lambda
		if !accepted {
			res.Status = StatusLambdaLimit
			return res, nil
		}

		relDecrease := (cost - newCost) / math.Max(cost, math.SmallestNonzeroFloat64)
		cost = newCost
		res.Cost = cost

		if relDecrease < o.CostTol {
			res.Status = StatusConverged
			return res, nil
		}
		if stepNorm < o.StepTol*(1+mat.Norm(mat.NewVecDense(p.Dim, x), 2)) {
			res.Status = StatusSmallStep
			return res, nil
		}
	}

	res.Status = StatusIterationLimit
	return res, nil
}

func validate(p Problem) error {
	if p.Func == nil {
		return fmt.Errorf("%w: nil residual function", ErrInvalidInput)
	}
	if p.Dim <= 0 || p.Size <= 0 {
		return fmt.Errorf("%w: dim=%d size=%d", ErrInvalidInput, p.Dim, p.Size)
	}
	if len(p.InitParams) != p.Dim {
		return fmt.Errorf("%w: %d initial parameters for dim %d", ErrInvalidInput, len(p.InitParams), p.Dim)
	}
	for i, v := range p.InitParams {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: initial parameter %d is %g", ErrInvalidInput, i, v)
		}
	}
	return nil
}

// costOf computes ½‖r‖², rejecting non-finite residuals.
func costOf(r []float64) (float64, error) {
	sum := 0.0
	for i, v := range r {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("residual %d is %g: %w", i, v, ErrNotFinite)
		}
		sum += v * v
	}
	return 0.5 * sum, nil
}

func allFiniteMat(m *mat.Dense) bool {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for k := 0; k < cols; k++ {
			v := m.At(i, k)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
