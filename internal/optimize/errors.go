package optimize

import "errors"

var (
	// ErrInvalidInput indicates a malformed problem: missing residual
	// function, non-positive dimensions, or a starting estimate whose
	// length does not match Dim.
	ErrInvalidInput = errors.New("invalid problem definition")

	// ErrNotFinite indicates that the residual or Jacobian produced NaN or
	// Inf at the current estimate, so no step can be computed.
	ErrNotFinite = errors.New("non-finite residual or jacobian")

	// ErrSingular indicates that the damped normal-equations matrix could
	// not be factorized even at the maximum damping, which only happens
	// when the Jacobian is badly broken.
	ErrSingular = errors.New("normal equations singular at maximum damping")
)
