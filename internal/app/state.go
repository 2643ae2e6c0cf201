// Package app provides the application state shared between the UI and the
// calibration routines.
package app

import (
	"fmt"
	"math/rand"
	"sync"

	"pinhole-calib/internal/calib"
	"pinhole-calib/internal/camera"
	"pinhole-calib/internal/optimize"
)

// CalibrationRun records the outcome of the most recent calibration.
type CalibrationRun struct {
	Params calib.Params
	Result optimize.Result
}

// State holds the demo scenario, the current slider-controlled intrinsics
// estimate, and the last calibration result. All methods are safe for
// concurrent use.
type State struct {
	mu        sync.RWMutex
	scenario  calib.Scenario
	obs       []calib.Observation
	current   camera.Intrinsics
	lastRun   *CalibrationRun
	listeners []func()
}

// NewState builds the default synthetic scenario and starts the estimate at
// the demo perturbation of the true intrinsics.
func NewState() (*State, error) {
	scenario := calib.DefaultScenario()
	obs, err := scenario.Observations()
	if err != nil {
		return nil, fmt.Errorf("building demo observations: %w", err)
	}
	return &State{
		scenario: scenario,
		obs:      obs,
		current:  scenario.PerturbedStart().Intrinsics(),
	}, nil
}

// Scenario returns the synthetic ground-truth setup.
func (s *State) Scenario() calib.Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scenario
}

// Intrinsics returns the current estimate.
func (s *State) Intrinsics() camera.Intrinsics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetIntrinsics replaces the current estimate and notifies listeners.
func (s *State) SetIntrinsics(in camera.Intrinsics) {
	s.mu.Lock()
	s.current = in
	s.mu.Unlock()
	s.notify()
}

// Perturb resets the estimate to a random offset from the truth, using the
// given source so a run can be replayed from its seed.
func (s *State) Perturb(rng *rand.Rand) {
	s.mu.Lock()
	s.current = s.scenario.RandomStart(rng, 80, 40).Intrinsics()
	s.lastRun = nil
	s.mu.Unlock()
	s.notify()
}

// Calibrate refines the current estimate against the demo observations,
// stores the outcome, and commits the refined intrinsics as the current
// estimate.
func (s *State) Calibrate(opts *optimize.Options) (CalibrationRun, error) {
	s.mu.Lock()
	obs := s.obs
	initial := calib.ParamsFromIntrinsics(s.current)
	s.mu.Unlock()

	params, result, err := calib.Calibrate(obs, initial, opts)
	if err != nil {
		return CalibrationRun{}, err
	}

	run := CalibrationRun{Params: params, Result: result}
	s.mu.Lock()
	s.lastRun = &run
	s.current = params.Intrinsics()
	s.mu.Unlock()
	s.notify()
	return run, nil
}

// LastRun returns the most recent calibration outcome, or nil if none has
// completed since the last perturbation.
func (s *State) LastRun() *CalibrationRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

// Subscribe registers a callback invoked after every state change.
func (s *State) Subscribe(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *State) notify() {
	s.mu.RLock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}
