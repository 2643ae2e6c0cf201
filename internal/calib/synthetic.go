package calib

import (
	"math/rand"

	"pinhole-calib/internal/camera"
	"pinhole-calib/pkg/geometry"
)

// Scenario is a synthetic calibration setup: known 3D points and the true
// intrinsics that generated the observations. It backs the demo UI, the
// CLI's -synthetic mode, and the tests.
type Scenario struct {
	Points []geometry.Point3D `json:"points"`
	Truth  camera.Intrinsics  `json:"truth"`
}

// sceneDepth is the depth of the demo rectangle in front of the camera.
const sceneDepth = 1000

// DefaultScenario returns the demo setup: a 300x150 rectangle centered on
// the optical axis at depth 1000, seen by a camera with focal lengths
// (300, 300) and principal point (200, 150).
func DefaultScenario() Scenario {
	return Scenario{
		Points: RectanglePoints(geometry.NewRect(-150, -75, 300, 150), sceneDepth),
		Truth:  camera.NewIntrinsics(300, 300, 200, 150),
	}
}

// RandomScenario samples true intrinsics from the given source: focal
// lengths in [200, 500) and principal point in [100, 300). The random
// source is explicit so runs are reproducible from a seed.
func RandomScenario(rng *rand.Rand) Scenario {
	s := DefaultScenario()
	s.Truth = camera.NewIntrinsics(
		200+300*rng.Float64(),
		200+300*rng.Float64(),
		100+200*rng.Float64(),
		100+200*rng.Float64(),
	)
	return s
}

// RectanglePoints places the corners of a rectangle at the given depth,
// in corner order top-left, top-right, bottom-right, bottom-left.
func RectanglePoints(r geometry.Rect, depth float64) []geometry.Point3D {
	corners := r.Corners()
	points := make([]geometry.Point3D, len(corners))
	for i, c := range corners {
		points[i] = geometry.NewPoint3D(c.X, c.Y, depth)
	}
	return points
}

// Observations projects the scenario's points under the true intrinsics,
// producing the correspondences a calibration run should fit.
func (s Scenario) Observations() ([]Observation, error) {
	pixels, err := s.Truth.ProjectAll(s.Points)
	if err != nil {
		return nil, err
	}
	obs := make([]Observation, len(s.Points))
	for i := range s.Points {
		obs[i] = Observation{Point: s.Points[i], Pixel: pixels[i]}
	}
	return obs, nil
}

// PerturbedStart returns the demo starting estimate: the true focal
// lengths offset by (+50, -50) and the principal point by (+20, -20).
func (s Scenario) PerturbedStart() Params {
	p := ParamsFromIntrinsics(s.Truth)
	p.Focal = p.Focal.Add(geometry.NewPoint2D(50, -50))
	p.Center = p.Center.Add(geometry.NewPoint2D(20, -20))
	return p
}

// RandomStart perturbs the true parameters by uniform offsets up to the
// given magnitudes, using the explicit random source.
func (s Scenario) RandomStart(rng *rand.Rand, focalSpread, centerSpread float64) Params {
	offset := func(spread float64) float64 {
		return spread * (2*rng.Float64() - 1)
	}
	p := ParamsFromIntrinsics(s.Truth)
	p.Focal = p.Focal.Add(geometry.NewPoint2D(offset(focalSpread), offset(focalSpread)))
	p.Center = p.Center.Add(geometry.NewPoint2D(offset(centerSpread), offset(centerSpread)))
	return p
}
