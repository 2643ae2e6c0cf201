// Command calibrate recovers pinhole camera intrinsics from 2D-3D point
// correspondences by Levenberg-Marquardt, reading observations from a JSON
// file or generating a synthetic scenario.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"pinhole-calib/internal/calib"
	"pinhole-calib/internal/camera"
	"pinhole-calib/internal/optimize"
	"pinhole-calib/pkg/geometry"
)

// inputFile is the JSON schema for -obs: observations plus an optional
// starting estimate.
type inputFile struct {
	Observations []calib.Observation `json:"observations"`
	Initial      *camera.Intrinsics  `json:"initial,omitempty"`
}

func main() {
	obsPath := flag.String("obs", "", "Path to observations JSON ({\"observations\": [{\"point\": {x,y,z}, \"pixel\": {x,y}}], \"initial\": {fx,fy,cx,cy}})")
	synthetic := flag.Bool("synthetic", false, "Generate a random synthetic scenario instead of reading -obs")
	seed := flag.Int64("seed", 1, "Random seed for -synthetic")
	iters := flag.Int("iters", 100, "Maximum solver iterations")
	fx := flag.Float64("fx", 0, "Initial focal length x (overrides file/synthetic start)")
	fy := flag.Float64("fy", 0, "Initial focal length y")
	cx := flag.Float64("cx", 0, "Initial principal point x")
	cy := flag.Float64("cy", 0, "Initial principal point y")
	jsonOut := flag.Bool("json", false, "Print the result as JSON")
	flag.Parse()

	obs, initial, truth, err := loadProblem(*obsPath, *synthetic, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *fx > 0 {
		initial.Focal.X = *fx
	}
	if *fy > 0 {
		initial.Focal.Y = *fy
	}
	if *cx > 0 {
		initial.Center.X = *cx
	}
	if *cy > 0 {
		initial.Center.Y = *cy
	}

	opts := optimize.DefaultOptions()
	opts.MaxIterations = *iters

	params, result, err := calib.Calibrate(obs, initial, &opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "calibration error: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		out := struct {
			Intrinsics camera.Intrinsics `json:"intrinsics"`
			Cost       float64           `json:"cost"`
			Iterations int               `json:"iterations"`
			Status     string            `json:"status"`
		}{params.Intrinsics(), result.Cost, result.Iterations, result.Status.String()}
		if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "error writing result: %v\n", err)
			os.Exit(1)
		}
		return
	}

	in := params.Intrinsics()
	fmt.Printf("Observations: %d\n", len(obs))
	fmt.Printf("Start:  fx=%.3f fy=%.3f cx=%.3f cy=%.3f\n",
		initial.Focal.X, initial.Focal.Y, initial.Center.X, initial.Center.Y)
	fmt.Printf("Result: fx=%.3f fy=%.3f cx=%.3f cy=%.3f\n", in.Fx, in.Fy, in.Cx, in.Cy)
	if truth != nil {
		fmt.Printf("Truth:  fx=%.3f fy=%.3f cx=%.3f cy=%.3f\n", truth.Fx, truth.Fy, truth.Cx, truth.Cy)
	}
	fmt.Printf("Cost %.6e after %d iterations (%d accepted steps, %s)\n",
		result.Cost, result.Iterations, result.Accepted, result.Status)
}

// loadProblem assembles observations and a starting estimate from either a
// JSON file or a seeded synthetic scenario. The returned truth is non-nil
// only for synthetic runs.
func loadProblem(path string, synthetic bool, seed int64) ([]calib.Observation, calib.Params, *camera.Intrinsics, error) {
	if synthetic {
		rng := rand.New(rand.NewSource(seed))
		scenario := calib.RandomScenario(rng)
		obs, err := scenario.Observations()
		if err != nil {
			return nil, calib.Params{}, nil, err
		}
		truth := scenario.Truth
		return obs, scenario.RandomStart(rng, 80, 40), &truth, nil
	}

	if path == "" {
		return nil, calib.Params{}, nil, fmt.Errorf("either -obs or -synthetic is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, calib.Params{}, nil, fmt.Errorf("reading observations: %w", err)
	}
	var in inputFile
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, calib.Params{}, nil, fmt.Errorf("parsing observations: %w", err)
	}

	initial := calib.Params{}
	if in.Initial != nil {
		initial = calib.ParamsFromIntrinsics(*in.Initial)
	} else {
		// No starting estimate given: a generic camera centered on the
		// observed pixels is close enough for the solver.
		initial = defaultStart(in.Observations)
	}
	return in.Observations, initial, nil, nil
}

func defaultStart(obs []calib.Observation) calib.Params {
	pixels := make([]geometry.Point2D, len(obs))
	for i, o := range obs {
		pixels[i] = o.Pixel
	}
	return calib.Params{
		Focal:  geometry.NewPoint2D(300, 300),
		Center: geometry.Centroid(pixels),
	}
}
