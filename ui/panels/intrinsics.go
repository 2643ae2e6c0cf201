// Package panels provides the control panel for the intrinsics explorer.
package panels

import (
	"fmt"
	"math/rand"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pinhole-calib/internal/app"
	"pinhole-calib/internal/camera"
)

// Slider ranges for the demo camera.
const (
	focalMin, focalMax   = 50, 600
	centerMin, centerMax = 0, 400
)

// IntrinsicsPanel holds sliders for the four intrinsic parameters plus the
// perturb and calibrate actions.
type IntrinsicsPanel struct {
	state *app.State
	rng   *rand.Rand

	fx, fy, cx, cy *widget.Slider
	valueLabel     *widget.Label
	resultLabel    *widget.Label

	// updating suppresses slider callbacks while the panel itself moves
	// the sliders, so programmatic updates don't echo back into the state.
	updating bool
}

// NewIntrinsicsPanel creates the panel bound to the application state.
func NewIntrinsicsPanel(state *app.State) *IntrinsicsPanel {
	p := &IntrinsicsPanel{
		state:       state,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		valueLabel:  widget.NewLabel(""),
		resultLabel: widget.NewLabel("Adjust the sliders, then calibrate."),
	}

	p.fx = p.newSlider(focalMin, focalMax, func(in *camera.Intrinsics, v float64) { in.Fx = v })
	p.fy = p.newSlider(focalMin, focalMax, func(in *camera.Intrinsics, v float64) { in.Fy = v })
	p.cx = p.newSlider(centerMin, centerMax, func(in *camera.Intrinsics, v float64) { in.Cx = v })
	p.cy = p.newSlider(centerMin, centerMax, func(in *camera.Intrinsics, v float64) { in.Cy = v })

	p.syncFromState()
	state.Subscribe(p.syncFromState)
	return p
}

func (p *IntrinsicsPanel) newSlider(min, max float64, apply func(*camera.Intrinsics, float64)) *widget.Slider {
	s := widget.NewSlider(min, max)
	s.Step = 1
	s.OnChanged = func(v float64) {
		if p.updating {
			return
		}
		in := p.state.Intrinsics()
		apply(&in, v)
		p.state.SetIntrinsics(in)
	}
	return s
}

// Build lays out the panel.
func (p *IntrinsicsPanel) Build() fyne.CanvasObject {
	perturb := widget.NewButton("Perturb", func() {
		p.state.Perturb(p.rng)
		p.resultLabel.SetText("Perturbed. Calibrate to recover the truth.")
	})
	calibrate := widget.NewButton("Calibrate", func() {
		run, err := p.state.Calibrate(nil)
		if err != nil {
			p.resultLabel.SetText(fmt.Sprintf("Calibration failed: %v", err))
			return
		}
		p.resultLabel.SetText(fmt.Sprintf(
			"%s after %d iterations (%d accepted)\ncost %.3e",
			run.Result.Status, run.Result.Iterations, run.Result.Accepted, run.Result.Cost))
	})

	truth := p.state.Scenario().Truth
	truthLabel := widget.NewLabel(fmt.Sprintf(
		"Truth: fx=%.0f fy=%.0f cx=%.0f cy=%.0f", truth.Fx, truth.Fy, truth.Cx, truth.Cy))

	return container.NewVBox(
		widget.NewLabel("Focal length X"), p.fx,
		widget.NewLabel("Focal length Y"), p.fy,
		widget.NewLabel("Principal point X"), p.cx,
		widget.NewLabel("Principal point Y"), p.cy,
		p.valueLabel,
		truthLabel,
		container.NewGridWithColumns(2, perturb, calibrate),
		p.resultLabel,
	)
}

// syncFromState moves the sliders and value readout to the current
// estimate without echoing the change back.
func (p *IntrinsicsPanel) syncFromState() {
	in := p.state.Intrinsics()
	p.updating = true
	p.fx.SetValue(in.Fx)
	p.fy.SetValue(in.Fy)
	p.cx.SetValue(in.Cx)
	p.cy.SetValue(in.Cy)
	p.updating = false
	p.valueLabel.SetText(fmt.Sprintf(
		"fx=%.1f fy=%.1f cx=%.1f cy=%.1f", in.Fx, in.Fy, in.Cx, in.Cy))
}
