// Package canvas displays the rendered image plane inside the fyne window.
package canvas

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"

	"pinhole-calib/internal/app"
	"pinhole-calib/internal/render"
)

// Image-plane size of the demo camera: a 400x300 sensor.
const (
	PlaneWidth  = 400
	PlaneHeight = 300
)

// ProjectionView shows the demo scene projected under the current
// intrinsics estimate, re-rendered on every state change.
type ProjectionView struct {
	state *app.State
	img   *fynecanvas.Image
}

// NewProjectionView creates the view and renders the initial frame.
func NewProjectionView(state *app.State) *ProjectionView {
	v := &ProjectionView{
		state: state,
		img:   fynecanvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, PlaneWidth, PlaneHeight))),
	}
	v.img.FillMode = fynecanvas.ImageFillContain
	v.img.ScaleMode = fynecanvas.ImageScaleSmooth
	v.img.SetMinSize(fyne.NewSize(PlaneWidth, PlaneHeight))
	v.Refresh()
	return v
}

// Object returns the fyne canvas object to place in a container.
func (v *ProjectionView) Object() fyne.CanvasObject {
	return v.img
}

// Refresh re-renders the projection from the current state. Points that
// can't be projected leave the previous frame in place.
func (v *ProjectionView) Refresh() {
	frame, err := render.Frame(v.state.Intrinsics(), v.state.Scenario().Points, PlaneWidth, PlaneHeight)
	if err != nil {
		return
	}
	v.img.Image = frame
	v.img.Refresh()
}
