// Package mainwindow assembles the application window.
package mainwindow

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"pinhole-calib/internal/app"
	"pinhole-calib/ui/canvas"
	"pinhole-calib/ui/panels"
	"pinhole-calib/ui/prefs"
)

// MainWindow wires the projection view and the control panel together.
type MainWindow struct {
	win   fyne.Window
	state *app.State
	prefs *prefs.Prefs
	view  *canvas.ProjectionView
}

// New creates the main window on the given fyne app.
func New(fyneApp fyne.App, state *app.State, appPrefs *prefs.Prefs) *MainWindow {
	w := &MainWindow{
		win:   fyneApp.NewWindow("Pinhole Calibration"),
		state: state,
		prefs: appPrefs,
	}

	w.view = canvas.NewProjectionView(state)
	state.Subscribe(w.view.Refresh)

	panel := panels.NewIntrinsicsPanel(state)
	w.win.SetContent(container.NewBorder(nil, nil, nil, panel.Build(), w.view.Object()))
	w.win.Resize(fyne.NewSize(float32(appPrefs.WindowWidth), float32(appPrefs.WindowHeight)))

	w.win.SetOnClosed(func() {
		w.savePrefs()
	})
	return w
}

// Window exposes the underlying fyne window.
func (w *MainWindow) Window() fyne.Window {
	return w.win
}

// ShowAndRun shows the window and runs the event loop.
func (w *MainWindow) ShowAndRun() {
	w.win.ShowAndRun()
}

func (w *MainWindow) savePrefs() {
	size := w.win.Canvas().Size()
	w.prefs.WindowWidth = int(size.Width)
	w.prefs.WindowHeight = int(size.Height)
	in := w.state.Intrinsics()
	w.prefs.Intrinsics = &in
	// Best effort; losing prefs is not worth a dialog.
	_ = w.prefs.Save()
}
