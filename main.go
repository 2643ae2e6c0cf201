// Package main provides the entry point for the interactive intrinsics
// explorer: sliders drive a pinhole camera's focal lengths and principal
// point while the projected demo rectangle re-renders live, and a
// calibrate action recovers the true parameters by Levenberg-Marquardt.
package main

import (
	"log"
	"time"

	fyneapp "fyne.io/fyne/v2/app"

	"pinhole-calib/internal/app"
	"pinhole-calib/ui/mainwindow"
	"pinhole-calib/ui/prefs"
)

const (
	appTitle   = "Pinhole Calibration"
	appVersion = "0.1.0"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, appVersion)

	state, err := app.NewState()
	if err != nil {
		log.Fatalf("Failed to build demo scenario: %v", err)
	}

	appPrefs := prefs.Load()
	if appPrefs.Intrinsics != nil && appPrefs.Intrinsics.CheckValid() == nil {
		state.SetIntrinsics(*appPrefs.Intrinsics)
	}

	fyneApp := fyneapp.New()
	win := mainwindow.New(fyneApp, state, appPrefs)

	setupHotReload()

	win.ShowAndRun()
}

// setupHotReload logs when the running binary has been recompiled, so a
// development session knows a restart would pick up new code.
func setupHotReload() {
	reloader := app.WatchBinary(2*time.Second, func() {
		log.Println("Hot reload: binary changed on disk, restart to pick it up")
	})
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}
	log.Printf("Hot reload: watching %s", reloader.Path())
}
