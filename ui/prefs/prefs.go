// Package prefs provides JSON-based application preferences.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"pinhole-calib/internal/camera"
)

const prefsFile = "preferences.json"

// Prefs stores the settings restored between sessions.
type Prefs struct {
	WindowWidth  int                `json:"window_width"`
	WindowHeight int                `json:"window_height"`
	Intrinsics   *camera.Intrinsics `json:"intrinsics,omitempty"`

	path string
}

// Load reads preferences from ~/.config/pinhole-calib/preferences.json,
// returning defaults if the file doesn't exist or can't be parsed.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	p := &Prefs{
		WindowWidth:  1024,
		WindowHeight: 640,
		path:         filepath.Join(configDir, "pinhole-calib", prefsFile),
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	// A corrupt file just falls back to defaults.
	_ = json.Unmarshal(data, p)
	if p.WindowWidth <= 0 {
		p.WindowWidth = 1024
	}
	if p.WindowHeight <= 0 {
		p.WindowHeight = 640
	}
	return p
}

// Save writes the preferences back to disk, creating the config directory
// if needed.
func (p *Prefs) Save() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}
