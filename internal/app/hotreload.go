package app

import (
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// Reloader polls the running binary's modification time and reports when a
// newer build appears. Useful during development to restart after a
// recompile without hunting for the window.
type Reloader struct {
	path     string
	baseline time.Time
	stop     chan struct{}
}

// WatchBinary starts watching the current executable, invoking onChange
// (from a background goroutine) once when a newer binary is detected.
// Returns nil if the executable path cannot be resolved.
func WatchBinary(interval time.Duration, onChange func()) *Reloader {
	path, err := os.Executable()
	if err != nil {
		return nil
	}
	// go build writes a new file; resolve the symlink so we stat the
	// real binary.
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}

	r := &Reloader{path: path, baseline: info.ModTime(), stop: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				info, err := os.Stat(r.path)
				if err == nil && info.ModTime().After(r.baseline) {
					onChange()
					return
				}
			}
		}
	}()
	return r
}

// Stop ends the watch goroutine.
func (r *Reloader) Stop() {
	close(r.stop)
}

// Path returns the watched executable path.
func (r *Reloader) Path() string {
	return r.path
}

// Restart replaces the current process with a fresh instance of the binary,
// preserving arguments and environment. Does not return on success.
func (r *Reloader) Restart() error {
	return syscall.Exec(r.path, os.Args, os.Environ())
}
