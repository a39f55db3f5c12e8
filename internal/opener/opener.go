// Package opener shows a directory in the desktop file browser.
package opener

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Command returns the program and arguments that open dir on goos.
func Command(goos, dir string) (string, []string) {
	switch goos {
	case "windows":
		return "explorer", []string{dir}
	case "darwin":
		return "open", []string{dir}
	default:
		return "xdg-open", []string{dir}
	}
}

// Open launches the file browser on dir and returns without waiting for it.
func Open(dir string) error {
	name, args := Command(runtime.GOOS, dir)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s with %s: %w", dir, name, err)
	}
	// Reap the child in the background; file browsers often exit non-zero
	// after handing off to an existing window.
	go cmd.Wait()
	return nil
}
