// Package fileutil holds small filesystem helpers shared by the CLI.
package fileutil

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// launch starts a command without waiting for it; replaced in tests. The
// child is released immediately so the CLI never accumulates unreaped
// viewer processes.
var launch = func(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// OpenFolder opens a directory in the platform file manager. The viewer
// process is detached; its exit status is not observed.
func OpenFolder(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("open folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("open folder: %s is not a directory", path)
	}
	switch runtime.GOOS {
	case "windows":
		return launch("explorer", path)
	case "darwin":
		return launch("open", path)
	default:
		return launch("xdg-open", path)
	}
}
