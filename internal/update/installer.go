package update

import (
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/log"
)

// LaunchInstaller opens the downloaded installer with the platform's
// default open/execute mechanism. It returns false instead of an error:
// failure to launch is a recoverable, user-visible condition the caller
// reports, not a program fault.
func LaunchInstaller(path string) bool {
	if _, err := os.Stat(path); err != nil {
		log.Debug("installer not found", "path", path, "error", err)
		return false
	}

	cmd := openCommand(path)
	if cmd == nil {
		log.Debug("no installer launch mechanism for platform", "os", runtime.GOOS)
		return false
	}

	if err := cmd.Start(); err != nil {
		log.Debug("failed to launch installer", "path", path, "error", err)
		return false
	}

	// The installer runs detached; reap it in the background so it does
	// not linger as a zombie while the application keeps running.
	go func() { _ = cmd.Wait() }()

	return true
}

// openCommand returns the platform command that opens a file with its
// default handler.
func openCommand(path string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("cmd", "/C", "start", "", path)
	case "linux":
		return exec.Command("xdg-open", path)
	}
	return nil
}
