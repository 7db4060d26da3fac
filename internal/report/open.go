package report

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Viewers accepted by Open; "system" uses the desktop default.
var Viewers = []string{"system", "preview", "skim", "evince", "okular", "zathura"}

// Open starts a viewer on path without waiting for it to exit.
func Open(path, viewer string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("opening report: %w", err)
	}
	cmd, err := viewerCommand(runtime.GOOS, viewer, path)
	if err != nil {
		return err
	}
	return cmd.Start()
}

func viewerCommand(goos, viewer, path string) (*exec.Cmd, error) {
	if viewer == "" {
		viewer = "system"
	}
	switch goos {
	case "darwin":
		switch viewer {
		case "system":
			return exec.Command("open", path), nil
		case "preview":
			return exec.Command("open", "-a", "Preview", path), nil
		case "skim":
			return exec.Command("open", "-a", "Skim", path), nil
		}
	case "linux":
		switch viewer {
		case "system":
			return exec.Command("xdg-open", path), nil
		case "evince", "okular", "zathura":
			return exec.Command(viewer, path), nil
		}
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
	return nil, fmt.Errorf("viewer %q is not available on %s", viewer, goos)
}
