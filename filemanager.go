package main

import (
	"os/exec"
)

// fileManagerCommand returns the command that opens dir in the desktop file
// manager of goos.
func fileManagerCommand(goos, dir string) (string, []string) {
	switch goos {
	case "windows":
		return "explorer", []string{dir}
	case "darwin":
		return "open", []string{dir}
	default:
		return "xdg-open", []string{dir}
	}
}

// openInFileManager launches the file manager without waiting for it.
func openInFileManager(goos, dir string) error {
	name, args := fileManagerCommand(goos, dir)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
