package ports

import "os/exec"

// EditorOpener opens project files in an external editor
type EditorOpener interface {
	// Command returns an exec.Cmd opening the project-relative location.
	// It uses $RELINKER_EDITOR, $EDITOR or $VISUAL, falling back to common editors.
	Command(location string) (*exec.Cmd, error)
}
