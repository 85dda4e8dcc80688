package editor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"relinker/internal/ports"
)

// EnvEditor overrides $EDITOR for the relinker only
const EnvEditor = "RELINKER_EDITOR"

// Opener implements ports.EditorOpener for files under a project directory
type Opener struct {
	projectPath string
	lookPath    func(string) (string, error)
}

// Ensure Opener implements ports.EditorOpener
var _ ports.EditorOpener = (*Opener)(nil)

// NewOpener creates an opener for files under projectPath
func NewOpener(projectPath string) *Opener {
	return &Opener{projectPath: projectPath, lookPath: exec.LookPath}
}

// Open opens location in the editor and waits for it to exit
func (o *Opener) Open(location string) error {
	cmd, err := o.Command(location)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening location in the editor.
// The editor setting may carry arguments, as in "code --wait".
func (o *Opener) Command(location string) (*exec.Cmd, error) {
	editor := strings.Fields(o.findEditor())
	if len(editor) == 0 {
		return nil, fmt.Errorf("no editor found: set $%s or $EDITOR", EnvEditor)
	}

	path := filepath.Join(o.projectPath, filepath.FromSlash(location))
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", location, err)
	}

	cmd := exec.Command(editor[0], append(editor[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// findEditor returns the editor to use
func (o *Opener) findEditor() string {
	for _, env := range []string{EnvEditor, "EDITOR", "VISUAL"} {
		if editor := strings.TrimSpace(os.Getenv(env)); editor != "" {
			return editor
		}
	}

	// Try common editors
	for _, editor := range []string{"nvim", "vim", "vi", "nano", "code"} {
		if path, err := o.lookPath(editor); err == nil {
			return path
		}
	}

	return ""
}
