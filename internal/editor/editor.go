// Package editor launches the user's preferred text editor.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/dynval/internal/errors"
)

// Session wires an editor process to the caller's terminal.
type Session struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Open launches the editor on path and waits for it to exit.
// Uses $EDITOR, falling back to $VISUAL, then nano, then vi. The variable may
// carry arguments, as in EDITOR="code --wait".
func (s Session) Open(ctx context.Context, path string) error {
	fields := strings.Fields(detectEditor())
	args := append(fields[1:], path)

	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Stdin = s.Stdin
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", fields[0])
	}
	return nil
}

// detectEditor returns the editor command line.
// Fallback chain: $EDITOR → $VISUAL → nano → vi
func detectEditor() string {
	if editor := strings.TrimSpace(os.Getenv("EDITOR")); editor != "" {
		return editor
	}

	if visual := strings.TrimSpace(os.Getenv("VISUAL")); visual != "" {
		return visual
	}

	// nano is easier for beginners
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}

	return "vi"
}
