package cli

import (
	"os"

	"github.com/mattn/go-isatty"
)

// isTerminal reports whether f is connected to an interactive terminal.
// The progress bar is skipped when it isn't (redirected to a file, piped,
// or running under CI), matching how bubbletea itself behaves without a
// TTY.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
