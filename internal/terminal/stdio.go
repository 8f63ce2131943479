package terminal

import (
	"io"

	"golang.org/x/term"
)

type fder interface {
	Fd() uintptr
}

// OutputIsTerminal reports whether w writes to an interactive terminal.
func OutputIsTerminal(w io.Writer) bool {
	f, ok := w.(fder)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
