package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is how results should be presented on the current terminal.
type OutputMode int

const (
	// OutputModePlain is uncolored text, for pipes and files.
	OutputModePlain OutputMode = iota
	// OutputModeStyled is colored, non-interactive output.
	OutputModeStyled
	// OutputModeInteractive runs the Bubble Tea program.
	OutputModeInteractive
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputModeInteractive:
		return "interactive"
	case OutputModeStyled:
		return "styled"
	default:
		return "plain"
	}
}

// DetectOutputMode picks the richest mode stdout supports. NO_COLOR, TERM=dumb
// and CI force plain output.
func DetectOutputMode(forcePlain, noColor, noInteractive bool) OutputMode {
	return detectOutputMode(isTerminal(os.Stdout), isTerminal(os.Stdin), forcePlain, noColor, noInteractive, os.Getenv)
}

func detectOutputMode(
	stdoutTTY, stdinTTY bool,
	forcePlain, noColor, noInteractive bool,
	getenv func(string) string,
) OutputMode {
	if forcePlain || !stdoutTTY {
		return OutputModePlain
	}
	if noColor || getenv("NO_COLOR") != "" || getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	if noInteractive || !stdinTTY || getenv("CI") != "" {
		return OutputModeStyled
	}
	return OutputModeInteractive
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
