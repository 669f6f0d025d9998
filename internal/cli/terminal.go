package cli

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width in columns: the real
// terminal size when stdout is one, then the COLUMNS environment
// variable, then 80.
func GetTerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	if w := widthFromEnv(); w > 0 {
		return w
	}
	return 80
}

func widthFromEnv() int {
	s := os.Getenv("COLUMNS")
	if s == "" {
		return 0
	}
	w, err := strconv.Atoi(s)
	if err != nil || w <= 0 {
		return 0
	}
	return w
}

// stdinIsTerminal reports whether stdin is an interactive terminal,
// which decides whether the password prompt can disable echo.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func stdinFd() uintptr {
	return os.Stdin.Fd()
}

// clipLine truncates a line to the given width.
func clipLine(line string, width int) string {
	if width <= 3 || len(line) <= width {
		return line
	}
	return line[:width-3] + "..."
}
