// Package color provides terminal color output for zonectl.
// Detection of NO_COLOR and non-terminal output is delegated to fatih/color.
package color

import (
	"fmt"
	"os"

	fcolor "github.com/fatih/color"
)

// Init applies the --no-color flag and TERM=dumb on top of fatih/color's
// own NO_COLOR and TTY detection.
func Init(noColorFlag bool) {
	if noColorFlag || os.Getenv("TERM") == "dumb" {
		fcolor.NoColor = true
	}
}

// Enabled returns true if color output is enabled.
func Enabled() bool {
	return !fcolor.NoColor
}

// Disable turns off color output.
func Disable() {
	fcolor.NoColor = true
}

// Enable turns on color output.
func Enable() {
	fcolor.NoColor = false
}

var (
	red    = fcolor.New(fcolor.FgRed).SprintFunc()
	green  = fcolor.New(fcolor.FgGreen).SprintFunc()
	yellow = fcolor.New(fcolor.FgYellow).SprintFunc()
	cyan   = fcolor.New(fcolor.FgCyan).SprintFunc()
	bold   = fcolor.New(fcolor.Bold).SprintFunc()
	faint  = fcolor.New(fcolor.Faint).SprintFunc()
)

// Success formats a success message in green.
func Success(s string) string { return green(s) }

// Successf formats a success message with printf-style arguments.
func Successf(format string, args ...any) string { return green(fmt.Sprintf(format, args...)) }

// Error formats an error message in red.
func Error(s string) string { return red(s) }

// Warning formats a warning message in yellow.
func Warning(s string) string { return yellow(s) }

// Header formats a header in bold.
func Header(s string) string { return bold(s) }

// Dim formats dimmed text (for secondary information).
func Dim(s string) string { return faint(s) }

// State colors a zone state by how "up" it is.
func State(s string) string {
	switch s {
	case "running":
		return green(s)
	case "ready", "installed":
		return cyan(s)
	case "incomplete":
		return yellow(s)
	case "configured":
		return s
	default:
		return red(s)
	}
}
