package util

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	arrow   = color.New(color.FgCyan, color.Bold)
	green   = color.New(color.FgGreen)
	yellow  = color.New(color.FgYellow)
	boldRed = color.New(color.FgRed, color.Bold)
	bold    = color.New(color.Bold)

	mirrorMu sync.Mutex
	mirror   func(level, msg string)
)

// SetMirror installs a sink that receives every console line (uncolored)
// so it can be persisted to the run log. Passing nil removes the sink.
func SetMirror(fn func(level, msg string)) {
	mirrorMu.Lock()
	defer mirrorMu.Unlock()
	mirror = fn
}

func mirrorLine(level, msg string) {
	mirrorMu.Lock()
	fn := mirror
	mirrorMu.Unlock()
	if fn != nil {
		fn(level, msg)
	}
}

// Log prints an informational message to stderr with a cyan bold "==>" prefix.
func Log(msg string, args ...interface{}) {
	formatted := fmt.Sprintf(msg, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", arrow.Sprint("==>"), formatted)
	mirrorLine("info", formatted)
}

// Success prints a success message to stderr with a green "==>" prefix.
func Success(msg string, args ...interface{}) {
	formatted := fmt.Sprintf(msg, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", green.Sprint("==>"), green.Sprint(formatted))
	mirrorLine("info", formatted)
}

// Warn prints a warning message to stderr.
func Warn(msg string, args ...interface{}) {
	formatted := fmt.Sprintf(msg, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", yellow.Sprint("WARN:"), yellow.Sprint(formatted))
	mirrorLine("warn", formatted)
}

// Error prints an error message to stderr. Exiting is the caller's job.
func Error(msg string, args ...interface{}) {
	formatted := fmt.Sprintf(msg, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", boldRed.Sprint("ERROR:"), boldRed.Sprint(formatted))
	mirrorLine("error", formatted)
}

// Section prints a bold section header to stdout (e.g., "==> fetch hadoop").
func Section(msg string, args ...interface{}) {
	formatted := fmt.Sprintf(msg, args...)
	fmt.Println(bold.Sprint("==> " + formatted))
	mirrorLine("info", formatted)
}
