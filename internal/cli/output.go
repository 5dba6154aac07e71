package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Output destinations, swapped in tests.
var (
	stdout io.Writer = color.Output
	stderr io.Writer = color.Error
)

// Output colors
var (
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.FgMagenta)
	verboseColor = color.New(color.FgHiBlack)
	prefixColor  = color.New(color.FgCyan)
)

// logPrefix is prepended to every per-job log line.
const logPrefix = "dottmpl: "

// Output formatting helpers

func writeln(w io.Writer, msg string) {
	fmt.Fprintln(w, msg)
}

// hostLog is the line sink handed to the template hooks.
func hostLog(line string) {
	if globalQuiet {
		return
	}
	prefixColor.Fprint(stdout, logPrefix)
	writeln(stdout, line)
}

// printInfo prints an informational message
func printInfo(msg string) {
	if globalQuiet {
		return
	}
	writeln(stdout, msg)
}

// printSuccess prints a success message
func printSuccess(msg string) {
	if globalQuiet {
		return
	}
	successColor.Fprint(stdout, "✓ ")
	writeln(stdout, msg)
}

// printWarning prints a warning message
func printWarning(msg string) {
	if globalQuiet {
		return
	}
	warningColor.Fprint(stdout, "⚠ ")
	writeln(stdout, msg)
}

// printErrorMsg prints an error message (different from printError which takes error type)
func printErrorMsg(msg string) {
	errorColor.Fprint(stderr, "✗ ")
	writeln(stderr, msg)
}

// printVerbose prints a message when verbose output is configured.
func printVerbose(msg string) {
	if globalQuiet || !globalConfig.Output.Verbose {
		return
	}
	verboseColor.Fprint(stdout, "[VERBOSE] ")
	writeln(stdout, msg)
}

// printHeader prints a section header
func printHeader(title string) {
	if globalQuiet {
		return
	}
	headerColor.Fprintf(stdout, "\n=== %s ===\n", title)
}
