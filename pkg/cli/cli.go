// Package cli provides the toolkit's console output: a leveled, colored
// logger for subsystem progress messages and styled print helpers for
// user-facing output.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

var (
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Italic(true)
)

// Options controls global console behavior.
type Options struct {
	// Verbose enables debug-level output.
	Verbose bool
	// NoColor strips all ANSI styling from logs and print helpers.
	NoColor bool
}

var (
	defaultLogger = log.NewWithOptions(os.Stderr, log.Options{})
	out           io.Writer = os.Stdout
	errOut        io.Writer = os.Stderr
)

// Setup configures the default logger and styling. Call it once at
// process start, before any subsystem logger is created.
func Setup(opts Options) {
	if opts.Verbose {
		defaultLogger.SetLevel(log.DebugLevel)
	} else {
		defaultLogger.SetLevel(log.InfoLevel)
	}
	if opts.NoColor {
		defaultLogger.SetColorProfile(termenv.Ascii)
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Default returns the process-wide console logger.
func Default() *log.Logger { return defaultLogger }

// NewLogger returns a logger for a named subsystem, inheriting the
// default logger's level.
func NewLogger(prefix string) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{Prefix: prefix})
	l.SetLevel(defaultLogger.GetLevel())
	return l
}

// SetOutput redirects the print helpers; tests use it to capture output.
func SetOutput(stdout, stderr io.Writer) {
	out = stdout
	errOut = stderr
}

// PrintData writes machine-readable payload output to stdout, unstyled.
func PrintData(msg string) {
	fmt.Fprintln(out, msg)
}

// PrintInfo writes an informational message to stdout.
func PrintInfo(msg string) {
	fmt.Fprintln(out, infoStyle.Render(msg))
}

// PrintWarn writes a warning to stderr.
func PrintWarn(msg string) {
	fmt.Fprintln(errOut, warnStyle.Render("Warning: "+msg))
}

// Hinter is implemented by errors that carry a remediation hint, such as
// the loader error family.
type Hinter interface {
	FixHint() string
}

// PrintError writes an error to stderr, followed by its fix hint when the
// error carries one.
func PrintError(err error) {
	fmt.Fprintln(errOut, errorStyle.Render("Error: ")+err.Error())
	var h Hinter
	if errors.As(err, &h) && h.FixHint() != "" {
		fmt.Fprintln(errOut, hintStyle.Render("Hint: "+h.FixHint()))
	}
}

// Fail prints the error and terminates the process with the given code.
func Fail(err error, code int) {
	PrintError(err)
	os.Exit(code)
}
