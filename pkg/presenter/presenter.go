// Package presenter provides consistent CLI output for user-facing
// messages: success, error, warning, and informational lines with
// color support and a quiet mode.
package presenter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Presenter writes user-facing messages.
type Presenter struct {
	output      io.Writer
	errorOutput io.Writer
	quiet       bool
}

// New creates a Presenter writing to stdout and stderr, with color
// auto-detection honoring NO_COLOR and ASKGPT_COLOR.
func New() *Presenter {
	switch os.Getenv("ASKGPT_COLOR") {
	case "always", "force":
		color.NoColor = false
	case "never", "off":
		color.NoColor = true
	}
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	return NewWithWriters(os.Stdout, os.Stderr)
}

// NewWithWriters creates a Presenter with custom output streams.
func NewWithWriters(output, errorOutput io.Writer) *Presenter {
	return &Presenter{output: output, errorOutput: errorOutput}
}

// SetQuiet suppresses everything except errors.
func (p *Presenter) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// Error displays an error message to stderr. Errors ignore quiet mode.
func (p *Presenter) Error(err error, context string) {
	if err == nil {
		return
	}

	errorColor := color.New(color.FgRed, color.Bold)
	if context != "" {
		errorColor.Fprintf(p.errorOutput, "[ERROR] %s: %v\n", context, err)
	} else {
		errorColor.Fprintf(p.errorOutput, "[ERROR] %v\n", err)
	}
}

// Success displays a success message
func (p *Presenter) Success(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgGreen, color.Bold).Fprintf(p.output, "✓ %s\n", message)
}

// Warning displays a warning message
func (p *Presenter) Warning(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgYellow, color.Bold).Fprintf(p.output, "⚠ %s\n", message)
}

// Info displays an informational message
func (p *Presenter) Info(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.output, "%s\n", message)
}

// Section displays a section header
func (p *Presenter) Section(title string) {
	if p.quiet {
		return
	}
	headerColor := color.New(color.Bold)
	headerColor.Fprintf(p.output, "%s\n", title)
	headerColor.Fprintf(p.output, "%s\n", strings.Repeat("-", len(title)))
}
