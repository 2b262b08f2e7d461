// Package template renders command and skill prompt templates:
// $ARGUMENTS placeholder substitution plus an opt-in micro-DSL that
// evaluates $`cmd` spans through a shell and splices the output inline.
// Shell evaluation is disabled unless explicitly turned on, and every
// embedded command runs under a hard 10 second timeout.
package template

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/meirm/askgpt/pkg/logger"
)

// CommandTimeout is the wall-clock limit for a single embedded command.
const CommandTimeout = 10 * time.Second

// Placeholder spellings replaced by the caller-supplied arguments, all
// supported simultaneously within one template.
var placeholders = []string{"$ARGUMENTS", "${ARGUMENTS}", "$arguments", "${arguments}"}

// Render substitutes arguments into body and, when evalEnabled is true,
// evaluates embedded $`cmd` spans. A body with no placeholder gets the
// arguments appended as a Task trailer instead, so argument-less
// definitions still receive what the caller typed. Embedded command
// failures never abort rendering; they become inline bracketed error
// tokens and the rest of the template still resolves.
func Render(ctx context.Context, body, arguments string, evalEnabled bool) string {
	prompt := body
	for _, placeholder := range placeholders {
		prompt = strings.ReplaceAll(prompt, placeholder, arguments)
	}

	if arguments != "" && !HasPlaceholder(body) {
		prompt = strings.TrimRight(prompt, " \t\n") + "\n\nTask: " + arguments
	}

	// Evaluation runs after substitution so arguments are visible to
	// embedded commands.
	if evalEnabled {
		prompt = evalCommands(ctx, prompt)
	}

	prompt = strings.ReplaceAll(prompt, `\$`, "$")

	return strings.TrimSpace(prompt)
}

// HasPlaceholder reports whether body references the arguments
// placeholder in any supported spelling.
func HasPlaceholder(body string) bool {
	for _, placeholder := range placeholders {
		if strings.Contains(body, placeholder) {
			return true
		}
	}
	return false
}

// evalCommands replaces each unescaped $`cmd` span with the command's
// output, then strips the escaping backslash from \$` spans the author
// wanted kept literal.
func evalCommands(ctx context.Context, text string) string {
	var out strings.Builder
	i := 0

	for i < len(text) {
		idx := strings.Index(text[i:], "$`")
		if idx < 0 {
			out.WriteString(text[i:])
			break
		}

		start := i + idx
		if start > 0 && text[start-1] == '\\' {
			// Escaped marker, copied verbatim; the backslash comes off below
			out.WriteString(text[i : start+2])
			i = start + 2
			continue
		}

		end := strings.Index(text[start+2:], "`")
		if end < 0 {
			// Unterminated span is literal text
			out.WriteString(text[i:])
			break
		}

		out.WriteString(text[i:start])
		out.WriteString(runCommand(ctx, strings.TrimSpace(text[start+2:start+2+end])))
		i = start + 2 + end + 1
	}

	return strings.ReplaceAll(out.String(), "\\$`", "$`")
}

// runCommand executes one embedded shell command and returns the text
// to splice into the template.
func runCommand(ctx context.Context, command string) string {
	if command == "" {
		return "[Error: Empty command]"
	}

	log := logger.G(ctx).WithField("command", command)
	log.Debug("Evaluating embedded command")

	cmdCtx, cancel := context.WithTimeout(ctx, CommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, "sh", "-c", command)
	stdout, err := cmd.Output()

	var stderr string
	if exitErr, ok := err.(*exec.ExitError); ok {
		stderr = strings.TrimSpace(string(exitErr.Stderr))
	}

	if cmdCtx.Err() == context.DeadlineExceeded {
		log.Warn("Embedded command timed out")
		return fmt.Sprintf("[Error: Command timed out after %d seconds]", int(CommandTimeout.Seconds()))
	}

	output := strings.TrimSpace(string(stdout))
	if output == "" {
		output = stderr
	}

	if err != nil {
		log.WithError(err).Warn("Embedded command failed")
		if output != "" {
			return fmt.Sprintf("[Error: %s]", output)
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Sprintf("[Error: Command exited with code %d]", exitErr.ExitCode())
		}
		return fmt.Sprintf("[Error: %v]", err)
	}

	if output == "" {
		return "[Empty output]"
	}

	// Keep the substitution inline
	return strings.ReplaceAll(output, "\n", " ")
}
