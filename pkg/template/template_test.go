package template

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_ArgumentSubstitution(t *testing.T) {
	ctx := context.Background()

	result := Render(ctx, "Process: $ARGUMENTS", "hello", false)
	assert.Equal(t, "Process: hello", result)

	result = Render(ctx, "Braced: ${ARGUMENTS} and bare: $ARGUMENTS", "x", false)
	assert.Equal(t, "Braced: x and bare: x", result)

	result = Render(ctx, "Lower: $arguments / ${arguments}", "y", false)
	assert.Equal(t, "Lower: y / y", result)
}

func TestRender_TaskTrailer(t *testing.T) {
	ctx := context.Background()

	result := Render(ctx, "Do the task.", "hello", false)
	assert.Contains(t, result, "Do the task.")
	assert.Contains(t, result, "Task: hello")

	// No arguments, no trailer
	result = Render(ctx, "Do the task.", "", false)
	assert.Equal(t, "Do the task.", result)

	// A placeholder suppresses the trailer
	result = Render(ctx, "Run: $ARGUMENTS", "hello", false)
	assert.NotContains(t, result, "Task:")
}

func TestRender_Idempotent(t *testing.T) {
	body := "No placeholders here.\nJust text."
	result := Render(context.Background(), body, "", false)
	assert.Equal(t, body, result)
}

func TestRender_EvalDisabled(t *testing.T) {
	result := Render(context.Background(), "Date: $`date`", "", false)
	// The span stays literal when evaluation is off
	assert.Equal(t, "Date: $`date`", result)
}

func TestRender_EvalSuccess(t *testing.T) {
	result := Render(context.Background(), "Greeting: $`echo hello`", "", true)
	assert.Equal(t, "Greeting: hello", result)
}

func TestRender_EvalUsesArguments(t *testing.T) {
	result := Render(context.Background(), "Out: $`echo processing $ARGUMENTS`", "world", true)
	assert.Equal(t, "Out: processing world", result)
}

func TestRender_EvalMultilineCollapsed(t *testing.T) {
	result := Render(context.Background(), "Lines: $`printf 'a\\nb\\nc'`", "", true)
	assert.Equal(t, "Lines: a b c", result)
}

func TestRender_EvalEmptyCommand(t *testing.T) {
	result := Render(context.Background(), "Bad: $``", "", true)
	assert.Contains(t, result, "[Error: Empty command]")
}

func TestRender_EvalEmptyOutput(t *testing.T) {
	result := Render(context.Background(), "Silent: $`true`", "", true)
	assert.Contains(t, result, "[Empty output]")
}

func TestRender_EvalNonZeroExit(t *testing.T) {
	result := Render(context.Background(), "Fails: $`exit 1`", "", true)
	assert.Contains(t, result, "[Error:")
	assert.Contains(t, result, "exited with code 1")
}

func TestRender_EvalNonZeroExitWithOutput(t *testing.T) {
	result := Render(context.Background(), "Fails: $`echo boom >&2; exit 3`", "", true)
	assert.Contains(t, result, "[Error: boom]")
}

func TestRender_EscapedMarkerNotExecuted(t *testing.T) {
	result := Render(context.Background(), "Literal: \\$`date`", "", true)
	// Backslash removed, command untouched
	assert.Equal(t, "Literal: $`date`", result)
}

func TestRender_AdjacentSpans(t *testing.T) {
	result := Render(context.Background(), "$`echo a`$`echo b`", "", true)
	assert.Equal(t, "ab", result)
}

func TestRender_EscapedDollar(t *testing.T) {
	result := Render(context.Background(), "Price: \\$5", "", false)
	assert.Equal(t, "Price: $5", result)
}

func TestRender_UnterminatedSpanIsLiteral(t *testing.T) {
	result := Render(context.Background(), "Odd: $`no closing", "", true)
	assert.Equal(t, "Odd: $`no closing", result)
}

func TestHasPlaceholder(t *testing.T) {
	assert.True(t, HasPlaceholder("run $ARGUMENTS"))
	assert.True(t, HasPlaceholder("run ${arguments}"))
	assert.False(t, HasPlaceholder("no placeholder"))
}
