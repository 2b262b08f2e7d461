// Package commands loads slash-command definitions from the builtin
// set and the global and project command directories, and resolves a
// command name plus argument string into final prompt text. Project
// commands shadow global commands, which shadow builtins. When a name
// matches no command, resolution falls back to the skill of that name.
package commands

// Command is a parsed command definition. RequiredTools comes from the
// tools/allowed-tools frontmatter keys; empty means no restriction.
type Command struct {
	Name           string
	Path           string
	Source         string
	Description    string
	PromptTemplate string
	Metadata       map[string]interface{}
	RequiredTools  []string
}
