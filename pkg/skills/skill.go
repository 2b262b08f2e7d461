// Package skills discovers agent skills from the builtin set and the
// global and project skill directories. A skill is a directory holding
// a SKILL.md file whose YAML frontmatter names and describes it; the
// body is the instruction text handed to the model when the skill is
// invoked. Project skills shadow global skills, which shadow builtins.
package skills

import "strings"

const skillFileName = "SKILL.md"

// Name and description limits from the skill file format.
const (
	maxNameLength        = 64
	maxDescriptionLength = 1024
)

// Skill is a discovered skill. Enabled reflects the permission policy
// at discovery time; a disabled skill is invisible to command fallback.
type Skill struct {
	Name           string
	Directory      string
	Path           string
	Description    string
	Instructions   string
	Metadata       map[string]interface{}
	RequiredTools  []string
	Source         string
	Enabled        bool
	DisabledReason string
}

// normalizeName canonicalizes a skill name: lowercase, hyphens instead
// of underscores, capped at 64 characters. Names containing reserved
// words are rejected entirely (returned empty).
func normalizeName(name string) string {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")

	// Cap on runes, not bytes, so a multi-byte name is never split
	// mid-character
	if runes := []rune(name); len(runes) > maxNameLength {
		name = string(runes[:maxNameLength])
	}

	for _, reserved := range []string{"anthropic", "claude"} {
		if strings.Contains(name, reserved) {
			return ""
		}
	}

	return name
}
