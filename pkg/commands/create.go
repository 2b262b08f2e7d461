package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const commandTemplate = `# %s

Brief description of what this %s command does.

## Prompt Template

Perform the following task: $ARGUMENTS

Please be thorough and provide detailed output.

## Usage

` + "```bash" + `
askgpt run %s "your arguments here"
` + "```" + `

## Metadata

category: general
`

// CreateTemplate writes a starter command file into the project
// directory, or the global one when global is set. Existing files are
// only replaced with overwrite. Returns the path written.
func (s *Store) CreateTemplate(name string, global, overwrite bool) (string, error) {
	if name == "" || strings.ContainsAny(name, "/\\") {
		return "", errors.Errorf("invalid command name %q", name)
	}

	dir := s.dirForSource("project")
	if global {
		dir = s.dirForSource("global")
	}
	if dir == "" {
		return "", errors.New("no command directory configured")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create command directory %s", dir)
	}

	path := filepath.Join(dir, name+".md")
	if _, err := os.Stat(path); err == nil && !overwrite {
		return "", errors.Errorf("command '%s' already exists at %s", name, path)
	}

	content := fmt.Sprintf(commandTemplate, titleCase(name), name, name)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write command template %s", path)
	}

	// The file on disk has changed under us
	delete(s.cache, name)

	return path, nil
}

// titleCase renders a command name as a heading: hyphens and
// underscores become spaces, each word capitalized.
func titleCase(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func (s *Store) dirForSource(source string) string {
	for _, cd := range s.commandDirs {
		if cd.source == source {
			return cd.dir
		}
	}
	if len(s.commandDirs) > 0 {
		return s.commandDirs[0].dir
	}
	return ""
}
