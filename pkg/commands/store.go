package commands

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/meirm/askgpt/pkg/config"
	"github.com/meirm/askgpt/pkg/frontmatter"
	"github.com/meirm/askgpt/pkg/logger"
	"github.com/meirm/askgpt/pkg/permissions"
	"github.com/meirm/askgpt/pkg/skills"
)

// commandDir is one cascade root for on-disk commands.
type commandDir struct {
	dir    string
	source string
}

// Store discovers and caches command definitions. Directories are
// probed highest precedence first; the cache is a per-process lookup
// accelerator, never re-read for a name already loaded.
type Store struct {
	commandDirs []commandDir
	builtin     fs.FS
	policy      *permissions.Policy
	skills      *skills.Discovery
	evalEnabled bool

	cache map[string]*Command
}

// StoreOption configures a Store.
type StoreOption func(*Store) error

// WithDirs sets explicit command directories, highest precedence first.
func WithDirs(dirs ...string) StoreOption {
	return func(s *Store) error {
		if len(dirs) == 0 {
			return errors.New("at least one command directory must be specified")
		}
		s.commandDirs = s.commandDirs[:0]
		sources := []string{"project", "global"}
		for i, dir := range dirs {
			source := "global"
			if i < len(sources) {
				source = sources[i]
			}
			s.commandDirs = append(s.commandDirs, commandDir{dir: dir, source: source})
		}
		return nil
	}
}

// WithDefaultDirs initializes the standard cascade rooted at the given
// working directory: <workingDir>/.askgpt/commands then ~/.askgpt/commands.
func WithDefaultDirs(workingDir string) StoreOption {
	return func(s *Store) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		if workingDir == "" {
			workingDir = "."
		}
		s.commandDirs = []commandDir{
			{dir: filepath.Join(workingDir, ".askgpt", "commands"), source: "project"},
			{dir: filepath.Join(homeDir, ".askgpt", "commands"), source: "global"},
		}
		return nil
	}
}

// WithPolicy sets the permission policy checked before execution.
func WithPolicy(policy *permissions.Policy) StoreOption {
	return func(s *Store) error {
		s.policy = policy
		return nil
	}
}

// WithCommandEval sets the shell-evaluation toggle explicitly. Left
// unset, the ASKGPT_ENABLE_COMMAND_EVAL environment toggle decides.
func WithCommandEval(enabled bool) StoreOption {
	return func(s *Store) error {
		s.evalEnabled = enabled
		return nil
	}
}

// WithSkills wires a skill discovery used as the fallback when a name
// matches no command.
func WithSkills(discovery *skills.Discovery) StoreOption {
	return func(s *Store) error {
		s.skills = discovery
		return nil
	}
}

// WithBuiltinFS overrides the builtin command filesystem.
func WithBuiltinFS(fsys fs.FS) StoreOption {
	return func(s *Store) error {
		s.builtin = fsys
		return nil
	}
}

// NewStore creates a command store. Without options the default cascade
// rooted at the current directory is used, the packaged builtin
// commands form the lowest-precedence root, and the shell-evaluation
// toggle is resolved from the environment.
func NewStore(opts ...StoreOption) (*Store, error) {
	s := &Store{
		builtin:     BuiltinFS(),
		evalEnabled: config.ResolveCommandEval(nil),
		cache:       make(map[string]*Command),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, errors.Wrap(err, "failed to apply command store option")
		}
	}

	if len(s.commandDirs) == 0 {
		if err := WithDefaultDirs("")(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// EnsureDirs creates the on-disk cascade directories so a fresh install
// needs no manual setup. Idempotent.
func (s *Store) EnsureDirs() error {
	var result *multierror.Error
	for _, cd := range s.commandDirs {
		if err := os.MkdirAll(cd.dir, 0o755); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "failed to create command directory %s", cd.dir))
		}
	}
	return result.ErrorOrNil()
}

// Load returns the command of the given name, probing the cascade
// highest precedence first. Repeated lookups are served from the
// cache, absence included: a name confirmed absent is not probed
// again until the next Discover pass. A missing or unreadable
// definition is absent, never an error.
func (s *Store) Load(ctx context.Context, name string) (*Command, bool) {
	if name == "" || strings.ContainsAny(name, "/\\") {
		return nil, false
	}

	if cmd, ok := s.cache[name]; ok {
		return cmd, cmd != nil
	}

	for _, cd := range s.commandDirs {
		path := filepath.Join(cd.dir, name+".md")
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		cmd := parseCommand(name, path, string(content), cd.source)
		s.cache[name] = cmd
		logger.G(ctx).WithFields(map[string]interface{}{
			"command": name,
			"source":  cd.source,
		}).Debug("Loaded command")
		return cmd, true
	}

	if s.builtin != nil {
		if content, err := fs.ReadFile(s.builtin, name+".md"); err == nil {
			cmd := parseCommand(name, name+".md", string(content), "builtin")
			s.cache[name] = cmd
			logger.G(ctx).WithField("command", name).Debug("Loaded builtin command")
			return cmd, true
		}
	}

	// Absence is cached too
	s.cache[name] = nil
	return nil, false
}

// Discover re-scans every cascade root and returns all commands sorted
// by name, one entry per name honoring precedence. Per-file failures
// are aggregated into the returned error; the pass always completes.
func (s *Store) Discover(ctx context.Context) ([]*Command, error) {
	found := make(map[string]*Command)
	var result *multierror.Error

	for _, cd := range s.commandDirs {
		entries, err := os.ReadDir(cd.dir)
		if err != nil {
			// Missing cascade roots are normal
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}

			name := strings.TrimSuffix(entry.Name(), ".md")
			if _, exists := found[name]; exists {
				continue
			}

			path := filepath.Join(cd.dir, entry.Name())
			content, err := os.ReadFile(path)
			if err != nil {
				result = multierror.Append(result, errors.Wrapf(err, "failed to read command file %s", path))
				continue
			}

			found[name] = parseCommand(name, path, string(content), cd.source)
		}
	}

	if s.builtin != nil {
		if entries, err := fs.ReadDir(s.builtin, "."); err == nil {
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
					continue
				}

				name := strings.TrimSuffix(entry.Name(), ".md")
				if _, exists := found[name]; exists {
					continue
				}

				content, err := fs.ReadFile(s.builtin, entry.Name())
				if err != nil {
					continue
				}
				found[name] = parseCommand(name, entry.Name(), string(content), "builtin")
			}
		}
	}

	// Rebuild the cache from scratch so stale entries, absence
	// markers included, do not survive the re-scan
	s.cache = make(map[string]*Command, len(found))

	list := make([]*Command, 0, len(found))
	for name, cmd := range found {
		s.cache[name] = cmd
		list = append(list, cmd)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	logger.G(ctx).WithField("count", len(list)).Debug("Discovered commands")
	return list, result.ErrorOrNil()
}

// parseCommand builds a Command from definition file text. Parsing
// never fails; a degenerate file still yields a usable command whose
// template is the whole file.
func parseCommand(name, path, content, source string) *Command {
	doc := frontmatter.Parse(content)

	description := doc.Description
	if description == "" {
		description = "Command: " + name
	}

	return &Command{
		Name:           name,
		Path:           path,
		Source:         source,
		Description:    description,
		PromptTemplate: doc.Body,
		Metadata:       doc.Metadata,
		RequiredTools:  frontmatter.Tools(doc.Metadata),
	}
}
