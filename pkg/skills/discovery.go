package skills

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/meirm/askgpt/pkg/frontmatter"
	"github.com/meirm/askgpt/pkg/logger"
	"github.com/meirm/askgpt/pkg/permissions"
)

// skillDir is one cascade root for on-disk skills.
type skillDir struct {
	dir    string
	source string
}

// Discovery finds skills across the cascade: project directory first,
// then the user-global directory, then the builtin set. The first
// occurrence of a name wins.
type Discovery struct {
	skillDirs []skillDir
	builtin   fs.FS
	policy    *permissions.Policy

	cache map[string]*Skill
}

// Option configures a Discovery.
type Option func(*Discovery) error

// WithSkillDirs sets explicit skill directories, highest precedence first.
func WithSkillDirs(dirs ...string) Option {
	return func(d *Discovery) error {
		if len(dirs) == 0 {
			return errors.New("at least one skill directory must be specified")
		}
		d.skillDirs = d.skillDirs[:0]
		sources := []string{"project", "global"}
		for i, dir := range dirs {
			source := "global"
			if i < len(sources) {
				source = sources[i]
			}
			d.skillDirs = append(d.skillDirs, skillDir{dir: dir, source: source})
		}
		return nil
	}
}

// WithDefaultDirs initializes the standard cascade rooted at the given
// working directory: <workingDir>/.askgpt/skills then ~/.askgpt/skills.
func WithDefaultDirs(workingDir string) Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		if workingDir == "" {
			workingDir = "."
		}
		d.skillDirs = []skillDir{
			{dir: filepath.Join(workingDir, ".askgpt", "skills"), source: "project"},
			{dir: filepath.Join(homeDir, ".askgpt", "skills"), source: "global"},
		}
		return nil
	}
}

// WithPolicy sets the permission policy used to compute skill enablement.
func WithPolicy(policy *permissions.Policy) Option {
	return func(d *Discovery) error {
		d.policy = policy
		return nil
	}
}

// WithBuiltinFS overrides the builtin skill filesystem.
func WithBuiltinFS(fsys fs.FS) Option {
	return func(d *Discovery) error {
		d.builtin = fsys
		return nil
	}
}

// NewDiscovery creates a skill discovery instance. Without options the
// default cascade rooted at the current directory is used, with the
// packaged builtin skills as the lowest-precedence root.
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{builtin: BuiltinFS()}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, errors.Wrap(err, "failed to apply skill discovery option")
		}
	}

	if len(d.skillDirs) == 0 {
		if err := WithDefaultDirs("")(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// EnsureDirs creates the on-disk cascade directories so a fresh install
// needs no manual setup. Idempotent.
func (d *Discovery) EnsureDirs() error {
	var result *multierror.Error
	for _, sd := range d.skillDirs {
		if err := os.MkdirAll(sd.dir, 0o755); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "failed to create skill directory %s", sd.dir))
		}
	}
	return result.ErrorOrNil()
}

// DiscoverSkills scans every cascade root and returns all skills keyed
// by name, including disabled ones. The filesystem is re-read on every
// call; per-skill parse failures are aggregated, never fatal.
func (d *Discovery) DiscoverSkills(ctx context.Context) (map[string]*Skill, error) {
	skills := make(map[string]*Skill)
	var result *multierror.Error

	for _, sd := range d.skillDirs {
		if err := d.discoverFromDir(ctx, sd.dir, sd.source, skills); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if d.builtin != nil {
		if err := d.discoverFromFS(ctx, d.builtin, skills); err != nil {
			result = multierror.Append(result, err)
		}
	}

	d.cache = skills
	return skills, result.ErrorOrNil()
}

func (d *Discovery) discoverFromDir(ctx context.Context, dir, source string, skills map[string]*Skill) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Missing cascade roots are normal
		return nil
	}

	var result *multierror.Error
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		skillPath := filepath.Join(dir, entry.Name(), skillFileName)
		content, err := os.ReadFile(skillPath)
		if err != nil {
			continue
		}

		skill, err := d.parseSkill(entry.Name(), string(content), source)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "failed to load skill %s", skillPath))
			continue
		}

		skill.Directory = filepath.Join(dir, entry.Name())
		skill.Path = skillPath

		if _, exists := skills[skill.Name]; !exists {
			skills[skill.Name] = skill
			logger.G(ctx).WithFields(map[string]interface{}{
				"skill":  skill.Name,
				"source": source,
			}).Debug("Discovered skill")
		}
	}

	return result.ErrorOrNil()
}

func (d *Discovery) discoverFromFS(ctx context.Context, fsys fs.FS, skills map[string]*Skill) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil
	}

	var result *multierror.Error
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		skillPath := entry.Name() + "/" + skillFileName
		content, err := fs.ReadFile(fsys, skillPath)
		if err != nil {
			continue
		}

		skill, err := d.parseSkill(entry.Name(), string(content), "builtin")
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "failed to load builtin skill %s", skillPath))
			continue
		}

		skill.Directory = entry.Name()
		skill.Path = skillPath

		if _, exists := skills[skill.Name]; !exists {
			skills[skill.Name] = skill
			logger.G(ctx).WithField("skill", skill.Name).Debug("Discovered builtin skill")
		}
	}

	return result.ErrorOrNil()
}

// parseSkill builds a Skill from SKILL.md content. The frontmatter name
// wins over the directory name; both are normalized the same way.
func (d *Discovery) parseSkill(dirName, content, source string) (*Skill, error) {
	doc := frontmatter.Parse(content)

	name := dirName
	if metaName, ok := doc.Metadata["name"].(string); ok && metaName != "" {
		name = metaName
	}
	name = normalizeName(name)
	if name == "" {
		return nil, errors.Errorf("skill '%s' has no usable name", dirName)
	}

	description := doc.Description
	if description == "" {
		description = "Skill: " + name
	}
	if len(description) > maxDescriptionLength {
		description = description[:maxDescriptionLength]
	}

	skill := &Skill{
		Name:          name,
		Description:   description,
		Instructions:  doc.Body,
		Metadata:      doc.Metadata,
		RequiredTools: frontmatter.Tools(doc.Metadata),
		Source:        source,
		Enabled:       true,
	}

	d.applyPolicy(skill)
	return skill, nil
}

// applyPolicy computes the skill's enablement from the permission
// policy. The skills system as a whole must be allowed before
// per-skill tool requirements are considered.
func (d *Discovery) applyPolicy(skill *Skill) {
	if d.policy == nil {
		return
	}

	if !d.policy.SkillsEnabled() {
		skill.Enabled = false
		skill.DisabledReason = `Skills system disabled ("skill" not in allowed tools)`
		return
	}

	if err := d.policy.Check(skill.Name, skill.RequiredTools); err != nil {
		skill.Enabled = false
		skill.DisabledReason = err.Error()
	}
}

// GetSkill returns a skill by name, disabled ones included. Lookups hit
// the cache populated by the last discovery pass.
func (d *Discovery) GetSkill(ctx context.Context, name string) (*Skill, bool) {
	if d.cache == nil {
		if _, err := d.DiscoverSkills(ctx); err != nil {
			logger.G(ctx).WithError(err).Debug("Skill discovery reported errors")
		}
	}

	skill, ok := d.cache[normalizeName(name)]
	return skill, ok
}

// ListSkills returns all discovered skills sorted by name.
func (d *Discovery) ListSkills(ctx context.Context) ([]*Skill, error) {
	skills, err := d.DiscoverSkills(ctx)

	list := make([]*Skill, 0, len(skills))
	for _, skill := range skills {
		list = append(list, skill)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	return list, err
}

// Summary renders the enabled skills as a block suitable for inclusion
// in a system prompt. Empty when no skill is enabled.
func (d *Discovery) Summary(ctx context.Context) string {
	skills, err := d.ListSkills(ctx)
	if err != nil {
		logger.G(ctx).WithError(err).Debug("Skill discovery reported errors")
	}

	var lines []string
	for _, skill := range skills {
		if skill.Enabled {
			lines = append(lines, "- "+skill.Name+": "+skill.Description)
		}
	}
	if len(lines) == 0 {
		return ""
	}

	return "Available Skills:\n" + strings.Join(lines, "\n")
}
