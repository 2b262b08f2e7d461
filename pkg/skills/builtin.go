package skills

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

//go:embed builtin
var builtinSkills embed.FS

// BuiltinFS returns the skills packaged with the binary as an fs.FS
// rooted at the skill directories.
func BuiltinFS() fs.FS {
	sub, err := fs.Sub(builtinSkills, "builtin")
	if err != nil {
		return nil
	}
	return sub
}

// InstallBuiltin copies the packaged builtin skills into targetDir so
// users can edit them. Existing skills are skipped unless overwrite is
// set. The result maps skill name to whether it was written.
func (d *Discovery) InstallBuiltin(targetDir string, overwrite bool) (map[string]bool, error) {
	installed := make(map[string]bool)
	if d.builtin == nil {
		return installed, nil
	}

	entries, err := fs.ReadDir(d.builtin, ".")
	if err != nil {
		return installed, nil
	}

	var result *multierror.Error
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		name := entry.Name()
		dest := filepath.Join(targetDir, name)

		if _, err := os.Stat(dest); err == nil && !overwrite {
			installed[name] = false
			continue
		}

		if err := d.copySkill(name, dest); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "failed to install builtin skill %s", name))
			installed[name] = false
			continue
		}
		installed[name] = true
	}

	return installed, result.ErrorOrNil()
}

// copySkill writes every file of one builtin skill directory to dest.
func (d *Discovery) copySkill(name, dest string) error {
	return fs.WalkDir(d.builtin, name, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(name, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		content, err := fs.ReadFile(d.builtin, path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, content, 0o644)
	})
}
