package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCommand(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name+".md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestStore(t *testing.T, opts ...StoreOption) *Store {
	t.Helper()
	store, err := NewStore(opts...)
	require.NoError(t, err)
	return store
}

func TestLoad_FromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeCommand(t, dir, "greet", "---\ndescription: Say hello\n---\nHello, $ARGUMENTS!\n")

	store := newTestStore(t, WithDirs(dir), WithBuiltinFS(nil))

	cmd, ok := store.Load(context.Background(), "greet")
	require.True(t, ok)
	assert.Equal(t, "greet", cmd.Name)
	assert.Equal(t, "Say hello", cmd.Description)
	assert.Equal(t, "Hello, $ARGUMENTS!", cmd.PromptTemplate)
	assert.Equal(t, "project", cmd.Source)
}

func TestLoad_CascadePrecedence(t *testing.T) {
	project := t.TempDir()
	global := t.TempDir()
	writeCommand(t, project, "deploy", "Project deploy.\n")
	writeCommand(t, global, "deploy", "Global deploy.\n")
	writeCommand(t, global, "release", "Global release.\n")

	store := newTestStore(t, WithDirs(project, global), WithBuiltinFS(nil))
	ctx := context.Background()

	cmd, ok := store.Load(ctx, "deploy")
	require.True(t, ok)
	assert.Equal(t, "Project deploy.", cmd.PromptTemplate)
	assert.Equal(t, "project", cmd.Source)

	cmd, ok = store.Load(ctx, "release")
	require.True(t, ok)
	assert.Equal(t, "global", cmd.Source)
}

func TestLoad_BuiltinFallback(t *testing.T) {
	builtin := fstest.MapFS{
		"explain.md": &fstest.MapFile{Data: []byte("Explain: $ARGUMENTS\n")},
	}

	store := newTestStore(t, WithDirs(t.TempDir()), WithBuiltinFS(builtin))

	cmd, ok := store.Load(context.Background(), "explain")
	require.True(t, ok)
	assert.Equal(t, "builtin", cmd.Source)
	assert.Equal(t, "Explain: $ARGUMENTS", cmd.PromptTemplate)
}

func TestLoad_DirectoryShadowsBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeCommand(t, dir, "explain", "Custom explain.\n")
	builtin := fstest.MapFS{
		"explain.md": &fstest.MapFile{Data: []byte("Builtin explain.\n")},
	}

	store := newTestStore(t, WithDirs(dir), WithBuiltinFS(builtin))

	cmd, ok := store.Load(context.Background(), "explain")
	require.True(t, ok)
	assert.Equal(t, "Custom explain.", cmd.PromptTemplate)
}

func TestLoad_NotFound(t *testing.T) {
	store := newTestStore(t, WithDirs(t.TempDir()), WithBuiltinFS(nil))

	_, ok := store.Load(context.Background(), "missing")
	assert.False(t, ok)
}

func TestLoad_RejectsPathTraversal(t *testing.T) {
	store := newTestStore(t, WithDirs(t.TempDir()), WithBuiltinFS(nil))
	ctx := context.Background()

	_, ok := store.Load(ctx, "")
	assert.False(t, ok)
	_, ok = store.Load(ctx, "../etc/passwd")
	assert.False(t, ok)
	_, ok = store.Load(ctx, `sub\dir`)
	assert.False(t, ok)
}

func TestLoad_CachesResult(t *testing.T) {
	dir := t.TempDir()
	path := writeCommand(t, dir, "cached", "First version.\n")

	store := newTestStore(t, WithDirs(dir), WithBuiltinFS(nil))
	ctx := context.Background()

	cmd, ok := store.Load(ctx, "cached")
	require.True(t, ok)
	assert.Equal(t, "First version.", cmd.PromptTemplate)

	// Editing the file on disk does not invalidate the cache
	require.NoError(t, os.WriteFile(path, []byte("Second version.\n"), 0o644))
	cmd, ok = store.Load(ctx, "cached")
	require.True(t, ok)
	assert.Equal(t, "First version.", cmd.PromptTemplate)
}

func TestLoad_CachesAbsence(t *testing.T) {
	dir := t.TempDir()

	store := newTestStore(t, WithDirs(dir), WithBuiltinFS(nil))
	ctx := context.Background()

	_, ok := store.Load(ctx, "latecomer")
	require.False(t, ok)

	// A file appearing later is not picked up by Load alone
	writeCommand(t, dir, "latecomer", "Now I exist.\n")
	_, ok = store.Load(ctx, "latecomer")
	assert.False(t, ok)

	// A discovery pass clears the absence marker
	_, err := store.Discover(ctx)
	require.NoError(t, err)

	cmd, ok := store.Load(ctx, "latecomer")
	require.True(t, ok)
	assert.Equal(t, "Now I exist.", cmd.PromptTemplate)
}

func TestDiscover_AllRoots(t *testing.T) {
	project := t.TempDir()
	global := t.TempDir()
	writeCommand(t, project, "alpha", "Project alpha.\n")
	writeCommand(t, global, "alpha", "Global alpha.\n")
	writeCommand(t, global, "beta", "Global beta.\n")
	builtin := fstest.MapFS{
		"alpha.md": &fstest.MapFile{Data: []byte("Builtin alpha.\n")},
		"gamma.md": &fstest.MapFile{Data: []byte("Builtin gamma.\n")},
	}

	store := newTestStore(t, WithDirs(project, global), WithBuiltinFS(builtin))

	list, err := store.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)

	// Sorted by name, precedence already applied
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "project", list[0].Source)
	assert.Equal(t, "beta", list[1].Name)
	assert.Equal(t, "gamma", list[2].Name)
	assert.Equal(t, "builtin", list[2].Source)
}

func TestDiscover_IgnoresNonMarkdown(t *testing.T) {
	dir := t.TempDir()
	writeCommand(t, dir, "real", "Real command.\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("nope"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "subdir"), 0o755))

	store := newTestStore(t, WithDirs(dir), WithBuiltinFS(nil))

	list, err := store.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "real", list[0].Name)
}

func TestDiscover_MissingDirsAreNormal(t *testing.T) {
	store := newTestStore(t,
		WithDirs(filepath.Join(t.TempDir(), "does-not-exist")),
		WithBuiltinFS(nil))

	list, err := store.Discover(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, list)
}

func TestParseCommand_DescriptionFallback(t *testing.T) {
	cmd := parseCommand("bare", "bare.md", "## Prompt\n\n$ARGUMENTS only\n", "project")

	assert.Equal(t, "Command: bare", cmd.Description)
	assert.Equal(t, "$ARGUMENTS only", cmd.PromptTemplate)
}

func TestParseCommand_RequiredTools(t *testing.T) {
	content := "---\nallowed-tools:\n  - read_file\n  - bash\n---\nBody.\n"
	cmd := parseCommand("tooled", "tooled.md", content, "project")

	assert.Equal(t, []string{"read_file", "bash_command"}, cmd.RequiredTools)
}

func TestEnsureDirs(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "nested", "commands")

	store := newTestStore(t, WithDirs(dir), WithBuiltinFS(nil))
	require.NoError(t, store.EnsureDirs())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent
	assert.NoError(t, store.EnsureDirs())
}
