package gitrepo

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	cmd := exec.Command("git", "init", "--quiet")
	cmd.Dir = dir
	require.NoError(t, cmd.Run())
	return dir
}

func TestDiscover(t *testing.T) {
	dir := initRepo(t)

	repo, err := Discover(dir)
	require.NoError(t, err)

	wantRoot, evalErr := filepath.EvalSymlinks(dir)
	require.NoError(t, evalErr)
	gotRoot, evalErr := filepath.EvalSymlinks(repo.Root())
	require.NoError(t, evalErr)
	assert.Equal(t, wantRoot, gotRoot)
	assert.DirExists(t, repo.GitDir())
}

func TestDiscoverFromSubdirectory(t *testing.T) {
	dir := initRepo(t)
	sub := filepath.Join(dir, "nested", "deep")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	repo, err := Discover(sub)
	require.NoError(t, err)

	wantRoot, _ := filepath.EvalSymlinks(dir)
	gotRoot, _ := filepath.EvalSymlinks(repo.Root())
	assert.Equal(t, wantRoot, gotRoot)
}

func TestDiscoverNotARepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	_, err := Discover(t.TempDir())
	assert.ErrorIs(t, err, ErrNotRepo)
}

func TestHooksDirDefault(t *testing.T) {
	dir := initRepo(t)
	repo, err := Discover(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(repo.GitDir(), "hooks"), repo.HooksDir())
	assert.Equal(t, filepath.Join(repo.GitDir(), "hooks", "pre-commit"), repo.HookPath("pre-commit"))
}

func TestFileAndDirExists(t *testing.T) {
	dir := initRepo(t)
	repo, err := Discover(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "subdir"), 0o755))

	assert.True(t, repo.FileExists("file.txt"))
	assert.False(t, repo.FileExists("missing.txt"))
	assert.False(t, repo.FileExists("subdir"), "directories are not files")

	assert.True(t, repo.DirExists("subdir"))
	assert.False(t, repo.DirExists("file.txt"))
	assert.False(t, repo.DirExists("missing"))
}

func TestStagedFiles(t *testing.T) {
	dir := initRepo(t)
	repo, err := Discover(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "staged.txt"), []byte("x"), 0o644))
	add := exec.Command("git", "add", "staged.txt")
	add.Dir = dir
	require.NoError(t, add.Run())

	files, err := repo.StagedFiles()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "staged.txt", filepath.Base(files[0]))
}
