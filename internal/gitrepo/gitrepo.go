// Package gitrepo wraps the git operations apc needs: repository discovery,
// hook paths, staged files, and branch queries.
package gitrepo

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotRepo is returned when the working directory is not inside a git
// repository.
var ErrNotRepo = errors.New("not a git repository")

// Repo represents a discovered git repository.
type Repo struct {
	root   string
	gitDir string
}

// Discover locates the repository containing dir. Empty dir means the
// current directory.
func Discover(dir string) (*Repo, error) {
	out, err := gitOutput(dir, "rev-parse", "--show-toplevel", "--git-dir")
	if err != nil {
		return nil, ErrNotRepo
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		return nil, ErrNotRepo
	}

	root := lines[0]
	gitDir := lines[1]
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(root, gitDir)
	}

	return &Repo{root: root, gitDir: gitDir}, nil
}

// Root returns the repository's top-level directory.
func (r *Repo) Root() string { return r.root }

// GitDir returns the .git directory path.
func (r *Repo) GitDir() string { return r.gitDir }

// HooksDir returns the hooks directory, honoring core.hooksPath.
func (r *Repo) HooksDir() string {
	if out, err := gitOutput(r.root, "config", "--get", "core.hooksPath"); err == nil {
		path := strings.TrimSpace(out)
		if path != "" {
			if filepath.IsAbs(path) {
				return path
			}
			return filepath.Join(r.root, path)
		}
	}
	return filepath.Join(r.gitDir, "hooks")
}

// HookPath returns the path of a named hook.
func (r *Repo) HookPath(name string) string {
	return filepath.Join(r.HooksDir(), name)
}

// StagedFiles returns the absolute paths of files staged for commit.
func (r *Repo) StagedFiles() ([]string, error) {
	out, err := gitOutput(r.root, "diff", "--cached", "--name-only", "--diff-filter=ACMR")
	if err != nil {
		return nil, fmt.Errorf("get staged files: %w", err)
	}

	var files []string
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		files = append(files, filepath.Join(r.root, line))
	}
	return files, nil
}

// CurrentBranch returns the checked-out branch name.
func (r *Repo) CurrentBranch() (string, error) {
	out, err := gitOutput(r.root, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("get current branch: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// MainBranch returns "main" or "master" depending on which remote branch
// exists, defaulting to "main".
func (r *Repo) MainBranch() string {
	if _, err := gitOutput(r.root, "rev-parse", "--verify", "origin/main"); err == nil {
		return "main"
	}
	if _, err := gitOutput(r.root, "rev-parse", "--verify", "origin/master"); err == nil {
		return "master"
	}
	return "main"
}

// FetchBranch fetches a branch from origin.
func (r *Repo) FetchBranch(branch string) error {
	if _, err := gitOutput(r.root, "fetch", "origin", branch, "--quiet"); err != nil {
		return fmt.Errorf("fetch origin/%s: %w", branch, err)
	}
	return nil
}

// FileExists reports whether path, relative to the repository root, exists
// and is a regular file.
func (r *Repo) FileExists(path string) bool {
	info, err := os.Stat(filepath.Join(r.root, path))
	return err == nil && !info.IsDir()
}

// DirExists reports whether path, relative to the repository root, exists
// and is a directory.
func (r *Repo) DirExists(path string) bool {
	info, err := os.Stat(filepath.Join(r.root, path))
	return err == nil && info.IsDir()
}

func gitOutput(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
