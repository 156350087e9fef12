package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitRepo represents a Git repository for testing purposes.
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a new Git repository in the specified directory using 'git init'.
func NewGitRepo(dir string) (*GitRepo, error) {
	// Use git -c flags to avoid reading global config and set local configs
	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "-c", "core.autocrlf=false", "-c", "core.fileMode=false", "init", dir, "-b", "main")
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to init repo: %w", err)
	}

	repo := &GitRepo{Dir: dir}

	// Configure Git user (required for commits)
	if err := repo.RunGitCommand("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.RunGitCommand("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}

	return repo, nil
}

// RunGitCommand executes a git command in the repository directory.
// Uses GIT_CONFIG_GLOBAL=/dev/null to avoid reading global config.
func (r *GitRepo) RunGitCommand(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if os.Getenv("DEBUG") == "" {
		cmd.Stdout = nil
		cmd.Stderr = nil
	}
	return cmd.Run()
}

// RunGitCommandAndGetOutput executes a git command and returns its trimmed output.
func (r *GitRepo) RunGitCommandAndGetOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %v failed: %w", args, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// WriteFile writes content to a file relative to the repository root,
// creating parent directories as needed.
func (r *GitRepo) WriteFile(relPath, content string) error {
	path := filepath.Join(r.Dir, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// ReadFile reads a file relative to the repository root.
func (r *GitRepo) ReadFile(relPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.Dir, relPath))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// CommitAll stages everything and commits with the given message.
func (r *GitRepo) CommitAll(message string) error {
	if err := r.RunGitCommand("add", "."); err != nil {
		return err
	}
	return r.RunGitCommand("commit", "-m", message)
}

// CreateBranch creates a branch at the current HEAD without switching to it.
func (r *GitRepo) CreateBranch(name string) error {
	return r.RunGitCommand("branch", name)
}

// HasBranch reports whether a local branch exists.
func (r *GitRepo) HasBranch(name string) bool {
	_, err := r.RunGitCommandAndGetOutput("rev-parse", "--verify", "refs/heads/"+name)
	return err == nil
}

// Checkout switches to the given branch.
func (r *GitRepo) Checkout(branch string) error {
	return r.RunGitCommand("checkout", branch)
}

// CurrentBranch returns the short name of the checked-out branch.
func (r *GitRepo) CurrentBranch() (string, error) {
	return r.RunGitCommandAndGetOutput("rev-parse", "--abbrev-ref", "HEAD")
}

// LastCommitMessage returns the subject line of the most recent commit.
func (r *GitRepo) LastCommitMessage() (string, error) {
	return r.RunGitCommandAndGetOutput("log", "-1", "--pretty=format:%s")
}
