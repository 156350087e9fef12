package testhelpers

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// Scene is a release-pipeline test fixture: a seed repository whose history
// is published to a bare "origin", plus a work path the pipeline clones into.
type Scene struct {
	Dir       string
	Seed      *GitRepo // repository used to author the fixture history
	RemoteURL string   // bare clone of Seed, used as the project git URL
	WorkPath  string   // does not exist initially; the pipeline clones here
}

// SceneSetup authors the fixture history on the seed repository's main branch.
type SceneSetup func(seed *GitRepo) error

// NewScene creates a scene: it runs setup against the seed repository, then
// creates dev and release branches at the resulting HEAD and publishes the
// whole thing to a bare origin. Cleanup is automatic.
func NewScene(t *testing.T, devBranch, releaseBranch string, setup SceneSetup) *Scene {
	t.Helper()

	dir := t.TempDir()

	seed, err := NewGitRepo(filepath.Join(dir, "seed"))
	if err != nil {
		t.Fatalf("failed to create seed repo: %v", err)
	}

	if setup != nil {
		if err := setup(seed); err != nil {
			t.Fatalf("scene setup failed: %v", err)
		}
	}

	// Setups that need diverging branches create them themselves; everyone
	// else gets dev and release at the seed HEAD.
	for _, branch := range []string{devBranch, releaseBranch} {
		if seed.HasBranch(branch) {
			continue
		}
		if err := seed.CreateBranch(branch); err != nil {
			t.Fatalf("failed to create %s: %v", branch, err)
		}
	}

	remote := filepath.Join(dir, "origin.git")
	cmd := exec.Command("git", "clone", "--bare", seed.Dir, remote)
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to create bare origin: %v", err)
	}

	return &Scene{
		Dir:       dir,
		Seed:      seed,
		RemoteURL: remote,
		WorkPath:  filepath.Join(dir, "work"),
	}
}

// Work opens the cloned working copy after the pipeline has run.
func (s *Scene) Work(t *testing.T) *GitRepo {
	t.Helper()
	if _, err := os.Stat(s.WorkPath); err != nil {
		t.Fatalf("working copy was not cloned: %v", err)
	}
	return &GitRepo{Dir: s.WorkPath}
}
