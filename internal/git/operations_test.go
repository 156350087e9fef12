package git_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	shipiterrors "shipit.dev/shipit/internal/errors"
	"shipit.dev/shipit/internal/git"
	"shipit.dev/shipit/testhelpers"
)

func newRepo(t *testing.T) *testhelpers.GitRepo {
	t.Helper()
	repo, err := testhelpers.NewGitRepo(t.TempDir())
	require.NoError(t, err)
	return repo
}

func TestClone(t *testing.T) {
	t.Run("is a no-op when the path already exists", func(t *testing.T) {
		repo := newRepo(t)
		runner := git.NewCommandRunner(repo.Dir)

		// A bogus URL proves no clone was attempted.
		err := runner.Clone(context.Background(), "/nonexistent/remote.git")
		require.NoError(t, err)
	})

	t.Run("clones into a missing path, creating parents", func(t *testing.T) {
		origin := newRepo(t)
		require.NoError(t, origin.WriteFile("README.md", "hello\n"))
		require.NoError(t, origin.CommitAll("initial"))

		target := filepath.Join(t.TempDir(), "nested", "work")
		runner := git.NewCommandRunner(target)
		require.NoError(t, runner.Clone(context.Background(), origin.Dir))

		_, err := os.Stat(filepath.Join(target, "README.md"))
		require.NoError(t, err)
	})

	t.Run("surfaces clone failures with stderr", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "work")
		runner := git.NewCommandRunner(target)

		err := runner.Clone(context.Background(), filepath.Join(t.TempDir(), "missing.git"))
		require.Error(t, err)

		var cmdErr *shipiterrors.GitCommandError
		require.ErrorAs(t, err, &cmdErr)
		require.NotEmpty(t, cmdErr.Stderr)
	})
}

func TestStageAndCommit(t *testing.T) {
	t.Run("stages all changes including untracked files", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.WriteFile("a.txt", "one\n"))
		require.NoError(t, repo.CommitAll("initial"))
		require.NoError(t, repo.WriteFile("b.txt", "two\n"))

		runner := git.NewCommandRunner(repo.Dir)
		require.NoError(t, runner.StageAll(context.Background()))
		require.NoError(t, runner.Commit(context.Background(), "#Release 1.0.1"))

		msg, err := repo.LastCommitMessage()
		require.NoError(t, err)
		require.Equal(t, "#Release 1.0.1", msg)
	})

	t.Run("commit with nothing staged fails", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.WriteFile("a.txt", "one\n"))
		require.NoError(t, repo.CommitAll("initial"))

		runner := git.NewCommandRunner(repo.Dir)
		err := runner.Commit(context.Background(), "empty")
		require.Error(t, err)
	})
}

func TestPull(t *testing.T) {
	t.Run("non-zero exit is a warning, not an error", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.WriteFile("a.txt", "one\n"))
		require.NoError(t, repo.CommitAll("initial"))

		// No origin remote configured: git pull exits non-zero.
		runner := git.NewCommandRunner(repo.Dir)
		warning, err := runner.Pull(context.Background(), "main")
		require.NoError(t, err)
		require.NotEmpty(t, warning)
	})
}

func TestMerge(t *testing.T) {
	t.Run("merges a branch with the fixed message", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.WriteFile("a.txt", "one\n"))
		require.NoError(t, repo.CommitAll("initial"))
		require.NoError(t, repo.CreateBranch("develop"))

		require.NoError(t, repo.Checkout("develop"))
		require.NoError(t, repo.WriteFile("b.txt", "two\n"))
		require.NoError(t, repo.CommitAll("feature"))
		require.NoError(t, repo.Checkout("main"))

		runner := git.NewCommandRunner(repo.Dir)
		require.NoError(t, runner.Merge(context.Background(), "develop", "Merge develop into main"))
	})

	t.Run("conflicts surface as a merge conflict error and stay unresolved", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.WriteFile("a.txt", "base\n"))
		require.NoError(t, repo.CommitAll("initial"))
		require.NoError(t, repo.CreateBranch("develop"))

		require.NoError(t, repo.Checkout("develop"))
		require.NoError(t, repo.WriteFile("a.txt", "dev change\n"))
		require.NoError(t, repo.CommitAll("dev"))

		require.NoError(t, repo.Checkout("main"))
		require.NoError(t, repo.WriteFile("a.txt", "main change\n"))
		require.NoError(t, repo.CommitAll("main"))

		runner := git.NewCommandRunner(repo.Dir)
		err := runner.Merge(context.Background(), "develop", "Merge develop into main")
		require.ErrorIs(t, err, shipiterrors.ErrMergeConflict)

		// No automatic merge --abort: the working copy is left mid-merge.
		_, statErr := os.Stat(filepath.Join(repo.Dir, ".git", "MERGE_HEAD"))
		require.NoError(t, statErr)
	})
}

func TestLog(t *testing.T) {
	t.Run("returns one-line entries for the last commits", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.WriteFile("a.txt", "one\n"))
		require.NoError(t, repo.CommitAll("first"))
		require.NoError(t, repo.WriteFile("a.txt", "two\n"))
		require.NoError(t, repo.CommitAll("second"))

		runner := git.NewCommandRunner(repo.Dir)
		log, err := runner.Log(context.Background(), 5)
		require.NoError(t, err)
		require.Contains(t, log, "first")
		require.Contains(t, log, "second")
		require.Contains(t, log, "Test User")
	})
}
