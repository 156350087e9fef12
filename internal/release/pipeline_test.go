package release_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"shipit.dev/shipit/internal/project"
	"shipit.dev/shipit/internal/release"
	"shipit.dev/shipit/internal/version"
	"shipit.dev/shipit/testhelpers"
)

func flutterScene(t *testing.T, pubspecVersion string) (*testhelpers.Scene, *project.Project) {
	t.Helper()
	scene := testhelpers.NewScene(t, "develop", "release", func(seed *testhelpers.GitRepo) error {
		if err := seed.WriteFile("pubspec.yaml", testhelpers.Pubspec(pubspecVersion)); err != nil {
			return err
		}
		return seed.CommitAll("initial")
	})
	return scene, &project.Project{
		Name:           "example",
		Ecosystem:      project.Flutter,
		GitURL:         scene.RemoteURL,
		DevBranch:      "develop",
		ReleaseBranch:  "release",
		LocalPath:      scene.WorkPath,
		DescriptorPath: "pubspec.yaml",
	}
}

func TestPipelineFlutterRelease(t *testing.T) {
	t.Run("clones, merges, bumps the patch version and pushes", func(t *testing.T) {
		scene, p := flutterScene(t, "1.2.3+4")

		var progress []string
		pl, err := release.New(p, func(text string) {
			progress = append(progress, text)
		})
		require.NoError(t, err)

		res := pl.Run(context.Background(), release.Options{})
		require.True(t, res.OK, "pipeline failed: %s", res.Message)
		require.Equal(t, "1.2.3+4", res.CurrentVersion)
		require.Equal(t, "1.2.4", res.NewVersion)

		// Only the version line changed.
		work := scene.Work(t)
		content, err := work.ReadFile("pubspec.yaml")
		require.NoError(t, err)
		require.Equal(t, testhelpers.Pubspec("1.2.4"), content)

		msg, err := work.LastCommitMessage()
		require.NoError(t, err)
		require.Equal(t, "#Release 1.2.4", msg)

		// The release commit reached the origin.
		remote := &testhelpers.GitRepo{Dir: scene.RemoteURL}
		remoteMsg, err := remote.RunGitCommandAndGetOutput("log", "-1", "--pretty=format:%s", "release")
		require.NoError(t, err)
		require.Equal(t, "#Release 1.2.4", remoteMsg)

		require.NotEmpty(t, progress)
		require.Contains(t, strings.Join(progress, "\n"), "1.2.3+4 -> 1.2.4")
	})

	t.Run("an explicit target version skips the increment", func(t *testing.T) {
		scene, p := flutterScene(t, "1.2.3")

		pl, err := release.New(p, nil)
		require.NoError(t, err)

		res := pl.Run(context.Background(), release.Options{TargetVersion: "2.0.0"})
		require.True(t, res.OK, "pipeline failed: %s", res.Message)
		require.Equal(t, "2.0.0", res.NewVersion)

		content, err := scene.Work(t).ReadFile("pubspec.yaml")
		require.NoError(t, err)
		require.Contains(t, content, "version: 2.0.0\n")
	})

	t.Run("the changelog carries the last commits", func(t *testing.T) {
		_, p := flutterScene(t, "0.1.0")

		pl, err := release.New(p, nil)
		require.NoError(t, err)

		res := pl.Run(context.Background(), release.Options{})
		require.True(t, res.OK, "pipeline failed: %s", res.Message)
		require.Contains(t, res.Changelog, "#Release 0.1.1")
		require.Contains(t, res.Message, "Recent commits:")
	})
}

func TestPipelineMergeConflict(t *testing.T) {
	t.Run("aborts at the merge stage and leaves the working copy mid-merge", func(t *testing.T) {
		scene := testhelpers.NewScene(t, "develop", "release", func(seed *testhelpers.GitRepo) error {
			if err := seed.WriteFile("pubspec.yaml", testhelpers.Pubspec("1.0.0")); err != nil {
				return err
			}
			if err := seed.CommitAll("initial"); err != nil {
				return err
			}
			// Diverge develop and release on the same line.
			if err := seed.CreateBranch("release"); err != nil {
				return err
			}
			if err := seed.RunGitCommand("checkout", "-b", "develop"); err != nil {
				return err
			}
			if err := seed.WriteFile("pubspec.yaml", testhelpers.Pubspec("1.1.0")); err != nil {
				return err
			}
			if err := seed.CommitAll("dev version"); err != nil {
				return err
			}
			if err := seed.Checkout("release"); err != nil {
				return err
			}
			if err := seed.WriteFile("pubspec.yaml", testhelpers.Pubspec("1.0.1")); err != nil {
				return err
			}
			return seed.CommitAll("release hotfix")
		})

		p := &project.Project{
			Name:           "example",
			Ecosystem:      project.Flutter,
			GitURL:         scene.RemoteURL,
			DevBranch:      "develop",
			ReleaseBranch:  "release",
			LocalPath:      scene.WorkPath,
			DescriptorPath: "pubspec.yaml",
		}

		pl, err := release.New(p, nil)
		require.NoError(t, err)

		res := pl.Run(context.Background(), release.Options{})
		require.False(t, res.OK)
		require.Equal(t, release.StageMerge, res.FailedStage)
		require.Contains(t, res.Message, release.StageMerge)

		// Earlier stages are not rolled back: the clone exists, sits on the
		// release branch, and the merge is left unresolved.
		work := scene.Work(t)
		branch, err := work.CurrentBranch()
		require.NoError(t, err)
		require.Equal(t, "release", branch)

		_, statErr := os.Stat(filepath.Join(work.Dir, ".git", "MERGE_HEAD"))
		require.NoError(t, statErr)
	})
}

func TestPipelineVersionFailures(t *testing.T) {
	t.Run("a descriptor without a version line fails DetermineCurrentVersion", func(t *testing.T) {
		scene := testhelpers.NewScene(t, "develop", "release", func(seed *testhelpers.GitRepo) error {
			if err := seed.WriteFile("pubspec.yaml", "name: app\n"); err != nil {
				return err
			}
			return seed.CommitAll("initial")
		})

		p := &project.Project{
			Name:           "example",
			Ecosystem:      project.Flutter,
			GitURL:         scene.RemoteURL,
			DevBranch:      "develop",
			ReleaseBranch:  "release",
			LocalPath:      scene.WorkPath,
			DescriptorPath: "pubspec.yaml",
		}

		pl, err := release.New(p, nil)
		require.NoError(t, err)

		res := pl.Run(context.Background(), release.Options{})
		require.False(t, res.OK)
		require.Equal(t, release.StageDetermineVersion, res.FailedStage)
	})

	t.Run("an unsupported ecosystem is rejected at construction", func(t *testing.T) {
		_, err := release.New(&project.Project{Ecosystem: "cordova"}, nil)
		require.Error(t, err)
	})
}

func TestPipelinePanicBoundary(t *testing.T) {
	t.Run("a panicking strategy becomes a failed result", func(t *testing.T) {
		_, p := flutterScene(t, "1.0.0")

		pl := release.NewWithService(p, panickyService{}, nil)
		res := pl.Run(context.Background(), release.Options{})
		require.False(t, res.OK)
		require.Equal(t, release.StageDetermineVersion, res.FailedStage)
		require.Contains(t, res.Message, "unexpected fault")
	})
}

// panickyService panics on every call, standing in for an unexpected fault
// deep inside a strategy
type panickyService struct{}

func (panickyService) CurrentVersion(*project.Project) (string, error) {
	panic("boom")
}

func (panickyService) UpdateVersion(*project.Project, string) *version.UpdateResult {
	panic("boom")
}
