package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"shipit.dev/shipit/internal/output"
	"shipit.dev/shipit/internal/project"
	"shipit.dev/shipit/internal/release"
	"shipit.dev/shipit/internal/version"
)

// newReleaseCmd creates the release command
func newReleaseCmd() *cobra.Command {
	var (
		targetVersion string
		increment     string
		yes           bool
		projectDir    string
		ecosystem     string
		gitURL        string
		devBranch     string
		releaseBranch string
		descriptor    string
	)

	cmd := &cobra.Command{
		Use:   "release [project]",
		Short: "Merge dev into release, bump the descriptor version, commit and push",
		Long: `Release runs the full release-preparation pipeline for a configured project:
it brings the working copy up to date, merges the dev branch into the release
branch, bumps the version embedded in the project descriptor, and pushes a
"#Release <version>" commit to the release branch.

The project is usually looked up in the registry by name. With --project-dir
the pipeline instead runs against an ad-hoc project built from flags, without
touching the registry.

The pipeline is strictly sequential and never retries. A merge conflict stops
it and leaves the working copy mid-merge for manual resolution.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			splog := newSplog()
			defer splog.Close()

			var p *project.Project
			if projectDir != "" {
				eco, err := project.ParseEcosystem(ecosystem)
				if err != nil {
					return fmt.Errorf("--project-dir requires a valid --ecosystem: %w", err)
				}
				name := filepath.Base(projectDir)
				if len(args) == 1 {
					name = args[0]
				}
				p = &project.Project{
					Name:           name,
					Ecosystem:      eco,
					GitURL:         gitURL,
					DevBranch:      devBranch,
					ReleaseBranch:  releaseBranch,
					LocalPath:      projectDir,
					DescriptorPath: descriptor,
				}
			} else {
				if len(args) != 1 {
					return fmt.Errorf("a project name is required unless --project-dir is given")
				}
				var err error
				p, err = loadProject(args[0])
				if err != nil {
					return err
				}
			}

			if increment != "" && increment != version.IncrementMajor &&
				increment != version.IncrementMinor && increment != version.IncrementPatch {
				return fmt.Errorf("invalid --increment %q (expected major, minor or patch)", increment)
			}

			if !yes && isatty.IsTerminal(os.Stdin.Fd()) {
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Prepare release for %s (%s -> %s)?", p.Name, p.DevBranch, p.ReleaseBranch),
					Default: true,
				}
				var confirmed bool
				if err := survey.AskOne(prompt, &confirmed); err != nil {
					return err
				}
				if !confirmed {
					splog.Info("Aborted")
					return nil
				}
			}

			splog.Debug("release options: target=%q increment=%q path=%s", targetVersion, increment, p.LocalPath)

			pl, err := release.New(p, func(text string) {
				splog.Info("%s", text)
			})
			if err != nil {
				return err
			}

			res := pl.Run(cmd.Context(), release.Options{
				TargetVersion: targetVersion,
				Increment:     increment,
			})
			if !res.OK {
				return fmt.Errorf("%s", output.Failure(res.Message))
			}

			splog.Info("%s", output.Success(fmt.Sprintf("Release %s prepared", res.NewVersion)))
			return nil
		},
	}

	cmd.Flags().StringVar(&targetVersion, "version", "", "Explicit target version instead of auto-increment")
	cmd.Flags().StringVar(&increment, "increment", "", "Increment kind when no explicit version is given: major, minor or patch (default patch)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Don't prompt for confirmation before running")
	cmd.Flags().StringVar(&projectDir, "project-dir", "", "Run against this working copy instead of a registry project")
	cmd.Flags().StringVar(&ecosystem, "ecosystem", "", "Ecosystem of the ad-hoc project: flutter, dotnet-maui or xamarin")
	cmd.Flags().StringVar(&gitURL, "git-url", "", "Git remote URL of the ad-hoc project (for the initial clone)")
	cmd.Flags().StringVar(&devBranch, "dev-branch", "develop", "Development branch of the ad-hoc project")
	cmd.Flags().StringVar(&releaseBranch, "release-branch", "release", "Release branch of the ad-hoc project")
	cmd.Flags().StringVar(&descriptor, "descriptor", "", "Descriptor path of the ad-hoc project, relative to the working copy")

	return cmd
}
