package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"shipit.dev/shipit/internal/config"
	"shipit.dev/shipit/internal/output"
	"shipit.dev/shipit/internal/project"
)

// newProjectsCmd creates the projects command group
func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage the project registry",
		RunE: func(_ *cobra.Command, _ []string) error {
			return listProjects()
		},
	}

	cmd.AddCommand(newProjectsAddCmd())
	cmd.AddCommand(newProjectsRemoveCmd())

	return cmd
}

func listProjects() error {
	splog := newSplog()
	defer splog.Close()

	reg, err := config.Load(config.DefaultPath())
	if err != nil {
		return err
	}
	if len(reg.Projects) == 0 {
		splog.Info("No projects configured. Add one with 'shipit projects add'.")
		return nil
	}

	for _, p := range reg.Projects {
		splog.Info("%s (%s)", p.Name, p.Ecosystem)
		splog.Info("  %s", output.Dim(fmt.Sprintf("%s, %s -> %s, at %s", p.GitURL, p.DevBranch, p.ReleaseBranch, p.LocalPath)))
	}
	return nil
}

// newProjectsAddCmd creates the projects add command
func newProjectsAddCmd() *cobra.Command {
	var p project.Project
	var ecosystem string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add or update a project in the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			splog := newSplog()
			defer splog.Close()

			eco, err := project.ParseEcosystem(ecosystem)
			if err != nil {
				return err
			}
			p.Name = args[0]
			p.Ecosystem = eco

			path := config.DefaultPath()
			reg, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := reg.Add(p); err != nil {
				return err
			}
			if err := reg.Save(path); err != nil {
				return err
			}

			splog.Info("Project %s saved to %s", p.Name, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&ecosystem, "ecosystem", "", "Project ecosystem: flutter, dotnet-maui or xamarin")
	cmd.Flags().StringVar(&p.GitURL, "git-url", "", "Git remote URL")
	cmd.Flags().StringVar(&p.DevBranch, "dev-branch", "develop", "Development branch")
	cmd.Flags().StringVar(&p.ReleaseBranch, "release-branch", "release", "Release branch")
	cmd.Flags().StringVar(&p.LocalPath, "local-path", "", "Local working copy path (cloned on first release if absent)")
	cmd.Flags().StringVar(&p.DescriptorPath, "descriptor", "", "Descriptor path relative to the working copy (pubspec.yaml, a .csproj, or a directory to scan for Xamarin)")
	_ = cmd.MarkFlagRequired("ecosystem")
	_ = cmd.MarkFlagRequired("git-url")
	_ = cmd.MarkFlagRequired("local-path")

	return cmd
}

// newProjectsRemoveCmd creates the projects remove command
func newProjectsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a project from the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			splog := newSplog()
			defer splog.Close()

			path := config.DefaultPath()
			reg, err := config.Load(path)
			if err != nil {
				return err
			}
			if !reg.Remove(args[0]) {
				return fmt.Errorf("project %q is not configured", args[0])
			}
			if err := reg.Save(path); err != nil {
				return err
			}

			splog.Info("Project %s removed", args[0])
			return nil
		},
	}
}
