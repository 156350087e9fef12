// Package cli wires the cobra command tree for the shipit binary.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"shipit.dev/shipit/internal/config"
	"shipit.dev/shipit/internal/output"
	"shipit.dev/shipit/internal/project"
)

// quietMode suppresses console output for all commands; the file log still
// receives everything. Bound to the persistent --quiet flag.
var quietMode bool

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shipit",
		Short: "Shipit prepares releases for cross-platform mobile projects stored in git",
		Long: `Shipit prepares releases for Flutter, .NET MAUI and Xamarin projects stored
in git: it merges the dev branch into the release branch, bumps the version
embedded in the build descriptor, and pushes a release commit.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Suppress console output (the file log still receives everything)")

	rootCmd.AddCommand(newReleaseCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newProjectsCmd())
	rootCmd.AddCommand(newDoctorCmd())

	return rootCmd
}

// newSplog builds the logger used by all commands, with a rotating file log
// next to the registry
func newSplog() *output.Splog {
	logPath := os.Getenv("SHIPIT_LOG_FILE")
	if logPath == "" {
		logPath = filepath.Join(filepath.Dir(config.DefaultPath()), "shipit.log")
	}
	splog, err := output.NewSplogWithConfig(logPath)
	if err != nil {
		splog = output.NewSplog()
	}
	splog.SetQuiet(quietMode)
	return splog
}

// loadProject resolves a project name against the registry
func loadProject(name string) (*project.Project, error) {
	reg, err := config.Load(config.DefaultPath())
	if err != nil {
		return nil, err
	}
	p, ok := reg.Find(name)
	if !ok {
		return nil, fmt.Errorf("project %q is not configured (see 'shipit projects')", name)
	}
	return p, nil
}
