package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"shipit.dev/shipit/internal/config"
	"shipit.dev/shipit/internal/git"
)

// newDoctorCmd creates the doctor command
func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment and every configured project",
		RunE: func(_ *cobra.Command, _ []string) error {
			splog := newSplog()
			defer splog.Close()

			splog.Info("Running shipit doctor...")
			splog.Newline()

			var errors []string

			splog.Info("Environment:")
			gitVersion, err := exec.Command("git", "version").Output()
			if err != nil {
				errors = append(errors, "git is not installed or not in PATH")
				splog.Error("  git is not installed or not in PATH")
			} else {
				splog.Info("  ✅ %s", strings.TrimSpace(string(gitVersion)))
			}

			splog.Newline()
			splog.Info("Registry:")
			path := config.DefaultPath()
			reg, err := config.Load(path)
			if err != nil {
				errors = append(errors, fmt.Sprintf("registry unreadable: %v", err))
				splog.Error("  %v", err)
			} else {
				splog.Info("  ✅ %s (%d project(s))", path, len(reg.Projects))

				splog.Newline()
				splog.Info("Projects:")
				if len(reg.Projects) == 0 {
					splog.Info("  none configured")
				}
				for _, p := range reg.Projects {
					if _, statErr := os.Stat(p.LocalPath); os.IsNotExist(statErr) {
						splog.Warn(" %s: working copy not cloned yet (the first release clones it)", p.Name)
						continue
					}
					if err := git.ValidateWorkingCopy(p.LocalPath); err != nil {
						errors = append(errors, fmt.Sprintf("%s: %v", p.Name, err))
						splog.Error("  %s: %v", p.Name, err)
						continue
					}
					splog.Info("  ✅ %s", p.Name)
				}
			}

			splog.Newline()
			if len(errors) > 0 {
				return fmt.Errorf("doctor found %d error(s)", len(errors))
			}
			splog.Info("✅ All checks passed.")
			return nil
		},
	}
}
