package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"shipit.dev/shipit/internal/output"
	"shipit.dev/shipit/internal/version"
)

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	var increment string

	cmd := &cobra.Command{
		Use:   "version <project>",
		Short: "Show the current descriptor version and the next release version",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			splog := newSplog()
			defer splog.Close()

			p, err := loadProject(args[0])
			if err != nil {
				return err
			}

			svc, err := version.ServiceFor(p.Ecosystem)
			if err != nil {
				return err
			}

			current, err := svc.CurrentVersion(p)
			if err != nil {
				return fmt.Errorf("could not determine the current version of %s: %w", p.Name, err)
			}

			kind := increment
			if kind == "" {
				kind = version.IncrementPatch
			}
			next := version.Increment(current, kind)

			splog.Info("%s: %s (next release: %s)", p.Name, output.Version(current), output.Version(next))
			return nil
		},
	}

	cmd.Flags().StringVar(&increment, "increment", "", "Increment kind for the next-version preview: major, minor or patch (default patch)")

	return cmd
}
