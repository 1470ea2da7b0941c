package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lockstep/internal/app"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the locked dependencies, locking first if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			features, _ := cmd.Flags().GetStringSlice("features")
			noDev, _ := cmd.Flags().GetBool("no-dev")
			return c.app.Install(cmd.Context(), app.InstallOptions{
				Features: features,
				Dev:      !noDev,
			})
		},
	}
	cmd.Flags().StringSliceP("features", "f", nil, "Optional feature sets to install")
	cmd.Flags().Bool("no-dev", false, "Skip development dependencies")
	return cmd
}
