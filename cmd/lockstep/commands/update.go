package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lockstep/internal/app"
)

func (c *CLI) newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [packages...]",
		Short: "Re-resolve dependencies and reconcile the environment",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			features, _ := cmd.Flags().GetStringSlice("features")
			noDev, _ := cmd.Flags().GetBool("no-dev")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			return c.app.Update(cmd.Context(), app.UpdateOptions{
				Packages: args,
				Features: features,
				Dev:      !noDev,
				DryRun:   dryRun,
			})
		},
	}
	cmd.Flags().StringSliceP("features", "f", nil, "Optional feature sets to keep")
	cmd.Flags().Bool("no-dev", false, "Skip development dependencies")
	cmd.Flags().Bool("dry-run", false, "Print the planned operations without executing them")
	return cmd
}
