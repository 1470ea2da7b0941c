package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lockstep/internal/app"
)

func (c *CLI) newLockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Resolve dependencies and write the lock file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noDev, _ := cmd.Flags().GetBool("no-dev")
			return c.app.Lock(cmd.Context(), app.LockOptions{Dev: !noDev})
		},
	}
	cmd.Flags().Bool("no-dev", false, "Skip development dependencies")
	return cmd
}
