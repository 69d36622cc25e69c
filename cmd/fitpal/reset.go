package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every stored value",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			return errors.New("refusing to delete all data without --yes")
		}
		return withRuntime(cmd, func(rt *runtime) error {
			before := rt.store.Failures()
			rt.state.ClearProfile(cmd.Context())
			if n := rt.store.Failures() - before; n > 0 {
				return fmt.Errorf("reset incomplete: %d storage operations failed", n)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data deleted.")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Confirm deleting all data")
}
