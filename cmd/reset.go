package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every saved phrase",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return errors.New("refusing to clear the library without --yes; run `speakup phrases export` first to keep a backup")
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		removed := 0
		for _, p := range e.library.List() {
			ok, err := e.library.Delete(cmd.Context(), p.ID)
			if err != nil {
				return describe(err)
			}
			if ok {
				removed++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d phrases.\n", removed)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm clearing the library")
}
