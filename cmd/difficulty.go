package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/speakup/internal/speech"
)

var difficultyCmd = &cobra.Command{
	Use:       "difficulty [easy|medium|hard]",
	Short:     "Show or change how strictly recordings are scored",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(speech.Easy), string(speech.Medium), string(speech.Hard)},
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			fmt.Fprintln(out, e.settings.Difficulty().Label())
			return nil
		}

		d, err := speech.ParseDifficulty(args[0])
		if err != nil {
			return err
		}
		if err := e.settings.SetDifficulty(cmd.Context(), d); err != nil {
			return err
		}
		fmt.Fprintf(out, "Difficulty set to %s.\n", d.Label())
		return nil
	},
}
