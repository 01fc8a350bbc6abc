package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/speakup/internal/speech"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Generate a practice sentence at the current difficulty",
	RunE: func(cmd *cobra.Command, args []string) error {
		save, _ := cmd.Flags().GetBool("save")
		level, _ := cmd.Flags().GetString("difficulty")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		d := e.settings.Difficulty()
		if level != "" {
			if d, err = speech.ParseDifficulty(level); err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		caps := buildCapabilities(ctx, e.store.EventRepo())
		if caps.Generator == nil {
			return errNoProvider
		}

		text, err := caps.Generator.GeneratePhrase(ctx, d)
		if err != nil {
			return describe(err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, text)

		if !save {
			return nil
		}
		if existing, ok := e.library.FindByText(text); ok {
			fmt.Fprintf(out, "Already saved as %s.\n", existing.ID)
			return nil
		}
		p, err := e.library.Add(ctx, text, "suggested ("+d.Label()+")")
		if err != nil {
			return describe(err)
		}
		fmt.Fprintf(out, "Saved %s.\n", p.ID)
		return nil
	},
}

func init() {
	suggestCmd.Flags().Bool("save", false, "Add the sentence to the library")
	suggestCmd.Flags().String("difficulty", "", "easy, medium or hard (default: saved setting)")
}
