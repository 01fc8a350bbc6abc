package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/speakup/internal/phrase"
	"github.com/abhisek/speakup/internal/ui"
)

var phrasesCmd = &cobra.Command{
	Use:     "phrases",
	Aliases: []string{"library"},
	Short:   "Manage the saved phrase library",
}

var phrasesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved phrases, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		phrases := e.library.List()
		if len(phrases) == 0 {
			fmt.Fprintln(out, "No saved phrases.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %5s  %5s  %-16s  %s\n", "ID", "Score", "Count", "Saved", "Text")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, p := range phrases {
			score := "-"
			if p.Scored() {
				score = fmt.Sprint(*p.LastScore)
			}
			text := p.Text
			if p.Note != "" {
				text += "  (" + p.Note + ")"
			}
			fmt.Fprintf(out, "%-36s  %5s  %5d  %-16s  %s\n",
				p.ID, score, p.PracticeCount, p.Timestamp.Local().Format("2006-01-02 15:04"), text)
		}
		return nil
	},
}

var phrasesAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Save a phrase to the library",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, _ := cmd.Flags().GetString("note")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		text := strings.Join(args, " ")
		if existing, ok := e.library.FindByText(strings.TrimSpace(text)); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "Already saved as %s.\n", existing.ID)
			return nil
		}
		p, err := e.library.Add(cmd.Context(), text, note)
		if err != nil {
			return describe(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s.\n", p.ID)
		return nil
	},
}

var phrasesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a phrase by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		p, ok := e.library.Get(args[0])
		if !ok {
			return fmt.Errorf("phrase %s not found", args[0])
		}
		if !yes {
			return fmt.Errorf("refusing to delete %q without --yes", p.Text)
		}
		if _, err := e.library.Delete(cmd.Context(), p.ID); err != nil {
			return describe(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q.\n", p.Text)
		return nil
	},
}

var phrasesExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write a JSON backup of the library (stdout when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if len(args) == 0 {
			return e.library.Export(cmd.OutOrStdout())
		}
		if err := e.library.ExportFile(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d phrases to %s.\n", e.library.Len(), args[0])
		return nil
	},
}

var phrasesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge a JSON backup into the library; imported phrases replace ones with the same text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		sum, err := e.library.ImportFile(cmd.Context(), args[0])
		if err != nil && !phrase.IsPersistenceError(err) {
			return describe(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d phrases (%d replaced, %d kept).\n",
			sum.Imported, sum.Replaced, sum.Kept)
		return describe(err)
	},
}

var phrasesImportSheetCmd = &cobra.Command{
	Use:   "import-sheet <file.xlsx>",
	Short: "Add phrases from a spreadsheet; texts already saved are skipped",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc := phrase.DefaultSheetConfig()
		sc.SheetName, _ = cmd.Flags().GetString("sheet")
		sc.TextColumn, _ = cmd.Flags().GetString("text-col")
		sc.NoteColumn, _ = cmd.Flags().GetString("note-col")
		sc.StartRow, _ = cmd.Flags().GetInt("start-row")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open spreadsheet: %w", err)
		}
		defer f.Close()

		res, err := e.library.ImportSheet(cmd.Context(), f, sc)
		if res == nil {
			return describe(err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Processed %d rows: %d added, %d skipped.\n", res.TotalProcessed, res.Created, res.Skipped)
		for _, msg := range res.Errors {
			fmt.Fprintln(out, "  "+msg)
		}
		return describe(err)
	},
}

var phrasesExportSheetCmd = &cobra.Command{
	Use:   "export-sheet <file.xlsx>",
	Short: "Write the library with scores to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.library.ExportSheetFile(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d phrases to %s.\n", e.library.Len(), args[0])
		return nil
	},
}

// describedError prints the same message the TUI shows for err.
type describedError struct {
	err error
}

func (e describedError) Error() string { return ui.Describe(e.err) }
func (e describedError) Unwrap() error { return e.err }

func describe(err error) error {
	if err == nil {
		return nil
	}
	return describedError{err: err}
}

func init() {
	phrasesAddCmd.Flags().String("note", "", "Optional note shown with the phrase")
	phrasesDeleteCmd.Flags().Bool("yes", false, "Confirm the deletion")

	def := phrase.DefaultSheetConfig()
	phrasesImportSheetCmd.Flags().String("sheet", "", "Sheet name (default: first sheet)")
	phrasesImportSheetCmd.Flags().String("text-col", def.TextColumn, "Column holding the phrase text")
	phrasesImportSheetCmd.Flags().String("note-col", def.NoteColumn, "Column holding the note (empty to ignore)")
	phrasesImportSheetCmd.Flags().Int("start-row", def.StartRow, "First data row (1-based)")

	phrasesCmd.AddCommand(phrasesListCmd)
	phrasesCmd.AddCommand(phrasesAddCmd)
	phrasesCmd.AddCommand(phrasesDeleteCmd)
	phrasesCmd.AddCommand(phrasesExportCmd)
	phrasesCmd.AddCommand(phrasesImportCmd)
	phrasesCmd.AddCommand(phrasesImportSheetCmd)
	phrasesCmd.AddCommand(phrasesExportSheetCmd)
}
