package cmd

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/speakup/internal/exercise"
)

var exerciseCmd = &cobra.Command{
	Use:   "exercise",
	Short: "Writing drills over the saved phrases",
}

var exerciseOrderCmd = &cobra.Command{
	Use:   "order",
	Short: "Print the order an exercise would drill the library in",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetUint64("seed")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		var rng *rand.Rand
		if seed != 0 {
			rng = rand.New(rand.NewPCG(seed, seed))
		} else {
			rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}

		out := cmd.OutOrStdout()
		phrases := exercise.Order(e.library.List(), rng)
		if len(phrases) == 0 {
			fmt.Fprintln(out, "No saved phrases.")
			return nil
		}
		for i, p := range phrases {
			score := "  -"
			if p.Scored() {
				score = fmt.Sprintf("%3d", *p.LastScore)
			}
			fmt.Fprintf(out, "%3d. %s  %s\n", i+1, score, p.Text)
		}
		return nil
	},
}

var exerciseCheckCmd = &cobra.Command{
	Use:   "check <phrase-id> <attempt>",
	Short: "Check a written attempt at a saved phrase and record the score",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		p, ok := e.library.Get(args[0])
		if !ok {
			return fmt.Errorf("phrase %s not found", args[0])
		}

		res := exercise.CheckWriting(p.Text, strings.Join(args[1:], " "))
		out := cmd.OutOrStdout()
		words := make([]string, 0, len(res.Diff))
		for _, d := range res.Diff {
			if d.IsCorrect {
				words = append(words, d.Word)
			} else {
				words = append(words, "["+d.Word+"]")
			}
		}
		fmt.Fprintf(out, "Score: %d/100\n%s\n", res.Score, strings.Join(words, " "))

		return describe(e.library.UpdateScore(cmd.Context(), p.ID, res.Score))
	},
}

func init() {
	exerciseOrderCmd.Flags().Uint64("seed", 0, "Seed for the tie-break shuffle (0 picks one at random)")

	exerciseCmd.AddCommand(exerciseOrderCmd)
	exerciseCmd.AddCommand(exerciseCheckCmd)
}
