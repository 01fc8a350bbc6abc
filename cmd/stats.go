package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/abhisek/speakup/internal/phrase"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics for the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		weakest, _ := cmd.Flags().GetInt("weakest")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		printLibraryStats(cmd.OutOrStdout(), e.library.List(), weakest)
		fmt.Fprintf(cmd.OutOrStdout(), "Difficulty:     %s\n", e.settings.Difficulty().Label())
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("weakest", 5, "Number of lowest-scoring phrases to list")
}

type libraryStats struct {
	Total     int
	Practiced int
	Attempts  int
	Average   int
	Perfect   int
}

func computeLibraryStats(phrases []phrase.SavedPhrase) libraryStats {
	var st libraryStats
	st.Total = len(phrases)
	sum := 0
	for _, p := range phrases {
		st.Attempts += p.PracticeCount
		if !p.Scored() {
			continue
		}
		st.Practiced++
		sum += *p.LastScore
		if *p.LastScore == 100 {
			st.Perfect++
		}
	}
	if st.Practiced > 0 {
		st.Average = sum / st.Practiced
	}
	return st
}

func printLibraryStats(w io.Writer, phrases []phrase.SavedPhrase, weakest int) {
	st := computeLibraryStats(phrases)
	fmt.Fprintf(w, "Phrases:        %d\n", st.Total)
	fmt.Fprintf(w, "Practiced:      %d\n", st.Practiced)
	fmt.Fprintf(w, "Attempts:       %d\n", st.Attempts)
	if st.Practiced > 0 {
		fmt.Fprintf(w, "Average score:  %d\n", st.Average)
		fmt.Fprintf(w, "Perfect:        %d\n", st.Perfect)
	}

	scored := make([]phrase.SavedPhrase, 0, st.Practiced)
	for _, p := range phrases {
		if p.Scored() {
			scored = append(scored, p)
		}
	}
	if len(scored) == 0 || weakest <= 0 {
		return
	}
	sort.SliceStable(scored, func(i, j int) bool { return *scored[i].LastScore < *scored[j].LastScore })
	if len(scored) > weakest {
		scored = scored[:weakest]
	}
	fmt.Fprintln(w, "\nNeeds work:")
	for _, p := range scored {
		fmt.Fprintf(w, "  %3d  %s\n", *p.LastScore, p.Text)
	}
	fmt.Fprintln(w)
}
