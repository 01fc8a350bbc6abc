package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/speakup/internal/practice"
	"github.com/abhisek/speakup/internal/speech"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Score a recorded audio file against a sentence",
	Long: `Analyze a pre-recorded clip (wav, mp3, ogg, flac, webm, m4a) against a
target sentence without the TUI. With --phrase the score is recorded on
that saved phrase; a --text matching a saved phrase is recorded too.`,
	RunE: runPractice,
}

func init() {
	practiceCmd.Flags().String("text", "", "Sentence that was read aloud")
	practiceCmd.Flags().String("phrase", "", "ID of a saved phrase to practice")
	practiceCmd.Flags().String("audio", "", "Path to the recording (required)")
	practiceCmd.Flags().String("difficulty", "", "easy, medium or hard (default: saved setting)")
	_ = practiceCmd.MarkFlagRequired("audio")
	practiceCmd.MarkFlagsOneRequired("text", "phrase")
}

func runPractice(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	phraseID, _ := cmd.Flags().GetString("phrase")
	audioPath, _ := cmd.Flags().GetString("audio")
	level, _ := cmd.Flags().GetString("difficulty")

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	difficulty := e.settings.Difficulty()
	if level != "" {
		if difficulty, err = speech.ParseDifficulty(level); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	caps := buildCapabilities(ctx, e.store.EventRepo())
	recorder, _ := newRecorder(audioPath)
	session := practice.NewController(recorder, caps.Analyzer)
	session.SetDifficulty(difficulty)

	switch {
	case phraseID != "":
		p, ok := e.library.Get(phraseID)
		if !ok {
			return fmt.Errorf("phrase %s not found", phraseID)
		}
		session.SetTarget(p.Text)
		session.Link(p.ID, e.library)
	default:
		text = strings.TrimSpace(text)
		session.SetTarget(text)
		if p, ok := e.library.FindByText(text); ok {
			session.Link(p.ID, e.library)
		}
	}

	if err := session.StartRecording(ctx); err != nil {
		return describe(err)
	}
	res, err := session.Submit(ctx)
	if res != nil {
		printAnalysis(cmd.OutOrStdout(), session.Target(), difficulty, res)
	}
	return describe(err)
}

func printAnalysis(w io.Writer, target string, d speech.Difficulty, res *speech.AnalysisResult) {
	fmt.Fprintf(w, "Target:      %s\n", target)
	fmt.Fprintf(w, "Difficulty:  %s\n", d.Label())
	fmt.Fprintf(w, "Score:       %d/100\n", res.AccuracyScore)
	if res.Transcription != "" {
		fmt.Fprintf(w, "Heard:       %s\n", res.Transcription)
	}
	if len(res.MispronouncedWords) > 0 {
		fmt.Fprintf(w, "Work on:     %s\n", strings.Join(res.MispronouncedWords, ", "))
	}
	if res.Feedback != "" {
		fmt.Fprintf(w, "\n%s\n", res.Feedback)
	}
	if res.Tips != "" {
		fmt.Fprintf(w, "\nTip: %s\n", res.Tips)
	}
}
