package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var speakCmd = &cobra.Command{
	Use:   "speak <text>",
	Short: "Read a sentence aloud with the configured voice",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("out")
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return errors.New("nothing to speak")
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		caps := buildCapabilities(ctx, e.store.EventRepo())
		if caps.Synth == nil {
			return errors.New("text-to-speech is not configured; set GEMINI_API_KEY or OPENAI_API_KEY")
		}

		if outPath != "" {
			clip, err := caps.Synth.Synthesize(ctx, text)
			if err != nil {
				return describe(err)
			}
			if err := os.WriteFile(outPath, clip.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s).\n", outPath, clip.MIMEType)
			return nil
		}

		playback := newPlayback(caps.Synth)
		if playback == nil {
			return errors.New("no audio player found; use --out to save the clip instead")
		}
		return describe(playback.Speak(ctx, text))
	},
}

func init() {
	speakCmd.Flags().StringP("out", "o", "", "Write the synthesized clip to a file instead of playing it")
}
