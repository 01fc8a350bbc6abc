package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/speakup/internal/config"
	"github.com/abhisek/speakup/internal/store"
)

// cfg is the merged configuration, loaded before any command runs.
var cfg *config.Config

// logFile is closed by Execute once the command returns.
var logFile io.Closer

var rootCmd = &cobra.Command{
	Use:   "speakup",
	Short: "Terminal pronunciation coach",
	Long: `Speakup: record yourself reading a sentence, get an AI accuracy score with
the words to work on, and drill the phrases you save.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	defer func() {
		if logFile != nil {
			logFile.Close()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SPEAKUP_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (default $XDG_CONFIG_HOME/speakup/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log to stderr instead of the log file")

	rootCmd.AddCommand(phrasesCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(exerciseCmd)
	rootCmd.AddCommand(speakCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(difficultyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads .env and the config file, then installs the default logger.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("config")
	required := path != ""
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	c, err := config.Load(path, required)
	if err != nil {
		return err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		c.LogLevel = config.LogLevel(lvl)
		if !c.LogLevel.IsValid() {
			return fmt.Errorf("invalid --log-level %q; valid values: debug, info, warn, error", lvl)
		}
	}
	cfg = c

	var w io.Writer = os.Stderr
	if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
		f, err := config.OpenLogFile(cfg)
		if err != nil {
			return err
		}
		logFile = f
		w = f
	}
	slog.SetDefault(config.NewLogger(cfg.LogLevel, w))
	slog.Debug("config loaded", "path", path, "provider", cfg.LLM.Provider)
	return nil
}

// resolveDBPath picks --db, then SPEAKUP_DB or the config file, then the
// XDG data dir. store.Open creates the parent directory.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, nil
	}
	if cfg != nil && cfg.DB != "" {
		return cfg.DB, nil
	}
	return store.DefaultPath()
}
