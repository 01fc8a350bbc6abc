// Package config loads speakup settings from a .env file, a YAML file and
// SPEAKUP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/speakup/internal/llm"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the merged configuration.
type Config struct {
	// DB is the SQLite database path. Empty selects the XDG data dir.
	DB string `yaml:"db"`

	LogLevel LogLevel `yaml:"log_level"`

	// LogFile overrides $XDG_STATE_HOME/speakup/speakup.log.
	LogFile string `yaml:"log_file"`

	Audio AudioConfig `yaml:"audio"`
	LLM   llm.Config  `yaml:"llm"`
}

// AudioConfig selects the external capture and playback commands. Empty
// values auto-detect a tool on PATH.
type AudioConfig struct {
	// Recorder is a command line; "{file}" is replaced by the output path.
	Recorder string `yaml:"recorder"`
	Player   string `yaml:"player"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: LogInfo,
		LLM:      llm.DefaultConfig(),
	}
}

// LoadDotEnv loads a .env file from the working directory. Variables that
// are already set win. A missing file is not an error.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: load .env: %w", err)
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/speakup/config.yaml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "speakup", "config.yaml"), nil
}

// Load reads the YAML file at path over the defaults, then applies the
// environment. A missing file is only an error when required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := decode(f, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}

	cfg.ApplyEnv()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over the defaults and validates it.
// The environment is not consulted.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decode(r, cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with SPEAKUP_* variables and discovers provider
// API keys.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SPEAKUP_DB"); v != "" {
		c.DB = v
	}
	if v := os.Getenv("SPEAKUP_LOG_LEVEL"); v != "" {
		c.LogLevel = LogLevel(v)
	}
	if v := os.Getenv("SPEAKUP_RECORDER"); v != "" {
		c.Audio.Recorder = v
	}
	if v := os.Getenv("SPEAKUP_PLAYER"); v != "" {
		c.Audio.Player = v
	}
	c.LLM.ApplyEnv()
	c.LLM.DiscoverKeys()
}

// Validate checks the parts of cfg that cannot be fixed up later. Missing
// API keys are not an error here; AI features are disabled instead.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	switch cfg.LLM.Provider {
	case "anthropic", "openai", "gemini", "openrouter", "mock":
	default:
		errs = append(errs, fmt.Errorf("llm.provider %q is invalid; valid values: gemini, openai, anthropic, openrouter, mock", cfg.LLM.Provider))
	}
	switch cfg.LLM.SpeechProvider {
	case "", "openai", "gemini", "mock":
	default:
		errs = append(errs, fmt.Errorf("llm.speech_provider %q is invalid; valid values: gemini, openai, mock", cfg.LLM.SpeechProvider))
	}
	if cfg.LLM.Timeout < 0 {
		errs = append(errs, fmt.Errorf("llm.timeout must not be negative"))
	}
	if cfg.LLM.Retry.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("llm.retry.max_attempts must not be negative"))
	}

	return errors.Join(errs...)
}
