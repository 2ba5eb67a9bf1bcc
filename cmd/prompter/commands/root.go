package commands

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hintwire/prompter/cmd/prompter/internal/config"
	"github.com/hintwire/prompter/pkg/kv"
)

var (
	// Global flags
	flagConfig string
	verbose    bool

	// Global configuration (loaded at init time)
	globalConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "prompter",
	Short: "Real-time interview copilot",
	Long: `prompter - a real-time interview copilot.

It listens to your interview audio (microphone or system loopback),
transcribes the interviewer's questions, and drafts first-person answers
grounded in your stored résumé, live in the terminal.

Configuration lives in the OS config directory:
  macOS:   ~/Library/Application Support/prompter/config.yaml
  Linux:   ~/.config/prompter/config.yaml
  Windows: %AppData%/prompter/config.yaml

API keys are read from environment variables (GEMINI_API_KEY for the
live model, OPENAI_API_KEY for answer speech by default); the config
file can point at different variable names.

Examples:
  # Store your résumé, then run a session against the microphone
  prompter resume import resume.md
  prompter run

  # Capture the interviewer from a system loopback device
  prompter devices
  prompter run --source system --device "Monitor of Built-in Audio"

  # Review past sessions
  prompter history list
  prompter history show 7f3a... --filter '.turns[].question'
  prompter brief 7f3a...`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: OS config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// configLoadErr stores the error from config loading for deferred
// reporting.
var configLoadErr error

func initConfig() {
	var (
		cfg *config.Config
		err error
	)
	if flagConfig != "" {
		cfg, err = config.LoadFrom(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		// Store error for deferred reporting; commands that need config
		// will get a clear error via getConfig(). This avoids failing
		// commands like 'prompter version'.
		configLoadErr = err
		return
	}
	globalConfig = cfg
}

// getConfig returns the global configuration.
// Returns an error if the config could not be loaded.
func getConfig() (*config.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
		globalConfig = cfg
	}
	return globalConfig, nil
}

// isVerbose returns whether verbose mode is enabled.
func isVerbose() bool {
	return verbose
}

// newLogger builds the slog logger all commands share, writing to w.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openStore opens the badger store holding the résumé and the session
// archive. The caller must close it.
func openStore(cfg *config.Config) (*kv.Badger, error) {
	dir := filepath.Join(cfg.ResolveDataDir(), "badger")
	db, err := kv.NewBadger(kv.BadgerOptions{Dir: dir})
	if err != nil {
		return nil, fmt.Errorf("open data store %s: %w", dir, err)
	}
	return db, nil
}
