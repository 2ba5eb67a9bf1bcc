// Package config provides the configuration for the prompter CLI.
//
// Configuration is a single YAML file under os.UserConfigDir()/prompter/:
//
//	~/Library/Application Support/prompter/config.yaml   (macOS)
//	~/.config/prompter/config.yaml                       (Linux)
//	%AppData%/prompter/config.yaml                       (Windows)
//
// Secrets are not stored in the file. The file names the environment
// variable that holds each API key, and the loader resolves it at
// startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// appDir is the directory name under os.UserConfigDir().
	appDir = "prompter"

	// fileName is the configuration file inside appDir.
	fileName = "config.yaml"

	// dataDirName is the default data directory inside appDir, holding
	// the badger store with the résumé and session archive.
	dataDirName = "data"
)

// Gemini configures the live transcription/answer model.
type Gemini struct {
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`

	// Model overrides the default live model.
	Model string `yaml:"model,omitempty"`

	// Voice selects the model's speech voice.
	Voice string `yaml:"voice,omitempty"`
}

// TTS configures local answer speech via an OpenAI-compatible endpoint.
type TTS struct {
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`

	// BaseURL overrides the API endpoint, for proxies and compatible
	// servers.
	BaseURL string `yaml:"base_url,omitempty"`

	// Model is the speech model.
	Model string `yaml:"model,omitempty"`

	// Voice is the synthesis voice.
	Voice string `yaml:"voice,omitempty"`
}

// Capture configures the audio source.
type Capture struct {
	// Source is "mic" or "system".
	Source string `yaml:"source,omitempty"`

	// SystemDevice names the loopback/monitor device for system capture.
	SystemDevice string `yaml:"system_device,omitempty"`
}

// Export configures default history export behavior.
type Export struct {
	// Target is the default destination: a directory or an
	// s3://bucket/prefix URL.
	Target string `yaml:"target,omitempty"`

	// Format is "json" or "yaml".
	Format string `yaml:"format,omitempty"`
}

// Config is the prompter configuration.
type Config struct {
	// Path is the file this configuration was loaded from (or would be
	// saved to). Not serialized.
	Path string `yaml:"-"`

	Gemini  Gemini  `yaml:"gemini"`
	TTS     TTS     `yaml:"tts"`
	Capture Capture `yaml:"capture"`

	// SpeakAnswers speaks finalized answers aloud via TTS.
	SpeakAnswers bool `yaml:"speak_answers,omitempty"`

	// DataDir overrides the default data directory.
	DataDir string `yaml:"data_dir,omitempty"`

	Export Export `yaml:"export,omitempty"`
}

// Default returns a configuration with the default env var names set.
func Default() *Config {
	return &Config{
		Gemini: Gemini{APIKeyEnv: "GEMINI_API_KEY"},
		TTS:    TTS{APIKeyEnv: "OPENAI_API_KEY"},
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load loads the configuration from the default location.
// A missing file yields the default configuration, not an error.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific file.
// A missing file yields the default configuration, not an error.
func LoadFrom(path string) (*Config, error) {
	cfg, err := readYAML[Config](path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = Default()
		} else {
			return nil, err
		}
	}
	cfg.Path = path
	if cfg.Gemini.APIKeyEnv == "" {
		cfg.Gemini.APIKeyEnv = "GEMINI_API_KEY"
	}
	if cfg.TTS.APIKeyEnv == "" {
		cfg.TTS.APIKeyEnv = "OPENAI_API_KEY"
	}
	return cfg, nil
}

// Save writes the configuration back to its file.
func (c *Config) Save() error {
	if c.Path == "" {
		path, err := DefaultPath()
		if err != nil {
			return err
		}
		c.Path = path
	}
	return writeYAML(c.Path, c)
}

// GeminiKey resolves the Gemini API key from the environment.
func (c *Config) GeminiKey() string {
	return os.Getenv(c.Gemini.APIKeyEnv)
}

// TTSKey resolves the TTS API key from the environment.
func (c *Config) TTSKey() string {
	return os.Getenv(c.TTS.APIKeyEnv)
}

// ResolveDataDir returns the data directory, defaulting to a "data"
// directory next to the config file.
func (c *Config) ResolveDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return filepath.Join(filepath.Dir(c.Path), dataDirName)
}
