package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the operator-facing settings: where output lands, where
// custom fonts live, and which transcription provider to use when a
// request carries no captions.
type Config struct {
	StorageDir string `toml:"storage_dir"`
	FontsDir   string `toml:"fonts_dir"`

	Provider string `toml:"provider"`
	Model    string `toml:"model"`

	OpenAIAPIKey string `toml:"openai_api_key"`
	GeminiAPIKey string `toml:"gemini_api_key"`
}

func Default() Config {
	return Config{
		StorageDir: filepath.Join(os.TempDir(), "capkit"),
		Provider:   "openai",
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "capkit", "config.toml")
}

// Load reads the TOML config at path over the defaults. An empty path falls
// back to DefaultPath; a missing file is not an error, the defaults apply.
// API keys fall back to the OPENAI_API_KEY / GEMINI_API_KEY environment
// variables when unset.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
			// no config file is fine, defaults apply
		default:
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}

	return cfg, nil
}

// APIKey returns the key configured for the given provider name.
func (c Config) APIKey(provider string) string {
	switch provider {
	case "gemini":
		return c.GeminiAPIKey
	default:
		return c.OpenAIAPIKey
	}
}
