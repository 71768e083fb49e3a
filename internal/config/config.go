// Package config handles hub and global configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SMGDOG/paperhub/internal/recommend"
)

// Provider names accepted in configuration.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config represents hub configuration stored in .paperhub/config.json.
type Config struct {
	// Provider selects the embedding backend: "ollama" or "openai".
	Provider string `json:"provider"`

	// Model overrides the provider's default embedding model.
	Model string `json:"model,omitempty"`

	// Engine holds the recommendation engine settings.
	Engine recommend.Config `json:"engine"`
}

const (
	PaperhubDir = ".paperhub"
	ConfigFile  = "config.json"
	DBFile      = "paperhub.db"
)

// Default returns the default hub configuration.
func Default() *Config {
	return &Config{
		Provider: ProviderOllama,
		Engine:   recommend.DefaultConfig(),
	}
}

// Validate checks the configuration. Engine invariants (weights summing to
// one, positive dimensions) are rejected here, at load time, so a broken
// configuration fails fast rather than per request.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown embedding provider %q (want %q or %q)",
			c.Provider, ProviderOllama, ProviderOpenAI)
	}
	return c.Engine.Validate()
}

// HubPath returns the path to the .paperhub directory from a root path.
func HubPath(root string) string {
	return filepath.Join(root, PaperhubDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, PaperhubDir, ConfigFile)
}

// DBPath returns the path to the SQLite database from a root path.
func DBPath(root string) string {
	return filepath.Join(root, PaperhubDir, DBFile)
}

// IsHub checks if the given path contains a paperhub repository.
func IsHub(root string) bool {
	info, err := os.Stat(HubPath(root))
	return err == nil && info.IsDir()
}

// FindHub walks up from the given path to find a paperhub repository.
// Returns the hub root path or an error if not found.
func FindHub(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsHub(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a paperhub repository (no .paperhub directory found)")
		}
		abs = parent
	}
}

// Load reads and validates configuration from the hub at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes configuration to the hub at the given root.
func (c *Config) Save(root string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
