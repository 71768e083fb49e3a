// Package main provides the paperhub CLI entry point.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/SMGDOG/paperhub/internal/config"
	"github.com/SMGDOG/paperhub/internal/embedding"
	"github.com/SMGDOG/paperhub/internal/recommend"
	"github.com/SMGDOG/paperhub/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "paperhub",
	Short: "Paper library with embedding-based recommendations",
	Long: `paperhub manages a local library of research papers and recommends
what to read next.

Papers are stored in a SQLite database inside a .paperhub directory.
Abstracts are embedded into vectors via Ollama or OpenAI, and the
recommendation commands rank papers by cosine similarity against a
seed paper, your reading history, or a blend of both. All commands
output JSON by default for easy integration with other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Allow OLLAMA_URL and OPENAI_API_KEY to come from a local .env file.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// getStartingDirectory returns the directory to begin the hub search from.
// PAPERHUB_ROOT overrides the current working directory.
func getStartingDirectory() (string, int) {
	if root := os.Getenv("PAPERHUB_ROOT"); root != "" {
		return root, 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// mustFindHub finds and validates the hub root, exits on error.
func mustFindHub() string {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	root, err := config.FindHub(start)
	if err != nil {
		exitWithError(ExitConfigError, "not inside a paperhub directory (run 'paperhub init' first)")
	}
	return root
}

// mustOpenDatabase opens the SQLite database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(root string) *storage.DB {
	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustLoadConfig loads hub configuration, exits on error.
func mustLoadConfig(root string) *config.Config {
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustProvider constructs the embedding provider named in the config and
// verifies it is usable, exits on error.
func mustProvider(ctx context.Context, cfg *config.Config) embedding.Provider {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		key := config.GetOpenAIAPIKey()
		if key == "" {
			exitWithError(ExitProviderError, "OPENAI_API_KEY is not set")
		}
		return embedding.NewOpenAIProvider(key)
	default:
		opts := []embedding.OllamaOption{embedding.WithBaseURL(config.GetOllamaURL())}
		if cfg.Model != "" {
			opts = append(opts, embedding.WithModel(cfg.Model))
		}
		provider := embedding.NewOllamaProvider(opts...)
		if err := provider.IsAvailable(ctx); err != nil {
			exitWithError(ExitProviderError, "Ollama is not running\n\nStart Ollama with 'ollama serve' or install from https://ollama.ai")
		}
		hasModel, err := provider.HasModel(ctx)
		if err != nil {
			exitWithError(ExitError, "checking model availability: %v", err)
		}
		if !hasModel {
			exitWithError(ExitModelNotFound, "Embedding model '%s' not found\n\nRun 'ollama pull %s' to download it.", provider.ModelName(), provider.ModelName())
		}
		return provider
	}
}

// mustEngine wires the recommendation engine over the open database.
func mustEngine(db *storage.DB, cfg *config.Config) *recommend.Engine {
	eng, err := recommend.NewEngine(db, db, cfg.Engine)
	if err != nil {
		exitWithError(ExitConfigError, "invalid engine config: %v", err)
	}
	return eng
}

// exitForRecommendError maps recommendation errors to the right exit code.
func exitForRecommendError(err error, paperID string) {
	switch {
	case err == nil:
		return
	case errors.Is(err, recommend.ErrNotFound):
		exitWithError(ExitNotFound, "paper not found: %s", paperID)
	case errors.Is(err, recommend.ErrNotEmbedded):
		exitWithError(ExitNotEmbedded, "paper has no embedding: %s (run 'paperhub embed' first)", paperID)
	default:
		exitWithError(ExitError, "recommending: %v", err)
	}
}
