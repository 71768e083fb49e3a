package main

import (
	"fmt"
	"os"

	"github.com/SMGDOG/paperhub/internal/config"
	"github.com/SMGDOG/paperhub/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new paperhub directory",
	Long: `Initialize a new paperhub directory in the current directory.

Creates:
  .paperhub/
  ├── config.json     # Default config
  └── paperhub.db     # SQLite database`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	if config.IsHub(root) {
		exitWithError(ExitError, "directory already contains a paperhub directory")
	}

	if err := os.MkdirAll(config.HubPath(root), 0755); err != nil {
		exitWithError(ExitError, "creating .paperhub directory: %v", err)
	}

	cfg := config.Default()
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "writing config: %v", err)
	}

	// Opening the database creates the schema.
	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "creating database: %v", err)
	}
	db.Close()

	if humanOutput {
		fmt.Printf("Initialized paperhub directory in %s\n", config.HubPath(root))
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: config.HubPath(root)})
	}
	return nil
}
