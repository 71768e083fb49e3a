package main

import (
	"fmt"
	"strconv"

	"github.com/SMGDOG/paperhub/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change hub configuration",
}

// UpdateResponse is the response for config set.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigGet,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	root := mustFindHub()
	cfg := mustLoadConfig(root)

	if humanOutput {
		fmt.Printf("provider:       %s\n", cfg.Provider)
		fmt.Printf("model:          %s\n", cfg.Model)
		fmt.Printf("dimensions:     %d\n", cfg.Engine.Dimensions)
		fmt.Printf("window:         %d\n", cfg.Engine.WindowSize)
		fmt.Printf("weight_current: %g\n", cfg.Engine.WeightCurrent)
		fmt.Printf("weight_history: %g\n", cfg.Engine.WeightHistory)
		fmt.Printf("limit:          %d\n", cfg.Engine.Limit)
	} else {
		outputJSON(cfg)
	}
	return nil
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and save the config.

Keys: provider, model, dimensions, window, weight_current,
weight_history, limit. Invalid combinations (e.g. weights that do not
sum to 1.0) are rejected before saving.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	root := mustFindHub()
	cfg := mustLoadConfig(root)
	key, value := args[0], args[1]

	if err := applyConfigValue(cfg, key, value); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitConfigError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s = %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "dimensions":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("dimensions must be an integer: %q", value)
		}
		cfg.Engine.Dimensions = n
	case "window":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("window must be an integer: %q", value)
		}
		cfg.Engine.WindowSize = n
	case "weight_current":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("weight_current must be a number: %q", value)
		}
		cfg.Engine.WeightCurrent = f
	case "weight_history":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("weight_history must be a number: %q", value)
		}
		cfg.Engine.WeightHistory = f
	case "limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("limit must be an integer: %q", value)
		}
		cfg.Engine.Limit = n
	default:
		return fmt.Errorf("unknown config key: %q", key)
	}
	return nil
}
