package main

import (
	"context"
	"fmt"
	"os"

	"github.com/SMGDOG/paperhub/internal/ingest"
	"github.com/spf13/cobra"
)

var (
	embedForce   bool
	embedWorkers int
	noProgress   bool
)

func init() {
	rootCmd.AddCommand(embedCmd)

	embedCmd.Flags().BoolVar(&embedForce, "force", false, "Re-embed every paper, discarding stored vectors")
	embedCmd.Flags().IntVar(&embedWorkers, "workers", ingest.DefaultWorkers, "Number of concurrent embedding workers")
	embedCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Suppress progress output")
}

// EmbedResult is the response for the embed command.
type EmbedResult struct {
	Status          string  `json:"status"`
	PapersEmbedded  int     `json:"papers_embedded"`
	PapersSkipped   int     `json:"papers_skipped"`
	EmptyAbstracts  int     `json:"empty_abstracts"`
	DurationSeconds float64 `json:"duration_seconds"`
	Model           string  `json:"model"`
}

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed paper abstracts for recommendation",
	Long: `Compute embedding vectors for papers that do not have one yet.

Papers already embedded with the current model and unchanged text are
skipped. Use --force to discard stored vectors and re-embed everything.`,
	RunE: runEmbed,
}

func runEmbed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindHub()
	cfg := mustLoadConfig(root)
	provider := mustProvider(ctx, cfg)

	db := mustOpenDatabase(root)
	defer db.Close()

	builder := ingest.NewBuilder(provider, db)
	builder.SetWorkers(embedWorkers)
	builder.SetWarnFunc(func(format string, args ...interface{}) {
		fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
	})

	showProgress := humanOutput && !noProgress
	if showProgress {
		builder.SetProgressReporter(ingest.ProgressFunc(printProgress))
		fmt.Fprintf(os.Stderr, "Embedding papers...\n")
	}

	stats, err := builder.Run(ctx, embedForce)
	if err != nil {
		exitWithError(ExitError, "embedding papers: %v", err)
	}

	if showProgress {
		clearProgressLine()
	}

	if humanOutput {
		fmt.Printf("Embed complete:\n")
		fmt.Printf("  Embedded: %d\n", stats.Embedded)
		fmt.Printf("  Skipped:  %d (up to date)\n", stats.Skipped)
		if stats.EmptyText > 0 {
			fmt.Printf("  Empty:    %d (no usable text, zero vector stored)\n", stats.EmptyText)
		}
		fmt.Printf("  Duration: %s\n", formatDuration(stats.Duration))
	} else {
		outputJSON(EmbedResult{
			Status:          "ok",
			PapersEmbedded:  stats.Embedded,
			PapersSkipped:   stats.Skipped,
			EmptyAbstracts:  stats.EmptyText,
			DurationSeconds: stats.Duration.Seconds(),
			Model:           provider.ModelName(),
		})
	}
	return nil
}
