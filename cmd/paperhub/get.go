package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/SMGDOG/paperhub/internal/paper"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(rmCmd)
}

// PaperDetail is the response for the get command.
type PaperDetail struct {
	paper.Paper
	Tags     []string `json:"tags,omitempty"`
	Embedded bool     `json:"embedded"`
}

var getCmd = &cobra.Command{
	Use:   "get <paper-id>",
	Short: "Show a paper's details",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindHub()
	db := mustOpenDatabase(root)
	defer db.Close()

	p, err := db.Paper(ctx, args[0])
	if err != nil {
		exitWithError(ExitError, "loading paper: %v", err)
	}
	if p == nil {
		exitWithError(ExitNotFound, "paper not found: %s", args[0])
	}

	tags, err := db.PaperTags(ctx, p.ID)
	if err != nil {
		exitWithError(ExitError, "loading tags: %v", err)
	}
	tagNames := make([]string, 0, len(tags))
	for _, t := range tags {
		tagNames = append(tagNames, t.Name)
	}

	if humanOutput {
		fmt.Printf("%s\n", p.Title)
		fmt.Printf("  ID:        %s\n", p.ID)
		if p.ArxivID != "" {
			fmt.Printf("  arXiv:     %s\n", p.ArxivID)
		}
		if p.DOI != "" {
			fmt.Printf("  DOI:       %s\n", p.DOI)
		}
		if len(p.Authors) > 0 {
			fmt.Printf("  Authors:   %s\n", strings.Join(p.Authors, ", "))
		}
		if p.Category != "" {
			fmt.Printf("  Category:  %s\n", p.Category)
		}
		if !p.Published.IsZero() {
			fmt.Printf("  Published: %s\n", p.Published.Format("2006-01-02"))
		}
		if len(tagNames) > 0 {
			fmt.Printf("  Tags:      %s\n", strings.Join(tagNames, ", "))
		}
		fmt.Printf("  Embedded:  %v\n", p.HasEmbedding())
		if p.Abstract != "" {
			fmt.Printf("\n%s\n", p.Abstract)
		}
	} else {
		outputJSON(PaperDetail{Paper: *p, Tags: tagNames, Embedded: p.HasEmbedding()})
	}
	return nil
}

var rmCmd = &cobra.Command{
	Use:   "rm <paper-id>",
	Short: "Delete a paper from the library",
	Long: `Delete a paper and its tags, reading events and embedding metadata.

Already-computed recommendations are unaffected; future runs simply no
longer see the paper.`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

func runRm(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindHub()
	db := mustOpenDatabase(root)
	defer db.Close()

	deleted, err := db.DeletePaper(ctx, args[0])
	if err != nil {
		exitWithError(ExitError, "deleting paper: %v", err)
	}
	if !deleted {
		exitWithError(ExitNotFound, "paper not found: %s", args[0])
	}

	if humanOutput {
		fmt.Printf("Deleted %s\n", args[0])
	} else {
		outputJSON(StatusResponse{Status: "deleted"})
	}
	return nil
}
