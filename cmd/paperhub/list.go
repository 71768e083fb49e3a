package main

import (
	"context"
	"fmt"
	"time"

	"github.com/SMGDOG/paperhub/internal/paper"
	"github.com/SMGDOG/paperhub/internal/storage"
	"github.com/spf13/cobra"
)

var (
	listQuery    string
	listCategory string
	listTag      string
	listSince    string
	listUntil    string
	listLimit    int
)

func init() {
	listCmd.Flags().StringVar(&listQuery, "query", "", "Substring match on title or abstract")
	listCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Filter by tag")
	listCmd.Flags().StringVar(&listSince, "since", "", "Published on or after (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listUntil, "until", "", "Published on or before (YYYY-MM-DD)")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum results to return (0 = all)")
	rootCmd.AddCommand(listCmd)
}

// parseDateFlag parses a YYYY-MM-DD flag value, exiting on bad input.
func parseDateFlag(name, value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		exitWithError(ExitError, "invalid --%s date %q (want YYYY-MM-DD)", name, value)
	}
	return t
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List papers in the library",
	Long: `List papers, newest first. Embedded papers are marked with '*'
in human output.

Examples:
  paperhub list
  paperhub list --query transformer --limit 20
  paperhub list --tag to-read`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindHub()
	db := mustOpenDatabase(root)
	defer db.Close()

	papers, err := db.ListPapers(ctx, storage.ListFilter{
		Query:    listQuery,
		Category: listCategory,
		Tag:      listTag,
		Since:    parseDateFlag("since", listSince),
		Until:    parseDateFlag("until", listUntil),
		Limit:    listLimit,
	})
	if err != nil {
		exitWithError(ExitError, "listing papers: %v", err)
	}

	if humanOutput {
		if len(papers) == 0 {
			fmt.Println("No papers in library")
			return nil
		}
		fmt.Printf("%d papers:\n\n", len(papers))
		for _, p := range papers {
			printPaperLine(p)
		}
	} else {
		if papers == nil {
			papers = []paper.Paper{}
		}
		outputJSON(papers)
	}
	return nil
}
