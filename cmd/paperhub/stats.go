package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/SMGDOG/paperhub/internal/paper"
	"github.com/spf13/cobra"
)

var statsUser string

func init() {
	statsCmd.Flags().StringVar(&statsUser, "user", paper.DefaultUserID, "User whose history to count")
	rootCmd.AddCommand(statsCmd)
}

// StatsResponse is the response for the stats command.
type StatsResponse struct {
	Papers        int            `json:"papers"`
	Embedded      int            `json:"embedded"`
	Tags          int            `json:"tags"`
	ReadingEvents int            `json:"reading_events"`
	Categories    map[string]int `json:"categories,omitempty"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show library statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindHub()
	db := mustOpenDatabase(root)
	defer db.Close()

	papers, err := db.CountPapers(ctx)
	if err != nil {
		exitWithError(ExitError, "counting papers: %v", err)
	}
	embedded, err := db.CountEmbeddedPapers(ctx)
	if err != nil {
		exitWithError(ExitError, "counting embedded papers: %v", err)
	}
	tags, err := db.CountTags(ctx)
	if err != nil {
		exitWithError(ExitError, "counting tags: %v", err)
	}
	events, err := db.CountReadingEvents(ctx, statsUser)
	if err != nil {
		exitWithError(ExitError, "counting reading events: %v", err)
	}
	categories, err := db.Categories(ctx)
	if err != nil {
		exitWithError(ExitError, "listing categories: %v", err)
	}

	if humanOutput {
		fmt.Printf("Papers:         %d (%d embedded)\n", papers, embedded)
		fmt.Printf("Tags:           %d\n", tags)
		fmt.Printf("Reading events: %d\n", events)
		if len(categories) > 0 {
			fmt.Printf("Categories:\n")
			names := make([]string, 0, len(categories))
			for name := range categories {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("  %-12s %d\n", name, categories[name])
			}
		}
	} else {
		outputJSON(StatsResponse{
			Papers:        papers,
			Embedded:      embedded,
			Tags:          tags,
			ReadingEvents: events,
			Categories:    categories,
		})
	}
	return nil
}
