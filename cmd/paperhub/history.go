package main

import (
	"context"
	"fmt"
	"time"

	"github.com/SMGDOG/paperhub/internal/paper"
	"github.com/spf13/cobra"
)

var (
	historyUser   string
	historyRating int
	historyNotes  string
	historyLimit  int
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyAddCmd)
	historyCmd.AddCommand(historyListCmd)

	historyAddCmd.Flags().StringVar(&historyUser, "user", paper.DefaultUserID, "User the event belongs to")
	historyAddCmd.Flags().IntVar(&historyRating, "rating", 0, "Rating 1-5 (0 = unrated)")
	historyAddCmd.Flags().StringVar(&historyNotes, "notes", "", "Free-form notes")
	historyListCmd.Flags().StringVar(&historyUser, "user", paper.DefaultUserID, "User whose history to show")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum events to return")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage reading history",
	Long:  `Commands for recording and inspecting reading events.`,
}

// HistoryEvent is one reading event in history output.
type HistoryEvent struct {
	ID      int64  `json:"id"`
	PaperID string `json:"paper_id"`
	Title   string `json:"title,omitempty"`
	ReadAt  string `json:"read_at"`
	Rating  int    `json:"rating,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

var historyAddCmd = &cobra.Command{
	Use:   "add <paper-id>",
	Short: "Record that a paper was read",
	Long: `Record a reading event for a paper. Reading the same paper again
adds another event, which weighs it more heavily in recommendations.

Examples:
  paperhub history add 1706.03762
  paperhub history add 1706.03762 --rating 5 --notes "foundational"`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryAdd,
}

func runHistoryAdd(cmd *cobra.Command, args []string) error {
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

	ev := paper.ReadingEvent{
		UserID:  historyUser,
		PaperID: p.ID,
		Rating:  historyRating,
		Notes:   historyNotes,
	}
	if err := db.AddReadingEvent(ctx, &ev); err != nil {
		exitWithError(ExitError, "recording event: %v", err)
	}

	if humanOutput {
		fmt.Printf("Recorded read of %s (event %d)\n", ev.PaperID, ev.ID)
	} else {
		outputJSON(HistoryEvent{
			ID:      ev.ID,
			PaperID: ev.PaperID,
			ReadAt:  ev.ReadAt.UTC().Format(time.RFC3339),
			Rating:  ev.Rating,
			Notes:   ev.Notes,
		})
	}
	return nil
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent reading events",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindHub()
	db := mustOpenDatabase(root)
	defer db.Close()

	events, err := db.RecentEvents(ctx, historyUser, historyLimit)
	if err != nil {
		exitWithError(ExitError, "listing history: %v", err)
	}

	out := make([]HistoryEvent, 0, len(events))
	for _, ev := range events {
		he := HistoryEvent{
			ID:      ev.ID,
			PaperID: ev.PaperID,
			ReadAt:  ev.ReadAt.UTC().Format(time.RFC3339),
			Rating:  ev.Rating,
			Notes:   ev.Notes,
		}
		if p, err := db.Paper(ctx, ev.PaperID); err == nil && p != nil {
			he.Title = p.Title
		}
		out = append(out, he)
	}

	if humanOutput {
		if len(out) == 0 {
			fmt.Println("No reading history")
			return nil
		}
		for _, ev := range out {
			rating := ""
			if ev.Rating > 0 {
				rating = fmt.Sprintf(" [%d/5]", ev.Rating)
			}
			fmt.Printf("  %s  %-16s%s %s\n", ev.ReadAt, ev.PaperID, rating, truncateString(ev.Title, ListTitleMaxLen))
		}
	} else {
		outputJSON(out)
	}
	return nil
}
