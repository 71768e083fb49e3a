package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/SMGDOG/paperhub/internal/paper"
	"github.com/spf13/cobra"
)

var (
	addTitle    string
	addAbstract string
	addAuthors  string
	addCategory string
)

func init() {
	addCmd.Flags().StringVar(&addTitle, "title", "", "Paper title (required)")
	addCmd.Flags().StringVar(&addAbstract, "abstract", "", "Paper abstract")
	addCmd.Flags().StringVar(&addAuthors, "authors", "", "Comma-separated author names")
	addCmd.Flags().StringVar(&addCategory, "category", "", "Category (e.g. cs.LG)")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <paper-id>",
	Short: "Add a paper by hand",
	Long: `Add a paper with manually supplied metadata. Most papers arrive via
'paperhub import'; this is for papers with no arXiv record.

Examples:
  paperhub add smith2024 --title "A Study" --abstract "..." --category cs.LG`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindHub()
	db := mustOpenDatabase(root)
	defer db.Close()

	if addTitle == "" {
		exitWithError(ExitError, "--title is required")
	}

	existing, err := db.Paper(ctx, args[0])
	if err != nil {
		exitWithError(ExitError, "checking for existing paper: %v", err)
	}
	if existing != nil {
		exitWithError(ExitError, "paper already exists: %s", args[0])
	}

	p := paper.Paper{
		ID:       args[0],
		Title:    paper.CleanText(addTitle),
		Abstract: paper.CleanText(addAbstract),
		Category: addCategory,
	}
	if addAuthors != "" {
		for _, a := range strings.Split(addAuthors, ",") {
			if a = strings.TrimSpace(a); a != "" {
				p.Authors = append(p.Authors, a)
			}
		}
	}

	if err := db.SavePaper(ctx, &p); err != nil {
		exitWithError(ExitError, "saving paper: %v", err)
	}

	if humanOutput {
		fmt.Printf("Added %s: %s\n", p.ID, truncateString(p.Title, ImportTitleMaxLen))
	} else {
		outputJSON(ImportedPaper{ID: p.ID, Title: p.Title, Status: "imported"})
	}
	return nil
}
