package main

import (
	"context"
	"fmt"

	"github.com/SMGDOG/paperhub/internal/arxiv"
	"github.com/SMGDOG/paperhub/internal/paper"
	"github.com/SMGDOG/paperhub/internal/pdf"
	"github.com/SMGDOG/paperhub/internal/storage"
	"github.com/spf13/cobra"
)

var importLimit int

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.AddCommand(importArxivCmd)
	importCmd.AddCommand(importPDFCmd)

	importArxivCmd.Flags().IntVar(&importLimit, "limit", DefaultImportLimit, "Maximum search results to import")
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import papers into the library",
	Long:  `Commands for importing paper metadata from arXiv or local PDFs.`,
}

// ImportedPaper is one paper in import command output.
type ImportedPaper struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"` // "imported" or "exists"
}

var importArxivCmd = &cobra.Command{
	Use:   "arxiv <query-or-id>",
	Short: "Import papers from arXiv",
	Long: `Import papers from arXiv by ID or search query.

If the argument looks like an arXiv ID (e.g. 1706.03762), that single
paper is fetched. Otherwise the argument is treated as a search query
and up to --limit matching papers are imported.

Examples:
  paperhub import arxiv 1706.03762
  paperhub import arxiv "attention transformers" --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runImportArxiv,
}

func runImportArxiv(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindHub()
	db := mustOpenDatabase(root)
	defer db.Close()

	client := arxiv.NewClient()

	var entries []arxiv.Entry
	if id := paper.ExtractArxivID(args[0]); id != "" {
		entry, err := client.FetchByID(ctx, id)
		if err != nil {
			exitWithError(ExitError, "fetching %s: %v", id, err)
		}
		if entry == nil {
			exitWithError(ExitNotFound, "no arXiv paper with ID %s", id)
		}
		entries = []arxiv.Entry{*entry}
	} else {
		var err error
		entries, err = client.Search(ctx, args[0], importLimit)
		if err != nil {
			exitWithError(ExitError, "searching arXiv: %v", err)
		}
	}

	imported := importEntries(ctx, db, entries)
	printImported(imported)
	return nil
}

var importPDFCmd = &cobra.Command{
	Use:   "pdf <file>",
	Short: "Import a paper from a local PDF",
	Long: `Import a paper by identifying a local PDF.

The first pages are scanned for an arXiv ID; if one is found the paper
metadata is fetched from arXiv. A DOI found without an arXiv ID is
reported but cannot be resolved to metadata.`,
	Args: cobra.ExactArgs(1),
	RunE: runImportPDF,
}

func runImportPDF(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindHub()
	db := mustOpenDatabase(root)
	defer db.Close()

	arxivID, err := pdf.ExtractArxivID(args[0])
	if err != nil {
		exitWithError(ExitError, "reading PDF: %v", err)
	}
	if arxivID == "" {
		doi, _ := pdf.ExtractDOI(args[0])
		if doi != "" {
			exitWithError(ExitError, "no arXiv ID found in %s (found DOI %s; DOI import is not supported)", args[0], doi)
		}
		exitWithError(ExitError, "no arXiv ID found in %s", args[0])
	}

	entry, err := arxiv.NewClient().FetchByID(ctx, arxivID)
	if err != nil {
		exitWithError(ExitError, "fetching %s: %v", arxivID, err)
	}
	if entry == nil {
		exitWithError(ExitNotFound, "no arXiv paper with ID %s", arxivID)
	}

	imported := importEntries(ctx, db, []arxiv.Entry{*entry})
	printImported(imported)
	return nil
}

// importEntries saves fetched entries, skipping papers already present.
func importEntries(ctx context.Context, db *storage.DB, entries []arxiv.Entry) []ImportedPaper {
	out := make([]ImportedPaper, 0, len(entries))
	for _, entry := range entries {
		p := entry.ToPaper()

		existing, err := db.PaperByArxivID(ctx, p.ArxivID)
		if err != nil {
			exitWithError(ExitError, "checking for existing paper: %v", err)
		}
		if existing != nil {
			out = append(out, ImportedPaper{ID: existing.ID, Title: existing.Title, Status: "exists"})
			continue
		}

		if err := db.SavePaper(ctx, &p); err != nil {
			exitWithError(ExitError, "saving %s: %v", p.ID, err)
		}
		out = append(out, ImportedPaper{ID: p.ID, Title: p.Title, Status: "imported"})
	}
	return out
}

func printImported(imported []ImportedPaper) {
	if humanOutput {
		if len(imported) == 0 {
			fmt.Println("No papers found")
			return
		}
		for _, p := range imported {
			fmt.Printf("  %-10s %-16s %s\n", p.Status, p.ID, truncateString(p.Title, ImportTitleMaxLen))
		}
	} else {
		outputJSON(imported)
	}
}
