package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/SMGDOG/paperhub/internal/paper"
	"github.com/SMGDOG/paperhub/internal/recommend"
	"github.com/SMGDOG/paperhub/internal/storage"
)

// Constants for output formatting.
const (
	DefaultImportLimit = 10 // Default number of arXiv search results to import

	ImportTitleMaxLen = 60 // Used in import command output
	ListTitleMaxLen   = 50 // Used in list command output
	RecTitleMaxLen    = 70 // Used in recommendation summaries
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// Recommendation is a ranked paper in recommendation output.
type Recommendation struct {
	Rank     int      `json:"rank"`
	ID       string   `json:"id"`
	Score    float32  `json:"score"`
	Title    string   `json:"title"`
	Authors  []string `json:"authors,omitempty"`
	Category string   `json:"category,omitempty"`
}

// buildRecommendations resolves ranked results against the database.
// Papers deleted after scoring are skipped rather than failing the whole list.
func buildRecommendations(db *storage.DB, results []recommend.Result) []Recommendation {
	ctx := context.Background()
	recs := make([]Recommendation, 0, len(results))
	for _, r := range results {
		p, err := db.Paper(ctx, r.PaperID)
		if err != nil || p == nil {
			continue
		}
		recs = append(recs, Recommendation{
			Rank:     r.Rank,
			ID:       p.ID,
			Score:    r.Score,
			Title:    p.Title,
			Authors:  p.Authors,
			Category: p.Category,
		})
	}
	return recs
}

// printRecommendationsHuman prints recommendations in human-readable format.
func printRecommendationsHuman(recs []Recommendation) {
	if len(recs) == 0 {
		fmt.Println("No recommendations")
		return
	}
	for _, r := range recs {
		fmt.Printf("%d. [%.3f] %s\n", r.Rank, r.Score, r.ID)
		fmt.Printf("   %s\n", truncateString(r.Title, RecTitleMaxLen))
		if line := formatAuthorsShort(r.Authors, 3); line != "" {
			fmt.Printf("   %s\n", line)
		}
		fmt.Println()
	}
}

// printPaperLine prints a one-line paper summary for list output.
func printPaperLine(p paper.Paper) {
	marker := " "
	if p.HasEmbedding() {
		marker = "*"
	}
	fmt.Printf("  %s %-16s %s\n", marker, p.ID, truncateString(p.Title, ListTitleMaxLen))
}

// truncateString truncates a string to maxLen runes, adding "..." if
// truncated. Counting runes keeps multi-byte characters intact.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatAuthorsShort joins up to maxCount authors, appending "et al." beyond that.
func formatAuthorsShort(authors []string, maxCount int) string {
	if len(authors) == 0 {
		return ""
	}
	var names []string
	for i, a := range authors {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		names = append(names, a)
	}
	return strings.Join(names, ", ")
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

const (
	// progressBarWidth is the width in characters for terminal progress display.
	progressBarWidth = 30
	// progressLineClearWidth clears the whole progress line including counters.
	progressLineClearWidth = 50
)

// buildProgressBar creates a progress bar string like "[=====>    ]".
func buildProgressBar(current, total, width int) string {
	if total == 0 {
		return strings.Repeat(" ", width)
	}
	filled := (width * current) / total
	if filled >= width {
		return strings.Repeat("=", width)
	}
	return strings.Repeat("=", filled) + ">" + strings.Repeat(" ", width-filled-1)
}

// printProgress prints a progress bar to stderr.
func printProgress(current, total int) {
	if total == 0 {
		return
	}
	pct := float64(current) / float64(total) * 100
	bar := buildProgressBar(current, total, progressBarWidth)
	fmt.Fprintf(os.Stderr, "\r[%s] %d/%d (%.0f%%)", bar, current, total, pct)
}

// clearProgressLine erases a previously printed progress bar.
func clearProgressLine() {
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", progressLineClearWidth))
}
