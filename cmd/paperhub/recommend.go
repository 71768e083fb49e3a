package main

import (
	"context"
	"fmt"

	"github.com/SMGDOG/paperhub/internal/paper"
	"github.com/SMGDOG/paperhub/internal/recommend"
	"github.com/SMGDOG/paperhub/internal/storage"
	"github.com/spf13/cobra"
)

var (
	recLimit    int
	recUser     string
	recCategory string
	recTag      string
)

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.AddCommand(recommendSimilarCmd)
	recommendCmd.AddCommand(recommendForYouCmd)
	recommendCmd.AddCommand(recommendBlendCmd)

	for _, c := range []*cobra.Command{recommendSimilarCmd, recommendForYouCmd, recommendBlendCmd} {
		c.Flags().IntVar(&recLimit, "limit", 0, "Maximum results (0 = engine default)")
		c.Flags().StringVar(&recCategory, "category", "", "Restrict candidates to a category")
		c.Flags().StringVar(&recTag, "tag", "", "Restrict candidates to a tag")
	}
	recommendForYouCmd.Flags().StringVar(&recUser, "user", paper.DefaultUserID, "User whose history to use")
	recommendBlendCmd.Flags().StringVar(&recUser, "user", paper.DefaultUserID, "User whose history to use")
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend papers to read",
	Long:  `Commands that rank embedded papers by cosine similarity.`,
}

var recommendSimilarCmd = &cobra.Command{
	Use:   "similar <paper-id> [paper-id...]",
	Short: "Papers similar to one or more given papers",
	Long: `Rank embedded papers by similarity to the given paper's embedding.
With several seed papers, the per-seed rankings are merged, keeping each
candidate's highest score. Seed papers are never included in the results.

Examples:
  paperhub recommend similar 1706.03762
  paperhub recommend similar 1706.03762 --limit 5 --category cs.LG
  paperhub recommend similar 1706.03762 1512.03385`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecommendSimilar,
}

func runRecommendSimilar(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindHub()
	cfg := mustLoadConfig(root)
	db := mustOpenDatabase(root)
	defer db.Close()

	eng := mustEngine(db, cfg)

	if len(args) == 1 {
		results, err := eng.ContentBased(ctx, args[0], recLimit, recFilter())
		exitForRecommendError(err, args[0])
		printRecommendations(db, results)
		return nil
	}

	seeds := make(map[string]struct{}, len(args))
	for _, id := range args {
		seeds[id] = struct{}{}
	}

	limit := recLimit
	if limit <= 0 {
		limit = eng.Config().Limit
	}

	lists := make([][]recommend.Result, 0, len(args))
	for _, id := range args {
		results, err := eng.ContentBased(ctx, id, limit, recFilter())
		exitForRecommendError(err, id)

		// One seed's ranking may contain another seed; drop them all.
		kept := make([]recommend.Result, 0, len(results))
		for _, r := range results {
			if _, isSeed := seeds[r.PaperID]; !isSeed {
				kept = append(kept, r)
			}
		}
		lists = append(lists, kept)
	}

	printRecommendations(db, recommend.Merge(limit, lists...))
	return nil
}

var recommendForYouCmd = &cobra.Command{
	Use:   "foryou",
	Short: "Papers matching your reading history",
	Long: `Rank unread embedded papers against an interest vector built from
the most recent reading events. With no history the result is empty.

Examples:
  paperhub recommend foryou
  paperhub recommend foryou --user alice --limit 20`,
	Args: cobra.NoArgs,
	RunE: runRecommendForYou,
}

func runRecommendForYou(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindHub()
	cfg := mustLoadConfig(root)
	db := mustOpenDatabase(root)
	defer db.Close()

	eng := mustEngine(db, cfg)
	results, err := eng.HistoryBased(ctx, recUser, recLimit, recFilter())
	if err != nil {
		exitWithError(ExitError, "recommending: %v", err)
	}

	if humanOutput && len(results) == 0 {
		fmt.Println("No recommendations (no reading history yet)")
		return nil
	}
	printRecommendations(db, results)
	return nil
}

var recommendBlendCmd = &cobra.Command{
	Use:   "blend <paper-id>",
	Short: "Blend paper similarity with reading history",
	Long: `Score candidates by a weighted blend of similarity to the given
paper and similarity to the reading-history interest vector. Without
history this degrades to the same ranking as 'recommend similar'.

Examples:
  paperhub recommend blend 1706.03762
  paperhub recommend blend 1706.03762 --user alice --tag to-read`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommendBlend,
}

func runRecommendBlend(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindHub()
	cfg := mustLoadConfig(root)
	db := mustOpenDatabase(root)
	defer db.Close()

	eng := mustEngine(db, cfg)
	results, err := eng.Hybrid(ctx, args[0], recUser, recLimit, recFilter())
	exitForRecommendError(err, args[0])

	printRecommendations(db, results)
	return nil
}

func recFilter() recommend.Filter {
	return recommend.Filter{Category: recCategory, Tag: recTag}
}

func printRecommendations(db *storage.DB, results []recommend.Result) {
	recs := buildRecommendations(db, results)
	if humanOutput {
		printRecommendationsHuman(recs)
	} else {
		outputJSON(recs)
	}
}
