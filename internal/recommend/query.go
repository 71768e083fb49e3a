package recommend

import (
	"fmt"
	"sort"

	"github.com/SMGDOG/paperhub/internal/paper"
)

// rankBySimilarity scores every pool paper not in exclude against the query
// vector and returns the top k results, sorted descending by score with
// exact ties broken by ascending paper ID. If fewer than k candidates
// remain after exclusion, all of them are returned. k <= 0 yields an empty
// result.
func rankBySimilarity(query []float32, pool []paper.Paper, exclude map[string]struct{}, k int) ([]Result, error) {
	if k <= 0 {
		return []Result{}, nil
	}

	results := make([]Result, 0, len(pool))
	for i := range pool {
		p := &pool[i]
		if _, skip := exclude[p.ID]; skip {
			continue
		}
		if !p.HasEmbedding() {
			continue
		}
		if len(p.Embedding) != len(query) {
			return nil, fmt.Errorf("%w: query has %d dimensions, paper %s has %d",
				ErrDimensionMismatch, len(query), p.ID, len(p.Embedding))
		}
		results = append(results, Result{
			PaperID: p.ID,
			Score:   CosineSimilarity(query, p.Embedding),
		})
	}

	sortResults(results)

	if len(results) > k {
		results = results[:k]
	}
	assignRanks(results)
	return results, nil
}

// sortResults orders results descending by score, ascending by paper ID on
// exact ties.
func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].PaperID < results[j].PaperID
	})
}

// assignRanks sets 1-based ranks in place, assuming results are sorted.
func assignRanks(results []Result) {
	for i := range results {
		results[i].Rank = i + 1
	}
}

// Merge deduplicates one or more ranked result lists, keeping the highest
// score seen per paper, re-sorts with the standard tie-break, and truncates
// to k. Callers use it to combine strategy outputs for display. k <= 0
// yields an empty result, matching the single-list ranking primitive.
func Merge(k int, lists ...[]Result) []Result {
	if k <= 0 {
		return []Result{}
	}

	best := make(map[string]float32)
	for _, list := range lists {
		for _, r := range list {
			if score, seen := best[r.PaperID]; !seen || r.Score > score {
				best[r.PaperID] = r.Score
			}
		}
	}

	merged := make([]Result, 0, len(best))
	for id, score := range best {
		merged = append(merged, Result{PaperID: id, Score: score})
	}
	sortResults(merged)

	if len(merged) > k {
		merged = merged[:k]
	}
	assignRanks(merged)
	return merged
}
