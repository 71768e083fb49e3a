package recommend

import (
	"errors"
	"testing"

	"github.com/SMGDOG/paperhub/internal/paper"
)

func poolOf(embeddings map[string][]float32) []paper.Paper {
	pool := make([]paper.Paper, 0, len(embeddings))
	for id, emb := range embeddings {
		pool = append(pool, paper.Paper{ID: id, Title: id, Embedding: emb})
	}
	return pool
}

func TestRankBySimilarity(t *testing.T) {
	pool := poolOf(map[string][]float32{
		"paper1": {1, 0, 0},
		"paper2": {0.9, 0.1, 0},
		"paper3": {0, 1, 0},
		"paper4": {0, 0, 1},
	})
	query := []float32{1, 0, 0}

	t.Run("sorts descending by score", func(t *testing.T) {
		results, err := rankBySimilarity(query, pool, nil, 10)
		if err != nil {
			t.Fatalf("rankBySimilarity failed: %v", err)
		}
		if len(results) != 4 {
			t.Fatalf("expected 4 results, got %d", len(results))
		}
		if results[0].PaperID != "paper1" || results[1].PaperID != "paper2" {
			t.Errorf("expected paper1, paper2 first, got %s, %s", results[0].PaperID, results[1].PaperID)
		}
		for i := 1; i < len(results); i++ {
			if results[i].Score > results[i-1].Score {
				t.Errorf("results not sorted descending at index %d", i)
			}
		}
	})

	t.Run("assigns one-based ranks", func(t *testing.T) {
		results, _ := rankBySimilarity(query, pool, nil, 10)
		for i, r := range results {
			if r.Rank != i+1 {
				t.Errorf("results[%d].Rank = %d, want %d", i, r.Rank, i+1)
			}
		}
	})

	t.Run("respects exclusion set", func(t *testing.T) {
		exclude := map[string]struct{}{"paper1": {}, "paper2": {}}
		results, err := rankBySimilarity(query, pool, exclude, 10)
		if err != nil {
			t.Fatalf("rankBySimilarity failed: %v", err)
		}
		for _, r := range results {
			if _, excluded := exclude[r.PaperID]; excluded {
				t.Errorf("excluded paper %s appeared in results", r.PaperID)
			}
		}
		if len(results) != 2 {
			t.Errorf("expected 2 results after exclusion, got %d", len(results))
		}
	})

	t.Run("truncates to k", func(t *testing.T) {
		results, err := rankBySimilarity(query, pool, nil, 2)
		if err != nil {
			t.Fatalf("rankBySimilarity failed: %v", err)
		}
		if len(results) != 2 {
			t.Errorf("expected 2 results, got %d", len(results))
		}
	})

	t.Run("returns all when pool smaller than k", func(t *testing.T) {
		results, err := rankBySimilarity(query, pool, nil, 100)
		if err != nil {
			t.Fatalf("rankBySimilarity failed: %v", err)
		}
		if len(results) != 4 {
			t.Errorf("expected 4 results, got %d", len(results))
		}
	})

	t.Run("k of zero yields empty", func(t *testing.T) {
		results, err := rankBySimilarity(query, pool, nil, 0)
		if err != nil {
			t.Fatalf("rankBySimilarity failed: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})

	t.Run("dimension mismatch aborts", func(t *testing.T) {
		bad := append(pool, paper.Paper{ID: "paper5", Embedding: []float32{1, 0}})
		_, err := rankBySimilarity(query, bad, nil, 10)
		if !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("expected ErrDimensionMismatch, got %v", err)
		}
	})
}

func TestRankBySimilarity_TieBreakByID(t *testing.T) {
	// paperB and paperA have identical embeddings, so identical scores;
	// ascending ID ordering makes the output deterministic.
	pool := []paper.Paper{
		{ID: "paperB", Embedding: []float32{0, 1}},
		{ID: "paperA", Embedding: []float32{0, 1}},
		{ID: "paperC", Embedding: []float32{1, 0}},
	}
	query := []float32{1, 0}

	for i := 0; i < 5; i++ {
		results, err := rankBySimilarity(query, pool, nil, 10)
		if err != nil {
			t.Fatalf("rankBySimilarity failed: %v", err)
		}
		if results[0].PaperID != "paperC" {
			t.Fatalf("expected paperC first, got %s", results[0].PaperID)
		}
		if results[1].PaperID != "paperA" || results[2].PaperID != "paperB" {
			t.Fatalf("tie not broken by ascending ID: got %s, %s", results[1].PaperID, results[2].PaperID)
		}
	}
}

func TestRankBySimilarity_SpecExample(t *testing.T) {
	// P=[1,0,0,0]; Q=[0.9,0.1,0,0] (sim ~0.994); R=[0,1,0,0] (sim 0).
	pool := []paper.Paper{
		{ID: "Q", Embedding: []float32{0.9, 0.1, 0, 0}},
		{ID: "R", Embedding: []float32{0, 1, 0, 0}},
	}
	query := []float32{1, 0, 0, 0}

	results, err := rankBySimilarity(query, pool, nil, 2)
	if err != nil {
		t.Fatalf("rankBySimilarity failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].PaperID != "Q" || results[1].PaperID != "R" {
		t.Errorf("expected [Q R], got [%s %s]", results[0].PaperID, results[1].PaperID)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("expected Q score %v > R score %v", results[0].Score, results[1].Score)
	}
}

func TestMerge(t *testing.T) {
	listA := []Result{
		{PaperID: "p1", Score: 0.9, Rank: 1},
		{PaperID: "p2", Score: 0.5, Rank: 2},
	}
	listB := []Result{
		{PaperID: "p2", Score: 0.8, Rank: 1}, // higher score for p2 wins
		{PaperID: "p3", Score: 0.6, Rank: 2},
	}

	merged := Merge(10, listA, listB)

	if len(merged) != 3 {
		t.Fatalf("expected 3 merged results, got %d", len(merged))
	}
	if merged[0].PaperID != "p1" || merged[1].PaperID != "p2" || merged[2].PaperID != "p3" {
		t.Errorf("unexpected order: %v", merged)
	}
	if merged[1].Score != 0.8 {
		t.Errorf("p2 score = %v, want highest seen 0.8", merged[1].Score)
	}
	for i, r := range merged {
		if r.Rank != i+1 {
			t.Errorf("merged[%d].Rank = %d, want %d", i, r.Rank, i+1)
		}
	}
}

func TestMerge_Truncates(t *testing.T) {
	list := []Result{
		{PaperID: "p1", Score: 0.9},
		{PaperID: "p2", Score: 0.8},
		{PaperID: "p3", Score: 0.7},
	}

	merged := Merge(2, list)
	if len(merged) != 2 {
		t.Errorf("expected 2 results, got %d", len(merged))
	}
}

func TestMerge_NonPositiveK(t *testing.T) {
	list := []Result{{PaperID: "p1", Score: 0.9}}

	for _, k := range []int{0, -1} {
		merged := Merge(k, list)
		if len(merged) != 0 {
			t.Errorf("Merge(%d) returned %d results, want 0", k, len(merged))
		}
	}
}
