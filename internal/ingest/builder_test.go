package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/SMGDOG/paperhub/internal/paper"
	"github.com/SMGDOG/paperhub/internal/storage"
)

// countingProvider returns a fixed vector and counts calls.
type countingProvider struct {
	mu    sync.Mutex
	calls int
	dims  int
	fail  bool
}

func (c *countingProvider) Embed(_ context.Context, text string) ([]float32, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.fail {
		return nil, errors.New("provider down")
	}
	vec := make([]float32, c.dims)
	vec[0] = float32(len(text)) // deterministic per text
	return vec, nil
}

func (c *countingProvider) ModelName() string { return "counting-model" }
func (c *countingProvider) Dimensions() int   { return c.dims }

func setupDB(t *testing.T, papers ...paper.Paper) *storage.DB {
	t.Helper()
	db, err := storage.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	for i := range papers {
		if err := db.SavePaper(context.Background(), &papers[i]); err != nil {
			t.Fatalf("SavePaper failed: %v", err)
		}
	}
	return db
}

func TestBuilder_EmbedsPendingPapers(t *testing.T) {
	db := setupDB(t,
		paper.Paper{ID: "p1", Title: "First Paper", Abstract: "About embeddings.", Authors: []string{"A"}},
		paper.Paper{ID: "p2", Title: "Second Paper", Abstract: "About ranking.", Authors: []string{"B"}},
	)
	provider := &countingProvider{dims: 4}
	builder := NewBuilder(provider, db)

	stats, err := builder.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Embedded != 2 {
		t.Errorf("Embedded = %d, want 2", stats.Embedded)
	}

	ctx := context.Background()
	for _, id := range []string{"p1", "p2"} {
		p, err := db.Paper(ctx, id)
		if err != nil {
			t.Fatalf("Paper failed: %v", err)
		}
		if !p.HasEmbedding() {
			t.Errorf("paper %s still pending", id)
		}
		meta, err := db.GetEmbeddingMetadata(ctx, id)
		if err != nil {
			t.Fatalf("GetEmbeddingMetadata failed: %v", err)
		}
		if meta == nil || meta.ModelName != "counting-model" {
			t.Errorf("metadata for %s = %+v", id, meta)
		}
	}
}

func TestBuilder_SkipsUpToDatePapers(t *testing.T) {
	db := setupDB(t,
		paper.Paper{ID: "p1", Title: "First Paper", Abstract: "About embeddings.", Authors: []string{"A"}},
	)
	provider := &countingProvider{dims: 4}
	builder := NewBuilder(provider, db)

	if _, err := builder.Run(context.Background(), false); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	firstCalls := provider.calls

	stats, err := builder.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if stats.Embedded != 0 {
		t.Errorf("second run embedded %d papers, want 0", stats.Embedded)
	}
	if stats.Skipped != 1 {
		t.Errorf("second run skipped %d papers, want 1", stats.Skipped)
	}
	if provider.calls != firstCalls {
		t.Errorf("provider called again for up-to-date paper")
	}
}

func TestBuilder_ForceReembedsAll(t *testing.T) {
	db := setupDB(t,
		paper.Paper{ID: "p1", Title: "First Paper", Abstract: "About embeddings.", Authors: []string{"A"}},
	)
	provider := &countingProvider{dims: 4}
	builder := NewBuilder(provider, db)

	if _, err := builder.Run(context.Background(), false); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}

	stats, err := builder.Run(context.Background(), true)
	if err != nil {
		t.Fatalf("forced Run failed: %v", err)
	}
	if stats.Embedded != 1 {
		t.Errorf("forced run embedded %d papers, want 1", stats.Embedded)
	}
}

func TestBuilder_EmptyTextGetsZeroVectorAndWarning(t *testing.T) {
	db := setupDB(t,
		paper.Paper{ID: "blank", Title: "", Abstract: "", Authors: []string{"A"}},
	)
	provider := &countingProvider{dims: 4}
	builder := NewBuilder(provider, db)

	var warnings []string
	builder.SetWarnFunc(func(format string, args ...interface{}) {
		warnings = append(warnings, format)
	})

	stats, err := builder.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.EmptyText != 1 {
		t.Errorf("EmptyText = %d, want 1", stats.EmptyText)
	}
	if len(warnings) != 1 {
		t.Errorf("expected 1 warning, got %d", len(warnings))
	}
	if provider.calls != 0 {
		t.Errorf("provider should not be called for empty text")
	}

	p, err := db.Paper(context.Background(), "blank")
	if err != nil {
		t.Fatalf("Paper failed: %v", err)
	}
	if len(p.Embedding) != 4 {
		t.Fatalf("expected stored zero vector of 4 dims, got %v", p.Embedding)
	}
	for _, v := range p.Embedding {
		if v != 0 {
			t.Errorf("expected zero vector, got %v", p.Embedding)
		}
	}
}

func TestBuilder_ProviderFailureLeavesStoredEmbeddingsIntact(t *testing.T) {
	db := setupDB(t,
		paper.Paper{ID: "good", Title: "Good Paper", Abstract: "Fine.", Authors: []string{"A"}},
	)
	provider := &countingProvider{dims: 4}
	builder := NewBuilder(provider, db)
	if _, err := builder.Run(context.Background(), false); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Add a new paper and make the provider fail.
	p := paper.Paper{ID: "new", Title: "New Paper", Abstract: "Also fine.", Authors: []string{"B"}}
	if err := db.SavePaper(context.Background(), &p); err != nil {
		t.Fatalf("SavePaper failed: %v", err)
	}
	provider.fail = true

	if _, err := builder.Run(context.Background(), false); err == nil {
		t.Fatal("expected error from failing provider")
	}

	stored, err := db.Paper(context.Background(), "good")
	if err != nil {
		t.Fatalf("Paper failed: %v", err)
	}
	if !stored.HasEmbedding() {
		t.Error("previously stored embedding was lost")
	}
}

func TestBuilder_ReportsProgress(t *testing.T) {
	db := setupDB(t,
		paper.Paper{ID: "p1", Title: "One", Abstract: "First.", Authors: []string{"A"}},
		paper.Paper{ID: "p2", Title: "Two", Abstract: "Second.", Authors: []string{"B"}},
		paper.Paper{ID: "p3", Title: "Three", Abstract: "Third.", Authors: []string{"C"}},
	)
	provider := &countingProvider{dims: 4}
	builder := NewBuilder(provider, db)
	builder.SetWorkers(2)

	var mu sync.Mutex
	var updates int
	builder.SetProgressReporter(ProgressFunc(func(current, total int) {
		mu.Lock()
		updates++
		mu.Unlock()
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
	}))

	if _, err := builder.Run(context.Background(), false); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if updates != 3 {
		t.Errorf("progress updates = %d, want 3", updates)
	}
}
