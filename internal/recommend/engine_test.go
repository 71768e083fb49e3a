package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SMGDOG/paperhub/internal/paper"
)

// fakeStore implements PaperSource and HistorySource in memory.
type fakeStore struct {
	papers map[string]paper.Paper
	events []paper.ReadingEvent // newest first
}

func (f *fakeStore) Paper(_ context.Context, id string) (*paper.Paper, error) {
	p, ok := f.papers[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeStore) EmbeddedPapers(_ context.Context, filter Filter) ([]paper.Paper, error) {
	var out []paper.Paper
	for _, p := range f.papers {
		if !p.HasEmbedding() {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) RecentEvents(_ context.Context, userID string, limit int) ([]paper.ReadingEvent, error) {
	var out []paper.ReadingEvent
	for _, ev := range f.events {
		if ev.UserID != userID {
			continue
		}
		out = append(out, ev)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) ReadPaperIDs(_ context.Context, userID string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, ev := range f.events {
		if ev.UserID != userID {
			continue
		}
		if _, dup := seen[ev.PaperID]; dup {
			continue
		}
		seen[ev.PaperID] = struct{}{}
		out = append(out, ev.PaperID)
	}
	return out, nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Dimensions = 4
	return cfg
}

func newTestEngine(t *testing.T, store *fakeStore) *Engine {
	t.Helper()
	engine, err := NewEngine(store, store, testConfig())
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}

func readEvent(userID, paperID string, age time.Duration) paper.ReadingEvent {
	return paper.ReadingEvent{
		UserID:  userID,
		PaperID: paperID,
		ReadAt:  time.Now().Add(-age),
	}
}

func fourDimStore() *fakeStore {
	return &fakeStore{
		papers: map[string]paper.Paper{
			"P": {ID: "P", Category: "cs.LG", Embedding: []float32{1, 0, 0, 0}},
			"Q": {ID: "Q", Category: "cs.LG", Embedding: []float32{0.9, 0.1, 0, 0}},
			"R": {ID: "R", Category: "cs.CL", Embedding: []float32{0, 1, 0, 0}},
			"S": {ID: "S", Category: "cs.CL", Embedding: []float32{0, 0, 1, 0}},
			"pending": {ID: "pending", Category: "cs.LG"}, // no embedding yet
		},
	}
}

func TestNewEngine_RejectsInvalidConfig(t *testing.T) {
	store := fourDimStore()

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"weights not summing to one", func(c *Config) { c.WeightCurrent = 0.7; c.WeightHistory = 0.4 }},
		{"negative weight", func(c *Config) { c.WeightCurrent = -0.2; c.WeightHistory = 1.2 }},
		{"zero dimensions", func(c *Config) { c.Dimensions = 0 }},
		{"zero window", func(c *Config) { c.WindowSize = 0 }},
		{"zero limit", func(c *Config) { c.Limit = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(&cfg)
			if _, err := NewEngine(store, store, cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("NewEngine() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestContentBased(t *testing.T) {
	store := fourDimStore()
	engine := newTestEngine(t, store)
	ctx := context.Background()

	t.Run("ranks by similarity excluding the source", func(t *testing.T) {
		results, err := engine.ContentBased(ctx, "P", 2, Filter{})
		if err != nil {
			t.Fatalf("ContentBased failed: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].PaperID != "Q" {
			t.Errorf("top result = %s, want Q", results[0].PaperID)
		}
		for _, r := range results {
			if r.PaperID == "P" {
				t.Error("source paper P appeared in its own recommendations")
			}
		}
	})

	t.Run("unknown paper", func(t *testing.T) {
		_, err := engine.ContentBased(ctx, "nope", 5, Filter{})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("paper pending embedding", func(t *testing.T) {
		_, err := engine.ContentBased(ctx, "pending", 5, Filter{})
		if !errors.Is(err, ErrNotEmbedded) {
			t.Errorf("error = %v, want ErrNotEmbedded", err)
		}
	})

	t.Run("category filter scopes the pool", func(t *testing.T) {
		results, err := engine.ContentBased(ctx, "P", 10, Filter{Category: "cs.CL"})
		if err != nil {
			t.Fatalf("ContentBased failed: %v", err)
		}
		for _, r := range results {
			if r.PaperID != "R" && r.PaperID != "S" {
				t.Errorf("paper %s outside filtered category", r.PaperID)
			}
		}
	})

	t.Run("zero limit uses configured default", func(t *testing.T) {
		results, err := engine.ContentBased(ctx, "P", 0, Filter{})
		if err != nil {
			t.Fatalf("ContentBased failed: %v", err)
		}
		if len(results) == 0 {
			t.Error("expected results with default limit")
		}
	})
}

func TestHistoryBased(t *testing.T) {
	ctx := context.Background()

	t.Run("no history yields empty result", func(t *testing.T) {
		store := fourDimStore()
		engine := newTestEngine(t, store)

		results, err := engine.HistoryBased(ctx, "newuser", 5, Filter{})
		if err != nil {
			t.Fatalf("HistoryBased failed: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected empty result for user with no history, got %d", len(results))
		}
	})

	t.Run("recommends near the interest vector excluding read papers", func(t *testing.T) {
		store := fourDimStore()
		store.events = []paper.ReadingEvent{
			readEvent("u1", "P", time.Hour),
			readEvent("u1", "Q", 2*time.Hour),
		}
		engine := newTestEngine(t, store)

		results, err := engine.HistoryBased(ctx, "u1", 10, Filter{})
		if err != nil {
			t.Fatalf("HistoryBased failed: %v", err)
		}
		for _, r := range results {
			if r.PaperID == "P" || r.PaperID == "Q" {
				t.Errorf("already-read paper %s recommended", r.PaperID)
			}
		}
		if len(results) == 0 {
			t.Fatal("expected at least one recommendation")
		}
	})

	t.Run("excludes reads beyond the window too", func(t *testing.T) {
		store := fourDimStore()
		// Window is 5; read 6 papers so one falls outside the window but
		// must still be excluded.
		store.events = []paper.ReadingEvent{
			readEvent("u1", "P", 1*time.Hour),
			readEvent("u1", "Q", 2*time.Hour),
			readEvent("u1", "P", 3*time.Hour),
			readEvent("u1", "Q", 4*time.Hour),
			readEvent("u1", "P", 5*time.Hour),
			readEvent("u1", "R", 6*time.Hour), // outside window
		}
		engine := newTestEngine(t, store)

		results, err := engine.HistoryBased(ctx, "u1", 10, Filter{})
		if err != nil {
			t.Fatalf("HistoryBased failed: %v", err)
		}
		for _, r := range results {
			if r.PaperID == "R" {
				t.Error("paper R read outside the window was not excluded")
			}
		}
	})

	t.Run("history of unembedded papers behaves as no history", func(t *testing.T) {
		store := fourDimStore()
		store.events = []paper.ReadingEvent{readEvent("u1", "pending", time.Hour)}
		engine := newTestEngine(t, store)

		results, err := engine.HistoryBased(ctx, "u1", 5, Filter{})
		if err != nil {
			t.Fatalf("HistoryBased failed: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected empty result, got %d", len(results))
		}
	})
}

func TestHybrid(t *testing.T) {
	ctx := context.Background()

	t.Run("no history degrades to content-based", func(t *testing.T) {
		store := fourDimStore()
		engine := newTestEngine(t, store)

		hybrid, err := engine.Hybrid(ctx, "P", "newuser", 3, Filter{})
		if err != nil {
			t.Fatalf("Hybrid failed: %v", err)
		}
		content, err := engine.ContentBased(ctx, "P", 3, Filter{})
		if err != nil {
			t.Fatalf("ContentBased failed: %v", err)
		}

		if len(hybrid) != len(content) {
			t.Fatalf("hybrid returned %d results, content-based %d", len(hybrid), len(content))
		}
		for i := range hybrid {
			if hybrid[i] != content[i] {
				t.Errorf("result %d differs: hybrid=%+v content=%+v", i, hybrid[i], content[i])
			}
		}
	})

	t.Run("blends current paper with history", func(t *testing.T) {
		store := fourDimStore()
		store.events = []paper.ReadingEvent{readEvent("u1", "R", time.Hour)}
		engine := newTestEngine(t, store)

		results, err := engine.Hybrid(ctx, "P", "u1", 10, Filter{})
		if err != nil {
			t.Fatalf("Hybrid failed: %v", err)
		}
		// Blended query is 0.7*[1,0,0,0] + 0.3*[0,1,0,0]; Q stays closest,
		// and both the current paper and the read paper are excluded.
		if len(results) == 0 || results[0].PaperID != "Q" {
			t.Fatalf("expected Q as top result, got %v", results)
		}
		for _, r := range results {
			if r.PaperID == "P" || r.PaperID == "R" {
				t.Errorf("excluded paper %s appeared in results", r.PaperID)
			}
		}
	})

	t.Run("unknown current paper", func(t *testing.T) {
		store := fourDimStore()
		engine := newTestEngine(t, store)

		_, err := engine.Hybrid(ctx, "nope", "u1", 5, Filter{})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestEngine_Deterministic(t *testing.T) {
	store := fourDimStore()
	store.events = []paper.ReadingEvent{
		readEvent("u1", "P", time.Hour),
		readEvent("u1", "Q", 2*time.Hour),
	}
	engine := newTestEngine(t, store)
	ctx := context.Background()

	first, err := engine.Hybrid(ctx, "P", "u1", 10, Filter{})
	if err != nil {
		t.Fatalf("Hybrid failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := engine.Hybrid(ctx, "P", "u1", 10, Filter{})
		if err != nil {
			t.Fatalf("Hybrid failed on repeat: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("result count changed between calls: %d vs %d", len(again), len(first))
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("result %d changed between calls: %+v vs %+v", j, again[j], first[j])
			}
		}
	}
}

func TestEngine_DimensionMismatchInPool(t *testing.T) {
	store := fourDimStore()
	store.papers["bad"] = paper.Paper{ID: "bad", Embedding: []float32{1, 0}}
	engine := newTestEngine(t, store)

	_, err := engine.ContentBased(context.Background(), "P", 10, Filter{})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("error = %v, want ErrDimensionMismatch", err)
	}
}
