// Package ingest computes and stores embeddings for imported papers.
package ingest

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/SMGDOG/paperhub/internal/embedding"
	"github.com/SMGDOG/paperhub/internal/paper"
	"github.com/SMGDOG/paperhub/internal/recommend"
	"github.com/SMGDOG/paperhub/internal/storage"
)

// DefaultWorkers is the default embedding concurrency. Embedding is
// independent across papers; the bound keeps memory and provider load
// predictable on large imports.
const DefaultWorkers = 4

// ProgressReporter receives progress updates during bulk embedding.
type ProgressReporter interface {
	// OnProgress is called with the current progress.
	OnProgress(current, total int)
}

// ProgressFunc is a function adapter for ProgressReporter.
type ProgressFunc func(current, total int)

// OnProgress implements ProgressReporter.
func (f ProgressFunc) OnProgress(current, total int) {
	f(current, total)
}

// Stats summarizes a bulk embedding run.
type Stats struct {
	Embedded  int           `json:"embedded"`
	Skipped   int           `json:"skipped"` // embedded and still up to date
	EmptyText int           `json:"empty_text"`
	Duration  time.Duration `json:"-"`
}

// Builder embeds papers that have no current embedding. Each paper's
// embedding write is independent, so a failed run leaves already-stored
// embeddings intact.
type Builder struct {
	provider embedding.Provider
	db       *storage.DB
	workers  int
	progress ProgressReporter

	warnf func(format string, args ...interface{})
}

// NewBuilder creates a bulk embedding builder.
func NewBuilder(provider embedding.Provider, db *storage.DB) *Builder {
	return &Builder{
		provider: provider,
		db:       db,
		workers:  DefaultWorkers,
	}
}

// SetWorkers sets the embedding concurrency (minimum 1).
func (b *Builder) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	b.workers = n
}

// SetProgressReporter sets the progress reporter.
func (b *Builder) SetProgressReporter(reporter ProgressReporter) {
	b.progress = reporter
}

// SetWarnFunc sets the sink for warning messages (empty-text papers).
func (b *Builder) SetWarnFunc(warnf func(format string, args ...interface{})) {
	b.warnf = warnf
}

// Run embeds every paper that is pending an embedding, plus any embedded
// paper whose title/abstract changed since it was last embedded (detected
// via the stored text hash). With force set, all papers are re-embedded.
func (b *Builder) Run(ctx context.Context, force bool) (*Stats, error) {
	start := time.Now()

	if force {
		if err := b.db.ClearEmbeddings(ctx); err != nil {
			return nil, fmt.Errorf("clearing embeddings: %w", err)
		}
	}

	candidates, skipped, err := b.collectCandidates(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Skipped: skipped}
	total := len(candidates)
	if total == 0 {
		stats.Duration = time.Since(start)
		return stats, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan paper.Paper)
	errs := make(chan error, b.workers)
	var done atomic.Int64
	var embedded, empty atomic.Int64

	var wg sync.WaitGroup
	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				if err := b.embedOne(ctx, &p, &empty); err != nil {
					select {
					case errs <- err:
					default:
					}
					cancel()
					return
				}
				embedded.Add(1)
				if b.progress != nil {
					b.progress.OnProgress(int(done.Add(1)), total)
				}
			}
		}()
	}

	for _, p := range candidates {
		select {
		case <-ctx.Done():
		case jobs <- p:
			continue
		}
		break
	}
	close(jobs)
	wg.Wait()

	select {
	case err := <-errs:
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats.Embedded = int(embedded.Load())
	stats.EmptyText = int(empty.Load())
	stats.Duration = time.Since(start)
	return stats, nil
}

// collectCandidates gathers pending papers and embedded papers with stale
// text hashes. The count of embedded papers left out because they are
// still up to date is returned alongside.
func (b *Builder) collectCandidates(ctx context.Context) ([]paper.Paper, int, error) {
	pending, err := b.db.PapersPendingEmbedding(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("listing pending papers: %w", err)
	}
	candidates := pending

	embedded, err := b.db.EmbeddedPapers(ctx, recommend.Filter{})
	if err != nil {
		return nil, 0, fmt.Errorf("listing embedded papers: %w", err)
	}
	skipped := 0
	for _, p := range embedded {
		meta, err := b.db.GetEmbeddingMetadata(ctx, p.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("reading embedding metadata for %s: %w", p.ID, err)
		}
		if meta == nil || meta.ModelName != b.provider.ModelName() ||
			meta.TextHash != hashText(embedding.PaperText(p.Title, p.Abstract)) {
			candidates = append(candidates, p)
			continue
		}
		skipped++
	}

	return candidates, skipped, nil
}

// embedOne embeds a single paper and stores the vector with its metadata.
func (b *Builder) embedOne(ctx context.Context, p *paper.Paper, empty *atomic.Int64) error {
	text := embedding.PaperText(p.Title, p.Abstract)

	vec, err := embedding.EmbedPaper(ctx, b.provider, p.Title, p.Abstract)
	if err != nil {
		return fmt.Errorf("embedding paper %s: %w", p.ID, err)
	}
	if text == "" {
		empty.Add(1)
		if b.warnf != nil {
			b.warnf("paper %s has no text; stored zero embedding", p.ID)
		}
	}

	if err := b.db.SaveEmbedding(ctx, p.ID, vec); err != nil {
		return err
	}

	meta := storage.EmbeddingMetadata{
		PaperID:    p.ID,
		ModelName:  b.provider.ModelName(),
		EmbeddedAt: time.Now().Unix(),
		TextHash:   hashText(text),
	}
	if err := b.db.SaveEmbeddingMetadata(ctx, meta); err != nil {
		return fmt.Errorf("saving embedding metadata for %s: %w", p.ID, err)
	}

	return nil
}

// hashText computes a BLAKE2b-256 hash of the embedded text.
func hashText(text string) string {
	sum := blake2b.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
