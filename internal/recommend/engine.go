package recommend

import (
	"context"
	"fmt"
)

// Engine runs recommendation strategies over a paper store and a reading
// history. It never writes: papers and history are read-only inputs, so
// concurrent calls need no coordination.
type Engine struct {
	papers  PaperSource
	history HistorySource
	cfg     Config
}

// NewEngine creates an engine after validating the configuration.
// Configuration violations surface here, not per request.
func NewEngine(papers PaperSource, history HistorySource, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{papers: papers, history: history, cfg: cfg}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// ContentBased recommends papers similar to the given paper. The source
// paper is excluded from results. Returns ErrNotFound if the paper doesn't
// exist and ErrNotEmbedded if it has no embedding yet.
func (e *Engine) ContentBased(ctx context.Context, paperID string, limit int, filter Filter) ([]Result, error) {
	vec, err := e.paperVector(ctx, paperID)
	if err != nil {
		return nil, err
	}

	pool, err := e.papers.EmbeddedPapers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("loading candidate pool: %w", err)
	}

	exclude := map[string]struct{}{paperID: {}}
	return rankBySimilarity(vec, pool, exclude, e.effectiveLimit(limit))
}

// HistoryBased recommends papers similar to the user's recent reading.
// A user with no usable history gets an empty result, not an error: that is
// the expected state for new users. Every paper the user has ever read is
// excluded, not just the aggregation window.
func (e *Engine) HistoryBased(ctx context.Context, userID string, limit int, filter Filter) ([]Result, error) {
	interest, err := e.interestVector(ctx, userID)
	if err != nil {
		return nil, err
	}
	if interest == nil {
		return []Result{}, nil
	}

	exclude, err := e.readSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	pool, err := e.papers.EmbeddedPapers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("loading candidate pool: %w", err)
	}

	return rankBySimilarity(interest, pool, exclude, e.effectiveLimit(limit))
}

// Hybrid blends the current paper's embedding with the user's interest
// vector (WeightCurrent/WeightHistory) and ranks against that. When the
// user has no usable history it degrades to ContentBased for the same
// paper and limit.
func (e *Engine) Hybrid(ctx context.Context, paperID, userID string, limit int, filter Filter) ([]Result, error) {
	current, err := e.paperVector(ctx, paperID)
	if err != nil {
		return nil, err
	}

	interest, err := e.interestVector(ctx, userID)
	if err != nil {
		return nil, err
	}
	if interest == nil {
		return e.ContentBased(ctx, paperID, limit, filter)
	}
	if len(interest) != len(current) {
		return nil, fmt.Errorf("%w: current paper has %d dimensions, interest vector has %d",
			ErrDimensionMismatch, len(current), len(interest))
	}

	blended := blend(current, e.cfg.WeightCurrent, interest, e.cfg.WeightHistory)

	exclude, err := e.readSet(ctx, userID)
	if err != nil {
		return nil, err
	}
	exclude[paperID] = struct{}{}

	pool, err := e.papers.EmbeddedPapers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("loading candidate pool: %w", err)
	}

	return rankBySimilarity(blended, pool, exclude, e.effectiveLimit(limit))
}

// paperVector looks up a paper's stored embedding, checking existence and
// embedding state separately so callers can distinguish the two.
func (e *Engine) paperVector(ctx context.Context, paperID string) ([]float32, error) {
	p, err := e.papers.Paper(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("looking up paper %s: %w", paperID, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, paperID)
	}
	if !p.HasEmbedding() {
		return nil, fmt.Errorf("%w: %s", ErrNotEmbedded, paperID)
	}
	if len(p.Embedding) != e.cfg.Dimensions {
		return nil, fmt.Errorf("%w: paper %s has %d dimensions, engine expects %d",
			ErrDimensionMismatch, paperID, len(p.Embedding), e.cfg.Dimensions)
	}
	return p.Embedding, nil
}

// readSet returns the user's full read-paper-ID set as an exclusion map.
func (e *Engine) readSet(ctx context.Context, userID string) (map[string]struct{}, error) {
	ids, err := e.history.ReadPaperIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading read papers for %s: %w", userID, err)
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// effectiveLimit resolves a caller limit of zero to the configured default.
func (e *Engine) effectiveLimit(limit int) int {
	if limit == 0 {
		return e.cfg.Limit
	}
	return limit
}
