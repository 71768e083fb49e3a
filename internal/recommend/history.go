package recommend

import (
	"context"
	"fmt"
)

// interestVector aggregates the user's recent reading into a single query
// vector: the arithmetic mean of the embeddings of the papers in the most
// recent WindowSize events. A paper read multiple times contributes once
// per event, weighting it more heavily on purpose.
//
// Returns (nil, nil) when the user has no events, or when none of the
// windowed events reference an embedded paper. That nil is the "no
// personalization possible" signal, not an error. The mean is not
// renormalized; cosine similarity is scale-invariant.
func (e *Engine) interestVector(ctx context.Context, userID string) ([]float32, error) {
	events, err := e.history.RecentEvents(ctx, userID, e.cfg.WindowSize)
	if err != nil {
		return nil, fmt.Errorf("loading reading history for %s: %w", userID, err)
	}
	if len(events) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(events))
	for _, ev := range events {
		p, err := e.papers.Paper(ctx, ev.PaperID)
		if err != nil {
			return nil, fmt.Errorf("looking up read paper %s: %w", ev.PaperID, err)
		}
		if p == nil || !p.HasEmbedding() {
			continue // history may reference papers not yet embedded
		}
		if len(p.Embedding) != e.cfg.Dimensions {
			return nil, fmt.Errorf("%w: paper %s has %d dimensions, engine expects %d",
				ErrDimensionMismatch, p.ID, len(p.Embedding), e.cfg.Dimensions)
		}
		vectors = append(vectors, p.Embedding)
	}
	if len(vectors) == 0 {
		return nil, nil
	}

	return mean(vectors), nil
}
