// Package recommend implements the paper recommendation engine: similarity
// ranking over stored embeddings, reading-history aggregation, and the
// content-based, history-based, and hybrid strategies that combine them.
package recommend

import (
	"context"
	"errors"

	"github.com/SMGDOG/paperhub/internal/paper"
)

// Errors returned by recommendation operations.
var (
	// ErrNotFound indicates the referenced paper does not exist.
	ErrNotFound = errors.New("paper not found")

	// ErrNotEmbedded indicates the paper exists but has no embedding yet.
	// Strategies never substitute a zero vector for a missing embedding.
	ErrNotEmbedded = errors.New("paper has no embedding")

	// ErrDimensionMismatch indicates a query vector and a stored embedding
	// differ in length. This is a contract violation and aborts the call.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrInvalidConfig indicates the engine configuration violates an
	// invariant (weights not summing to 1, non-positive dimensions).
	ErrInvalidConfig = errors.New("invalid recommendation config")
)

// Result is one ranked recommendation. Rank is 1-based; exact score ties
// are broken by ascending paper ID so repeated calls are deterministic.
type Result struct {
	PaperID string  `json:"id"`
	Score   float32 `json:"score"`
	Rank    int     `json:"rank"`
}

// Filter scopes the candidate pool before ranking. The zero value means
// "all embedded papers".
type Filter struct {
	Category string // restrict to papers in this category
	Tag      string // restrict to papers carrying this tag
}

// PaperSource provides read access to stored papers. Implemented by
// *storage.DB; tests substitute in-memory fakes.
type PaperSource interface {
	// Paper returns the paper with the given ID, or (nil, nil) if no such
	// paper exists.
	Paper(ctx context.Context, id string) (*paper.Paper, error)

	// EmbeddedPapers returns all papers that have embeddings, optionally
	// scoped by the filter.
	EmbeddedPapers(ctx context.Context, filter Filter) ([]paper.Paper, error)
}

// HistorySource provides read access to a user's reading history.
type HistorySource interface {
	// RecentEvents returns up to limit reading events for the user, most
	// recent first.
	RecentEvents(ctx context.Context, userID string, limit int) ([]paper.ReadingEvent, error)

	// ReadPaperIDs returns the distinct IDs of every paper the user has
	// ever read, regardless of the aggregation window.
	ReadPaperIDs(ctx context.Context, userID string) ([]string, error)
}
