// Package paper defines the core domain types for the paper hub.
package paper

import "time"

// DefaultUserID is the user recorded for reading events when no user is given.
const DefaultUserID = "default_user"

// Paper represents a research paper tracked by the hub.
type Paper struct {
	// Identity
	ID      string `json:"id"`                 // Internal stable identifier
	ArxivID string `json:"arxiv_id,omitempty"` // arXiv identifier (primary deduplication key)
	DOI     string `json:"doi,omitempty"`

	// Metadata
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Abstract string   `json:"abstract,omitempty"`
	Category string   `json:"category,omitempty"` // Primary arXiv category, e.g. cs.LG
	PDFURL   string   `json:"pdf_url,omitempty"`

	Published time.Time `json:"published,omitempty"`

	// Embedding is the semantic vector for title+abstract. A nil slice means
	// the paper is pending embedding; a non-nil slice is immutable until the
	// paper is explicitly re-embedded.
	Embedding []float32 `json:"-"`

	CreatedAt time.Time `json:"created_at,omitempty"`
}

// HasEmbedding reports whether the paper has a stored embedding.
func (p *Paper) HasEmbedding() bool {
	return len(p.Embedding) > 0
}

// Tag is a user-defined label attached to papers.
type Tag struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// ReadingEvent records that a user read a paper. Events accumulate
// monotonically per user; the engine never deletes them.
type ReadingEvent struct {
	ID      int64     `json:"id"`
	UserID  string    `json:"user_id"`
	PaperID string    `json:"paper_id"`
	ReadAt  time.Time `json:"read_at"`
	Rating  int       `json:"rating,omitempty"` // 1-5, 0 when unrated
	Notes   string    `json:"notes,omitempty"`
}

// MinRating and MaxRating bound the optional reading-event rating.
const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating reports whether r is an acceptable rating value.
// Zero means "unrated" and is always valid.
func ValidRating(r int) bool {
	return r == 0 || (r >= MinRating && r <= MaxRating)
}
