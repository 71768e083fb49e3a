package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// EmbeddingMetadata records which model embedded a paper and a hash of the
// embedded text, for staleness detection on re-runs.
type EmbeddingMetadata struct {
	PaperID    string
	ModelName  string
	EmbeddedAt int64 // unix seconds
	TextHash   string
}

// SaveEmbedding stores a paper's embedding vector. The write is a single
// row update, so bulk embedding can fail partway without corrupting
// embeddings already stored for other papers.
func (d *DB) SaveEmbedding(ctx context.Context, paperID string, vector []float32) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE papers SET embedding = ? WHERE id = ?`, vectorToBlob(vector), paperID)
	if err != nil {
		return fmt.Errorf("saving embedding for %s: %w", paperID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("saving embedding: paper %s not found", paperID)
	}
	return nil
}

// SaveEmbeddingMetadata saves or updates embedding provenance for a paper.
func (d *DB) SaveEmbeddingMetadata(ctx context.Context, meta EmbeddingMetadata) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO embedding_metadata (paper_id, model_name, embedded_at, text_hash)
		VALUES (?, ?, ?, ?)
	`, meta.PaperID, meta.ModelName, meta.EmbeddedAt, meta.TextHash)
	return err
}

// GetEmbeddingMetadata retrieves embedding provenance for a paper, or nil
// if the paper has never been embedded.
func (d *DB) GetEmbeddingMetadata(ctx context.Context, paperID string) (*EmbeddingMetadata, error) {
	var meta EmbeddingMetadata
	err := d.db.QueryRowContext(ctx, `
		SELECT paper_id, model_name, embedded_at, text_hash
		FROM embedding_metadata
		WHERE paper_id = ?
	`, paperID).Scan(&meta.PaperID, &meta.ModelName, &meta.EmbeddedAt, &meta.TextHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &meta, nil
}

// ClearEmbeddings drops all embeddings and their metadata, returning papers
// to the pending state. Used when switching embedding models.
func (d *DB) ClearEmbeddings(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, `UPDATE papers SET embedding = NULL`); err != nil {
		return fmt.Errorf("clearing embeddings: %w", err)
	}
	if _, err := d.db.ExecContext(ctx, `DELETE FROM embedding_metadata`); err != nil {
		return fmt.Errorf("clearing embedding metadata: %w", err)
	}
	return nil
}
