package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SMGDOG/paperhub/internal/paper"
	"github.com/SMGDOG/paperhub/internal/recommend"
)

// selectPaperFields is the standard field list for paper SELECT queries.
const selectPaperFields = `id, arxiv_id, doi, title, authors_json, abstract,
	category, pdf_url, published, embedding, created_at`

// ListFilter selects papers for listing.
type ListFilter struct {
	Query    string    // substring match on title or abstract
	Category string    // exact category match
	Tag      string    // papers carrying this tag name
	Since    time.Time // published on or after
	Until    time.Time // published on or before
	Limit    int
	Offset   int
}

// SavePaper inserts a paper. The embedding, if present, is stored with it.
func (d *DB) SavePaper(ctx context.Context, p *paper.Paper) error {
	authorsJSON, err := json.Marshal(p.Authors)
	if err != nil {
		return fmt.Errorf("marshaling authors for %s: %w", p.ID, err)
	}

	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO papers (id, arxiv_id, doi, title, authors_json, abstract,
			category, pdf_url, published, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, nullString(p.ArxivID), nullString(p.DOI), p.Title, string(authorsJSON),
		nullString(p.Abstract), nullString(p.Category), nullString(p.PDFURL),
		unixOrNull(p.Published), vectorToBlob(p.Embedding), created.Unix())
	if err != nil {
		return fmt.Errorf("inserting paper %s: %w", p.ID, err)
	}
	return nil
}

// Paper returns the paper with the given ID, or (nil, nil) if not found.
func (d *DB) Paper(ctx context.Context, id string) (*paper.Paper, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+selectPaperFields+` FROM papers WHERE id = ?`, id)
	return scanPaper(row)
}

// PaperByArxivID returns the paper with the given arXiv ID, or (nil, nil).
func (d *DB) PaperByArxivID(ctx context.Context, arxivID string) (*paper.Paper, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+selectPaperFields+` FROM papers WHERE arxiv_id = ?`, arxivID)
	return scanPaper(row)
}

// DeletePaper removes a paper along with its tags, history, and embedding
// metadata. Returns false if the paper didn't exist.
func (d *DB) DeletePaper(ctx context.Context, id string) (bool, error) {
	res, err := d.db.ExecContext(ctx, `DELETE FROM papers WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting paper %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	for _, q := range []string{
		`DELETE FROM paper_tags WHERE paper_id = ?`,
		`DELETE FROM reading_history WHERE paper_id = ?`,
		`DELETE FROM embedding_metadata WHERE paper_id = ?`,
	} {
		if _, err := d.db.ExecContext(ctx, q, id); err != nil {
			return false, fmt.Errorf("deleting related rows for %s: %w", id, err)
		}
	}
	return true, nil
}

// ListPapers returns papers matching the filter, newest publication first.
func (d *DB) ListPapers(ctx context.Context, f ListFilter) ([]paper.Paper, error) {
	query := `SELECT ` + selectPaperFields + ` FROM papers`
	var where []string
	var args []interface{}

	if f.Query != "" {
		where = append(where, `(title LIKE ? OR abstract LIKE ?)`)
		pattern := "%" + f.Query + "%"
		args = append(args, pattern, pattern)
	}
	if f.Category != "" {
		where = append(where, `category = ?`)
		args = append(args, f.Category)
	}
	if f.Tag != "" {
		where = append(where, `id IN (
			SELECT pt.paper_id FROM paper_tags pt
			JOIN tags t ON t.id = pt.tag_id WHERE t.name = ?)`)
		args = append(args, f.Tag)
	}
	if !f.Since.IsZero() {
		where = append(where, `published >= ?`)
		args = append(args, f.Since.Unix())
	}
	if !f.Until.IsZero() {
		where = append(where, `published <= ?`)
		args = append(args, f.Until.Unix())
	}

	for i, clause := range where {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` ORDER BY published DESC, id ASC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, f.Limit, f.Offset)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// EmbeddedPapers returns all papers with embeddings, optionally scoped by
// category and/or tag. This is the engine's candidate pool.
func (d *DB) EmbeddedPapers(ctx context.Context, filter recommend.Filter) ([]paper.Paper, error) {
	query := `SELECT ` + selectPaperFields + ` FROM papers WHERE embedding IS NOT NULL`
	var args []interface{}

	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Tag != "" {
		query += ` AND id IN (
			SELECT pt.paper_id FROM paper_tags pt
			JOIN tags t ON t.id = pt.tag_id WHERE t.name = ?)`
		args = append(args, filter.Tag)
	}
	query += ` ORDER BY id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing embedded papers: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// PapersPendingEmbedding returns papers that have no stored embedding yet.
func (d *DB) PapersPendingEmbedding(ctx context.Context) ([]paper.Paper, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+selectPaperFields+` FROM papers WHERE embedding IS NULL ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing pending papers: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// CountPapers returns the total number of papers.
func (d *DB) CountPapers(ctx context.Context) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM papers`).Scan(&count)
	return count, err
}

// CountEmbeddedPapers returns the number of papers with embeddings.
func (d *DB) CountEmbeddedPapers(ctx context.Context) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM papers WHERE embedding IS NOT NULL`).Scan(&count)
	return count, err
}

// Categories returns the distinct categories present, sorted, with counts.
func (d *DB) Categories(ctx context.Context) (map[string]int, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT category, COUNT(*) FROM papers
		WHERE category IS NOT NULL AND category != ''
		GROUP BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		out[category] = count
	}
	return out, rows.Err()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPaper(row scanner) (*paper.Paper, error) {
	var p paper.Paper
	var arxivID, doi, abstract, category, pdfURL sql.NullString
	var published sql.NullInt64
	var authorsJSON string
	var embedding []byte
	var createdAt int64

	err := row.Scan(&p.ID, &arxivID, &doi, &p.Title, &authorsJSON, &abstract,
		&category, &pdfURL, &published, &embedding, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning paper: %w", err)
	}

	p.ArxivID = arxivID.String
	p.DOI = doi.String
	p.Abstract = abstract.String
	p.Category = category.String
	p.PDFURL = pdfURL.String
	if published.Valid && published.Int64 != 0 {
		p.Published = time.Unix(published.Int64, 0).UTC()
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()

	if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil {
		return nil, fmt.Errorf("parsing authors for %s: %w", p.ID, err)
	}
	if p.Embedding, err = blobToVector(embedding); err != nil {
		return nil, fmt.Errorf("decoding embedding for %s: %w", p.ID, err)
	}

	return &p, nil
}

func scanPapers(rows *sql.Rows) ([]paper.Paper, error) {
	var papers []paper.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, *p)
	}
	return papers, rows.Err()
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func unixOrNull(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Unix()
}
