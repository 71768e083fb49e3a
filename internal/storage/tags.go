package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/SMGDOG/paperhub/internal/paper"
)

// CreateTag creates a tag and returns it with its assigned ID.
func (d *DB) CreateTag(ctx context.Context, name, description string) (*paper.Tag, error) {
	now := time.Now()
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO tags (name, description, created_at) VALUES (?, ?, ?)`,
		name, nullString(description), now.Unix())
	if err != nil {
		return nil, fmt.Errorf("creating tag %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &paper.Tag{ID: id, Name: name, Description: description, CreatedAt: now}, nil
}

// TagByName returns the tag with the given name, or (nil, nil).
func (d *DB) TagByName(ctx context.Context, name string) (*paper.Tag, error) {
	var t paper.Tag
	var description sql.NullString
	var createdAt int64
	err := d.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM tags WHERE name = ?`, name).
		Scan(&t.ID, &t.Name, &description, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("looking up tag %q: %w", name, err)
	}
	t.Description = description.String
	t.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &t, nil
}

// GetOrCreateTag returns an existing tag by name or creates it.
func (d *DB) GetOrCreateTag(ctx context.Context, name, description string) (*paper.Tag, error) {
	t, err := d.TagByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if t != nil {
		return t, nil
	}
	return d.CreateTag(ctx, name, description)
}

// Tags returns all tags ordered by name.
func (d *DB) Tags(ctx context.Context) ([]paper.Tag, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []paper.Tag
	for rows.Next() {
		var t paper.Tag
		var description sql.NullString
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.Name, &description, &createdAt); err != nil {
			return nil, err
		}
		t.Description = description.String
		t.CreatedAt = time.Unix(createdAt, 0).UTC()
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// DeleteTag removes a tag and its paper associations. Returns false if the
// tag didn't exist.
func (d *DB) DeleteTag(ctx context.Context, name string) (bool, error) {
	t, err := d.TagByName(ctx, name)
	if err != nil {
		return false, err
	}
	if t == nil {
		return false, nil
	}
	if _, err := d.db.ExecContext(ctx, `DELETE FROM paper_tags WHERE tag_id = ?`, t.ID); err != nil {
		return false, fmt.Errorf("deleting tag associations: %w", err)
	}
	if _, err := d.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, t.ID); err != nil {
		return false, fmt.Errorf("deleting tag %q: %w", name, err)
	}
	return true, nil
}

// TagPaper attaches a tag to a paper. Already-attached tags are a no-op.
func (d *DB) TagPaper(ctx context.Context, paperID string, tagID int64) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO paper_tags (paper_id, tag_id, created_at)
		VALUES (?, ?, ?)
	`, paperID, tagID, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("tagging paper %s: %w", paperID, err)
	}
	return nil
}

// UntagPaper detaches a tag from a paper.
func (d *DB) UntagPaper(ctx context.Context, paperID string, tagID int64) error {
	_, err := d.db.ExecContext(ctx,
		`DELETE FROM paper_tags WHERE paper_id = ? AND tag_id = ?`, paperID, tagID)
	if err != nil {
		return fmt.Errorf("untagging paper %s: %w", paperID, err)
	}
	return nil
}

// PaperTags returns the tags attached to a paper, ordered by name.
func (d *DB) PaperTags(ctx context.Context, paperID string) ([]paper.Tag, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.description, t.created_at
		FROM tags t JOIN paper_tags pt ON pt.tag_id = t.id
		WHERE pt.paper_id = ?
		ORDER BY t.name ASC
	`, paperID)
	if err != nil {
		return nil, fmt.Errorf("listing tags for %s: %w", paperID, err)
	}
	defer rows.Close()

	var tags []paper.Tag
	for rows.Next() {
		var t paper.Tag
		var description sql.NullString
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.Name, &description, &createdAt); err != nil {
			return nil, err
		}
		t.Description = description.String
		t.CreatedAt = time.Unix(createdAt, 0).UTC()
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// CountTags returns the number of tags.
func (d *DB) CountTags(ctx context.Context) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags`).Scan(&count)
	return count, err
}
