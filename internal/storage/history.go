package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/SMGDOG/paperhub/internal/paper"
)

// AddReadingEvent records that a user read a paper. The referenced paper
// must exist; the rating, if set, must be within bounds.
func (d *DB) AddReadingEvent(ctx context.Context, ev *paper.ReadingEvent) error {
	if !paper.ValidRating(ev.Rating) {
		return fmt.Errorf("invalid rating %d: must be %d-%d or unset",
			ev.Rating, paper.MinRating, paper.MaxRating)
	}

	p, err := d.Paper(ctx, ev.PaperID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("recording read: paper %s not found", ev.PaperID)
	}

	if ev.UserID == "" {
		ev.UserID = paper.DefaultUserID
	}
	if ev.ReadAt.IsZero() {
		ev.ReadAt = time.Now()
	}

	res, err := d.db.ExecContext(ctx, `
		INSERT INTO reading_history (user_id, paper_id, read_at, rating, notes)
		VALUES (?, ?, ?, ?, ?)
	`, ev.UserID, ev.PaperID, ev.ReadAt.Unix(), nullRating(ev.Rating), nullString(ev.Notes))
	if err != nil {
		return fmt.Errorf("recording read of %s: %w", ev.PaperID, err)
	}
	ev.ID, err = res.LastInsertId()
	return err
}

// UpdateReadingEvent changes the rating and/or notes of an existing event.
// The event itself (user, paper, time) is immutable.
func (d *DB) UpdateReadingEvent(ctx context.Context, eventID int64, rating int, notes string) error {
	if !paper.ValidRating(rating) {
		return fmt.Errorf("invalid rating %d: must be %d-%d or unset",
			rating, paper.MinRating, paper.MaxRating)
	}
	res, err := d.db.ExecContext(ctx,
		`UPDATE reading_history SET rating = ?, notes = ? WHERE id = ?`,
		nullRating(rating), nullString(notes), eventID)
	if err != nil {
		return fmt.Errorf("updating reading event %d: %w", eventID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("reading event %d not found", eventID)
	}
	return nil
}

// RecentEvents returns up to limit reading events for the user, most
// recent first. A limit of zero or less returns all events.
func (d *DB) RecentEvents(ctx context.Context, userID string, limit int) ([]paper.ReadingEvent, error) {
	query := `
		SELECT id, user_id, paper_id, read_at, rating, notes
		FROM reading_history
		WHERE user_id = ?
		ORDER BY read_at DESC, id DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reading history for %s: %w", userID, err)
	}
	defer rows.Close()

	var events []paper.ReadingEvent
	for rows.Next() {
		var ev paper.ReadingEvent
		var readAt int64
		var rating sql.NullInt64
		var notes sql.NullString
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.PaperID, &readAt, &rating, &notes); err != nil {
			return nil, err
		}
		ev.ReadAt = time.Unix(readAt, 0).UTC()
		ev.Rating = int(rating.Int64)
		ev.Notes = notes.String
		events = append(events, ev)
	}
	return events, rows.Err()
}

// ReadPaperIDs returns the distinct paper IDs the user has ever read.
func (d *DB) ReadPaperIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT DISTINCT paper_id FROM reading_history WHERE user_id = ? ORDER BY paper_id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing read papers for %s: %w", userID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountReadingEvents returns the number of reading events for a user, or
// for all users when userID is empty.
func (d *DB) CountReadingEvents(ctx context.Context, userID string) (int, error) {
	var count int
	var err error
	if userID == "" {
		err = d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reading_history`).Scan(&count)
	} else {
		err = d.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM reading_history WHERE user_id = ?`, userID).Scan(&count)
	}
	return count, err
}

func nullRating(r int) interface{} {
	if r == 0 {
		return nil
	}
	return r
}
