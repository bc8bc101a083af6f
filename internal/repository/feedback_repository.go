package repository

import (
    "context"
    "database/sql"

    "github.com/jirayuth/lounge-booking/internal/model"
)

// FeedbackRepo provides append and list access to the feedback table.
// Feedback is a pure append-only record outside the booking kernel;
// rows are never updated or deleted.
type FeedbackRepo struct {
    db *sql.DB
}

// NewFeedbackRepo returns a FeedbackRepo bound to the given database.
func NewFeedbackRepo(db *sql.DB) *FeedbackRepo { return &FeedbackRepo{db: db} }

// Append inserts a feedback entry and populates its generated ID and
// creation timestamp.
func (r *FeedbackRepo) Append(ctx context.Context, f *model.FeedbackEntry) error {
    const q = `INSERT INTO feedback (customer, rating, review) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, f.Customer, f.Rating, f.Review)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    f.ID = uint64(id)
    const sel = `SELECT created_at FROM feedback WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, f.ID).Scan(&f.CreatedAt)
}

// ListAll returns all feedback entries, newest first.
func (r *FeedbackRepo) ListAll(ctx context.Context) ([]model.FeedbackEntry, error) {
    const q = `SELECT id, customer, rating, review, created_at FROM feedback ORDER BY id DESC`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    entries := make([]model.FeedbackEntry, 0)
    for rows.Next() {
        var f model.FeedbackEntry
        if err := rows.Scan(&f.ID, &f.Customer, &f.Rating, &f.Review, &f.CreatedAt); err != nil {
            return nil, err
        }
        entries = append(entries, f)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return entries, nil
}
