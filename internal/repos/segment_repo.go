package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type SegmentRepo struct{ db *sqlx.DB }

func NewSegmentRepo(db *sqlx.DB) *SegmentRepo { return &SegmentRepo{db: db} }

func (r *SegmentRepo) Increment(ctx context.Context, visitorID string, segments []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, s := range segments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO visitor_segments(visitor_id, segment, hits, updated_at)
			VALUES(?, ?, 1, CURRENT_TIMESTAMP)
			ON CONFLICT(visitor_id, segment) DO UPDATE SET hits = hits + 1, updated_at = CURRENT_TIMESTAMP
		`, visitorID, s); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Hits returns the hit count per segment for one visitor.
func (r *SegmentRepo) Hits(ctx context.Context, visitorID string) (map[string]int, error) {
	var rows []struct {
		Segment string `db:"segment"`
		Hits    int    `db:"hits"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT segment, hits FROM visitor_segments WHERE visitor_id = ?`, visitorID); err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Segment] = row.Hits
	}
	return out, nil
}
