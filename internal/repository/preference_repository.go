package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PreferenceRepository manages teacher scheduling preference state.
type PreferenceRepository struct {
	db *sqlx.DB
}

func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// MarkAllApplied flips every preference row to applied after a run. The update
// is unconditional so re-runs converge on the same state.
func (r *PreferenceRepository) MarkAllApplied(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE teacher_scheduling_preferences SET status = 'applied'`)
	if err != nil {
		return 0, fmt.Errorf("mark preferences applied: %w", err)
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count applied preferences: %w", err)
	}
	return updated, nil
}
