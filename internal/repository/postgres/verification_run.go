package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"verid/internal/domain"
	"verid/pkg/errors"
)

// VerificationRunRepository persists the operational audit trail of settled
// pipeline runs. Profiles themselves are never stored.
type VerificationRunRepository struct {
	db *sqlx.DB
}

// NewVerificationRunRepository creates a new VerificationRunRepository.
func NewVerificationRunRepository(db *sqlx.DB) *VerificationRunRepository {
	return &VerificationRunRepository{db: db}
}

// Record inserts one settled run. Satisfies pipeline.Recorder.
func (r *VerificationRunRepository) Record(ctx context.Context, run *domain.VerificationRun) error {
	query := `
		INSERT INTO verification_runs (
			id, session_id, tier, subject_name,
			masked_mobile, masked_aadhaar, masked_pan,
			failure, sections_ok, sections_failed, duration_ms, created_at
		) VALUES (
			:id, :session_id, :tier, :subject_name,
			:masked_mobile, :masked_aadhaar, :masked_pan,
			:failure, :sections_ok, :sections_failed, :duration_ms, :created_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, run)
	if err != nil {
		return errors.Wrap(err, "failed to record verification run")
	}

	return nil
}

// FindBySessionID returns the run history of one session, newest first.
func (r *VerificationRunRepository) FindBySessionID(ctx context.Context, sessionID string, limit, offset int) ([]*domain.VerificationRun, error) {
	var runs []*domain.VerificationRun
	query := `
		SELECT
			id, session_id, tier, subject_name,
			masked_mobile, masked_aadhaar, masked_pan,
			failure, sections_ok, sections_failed, duration_ms, created_at
		FROM verification_runs
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	err := r.db.SelectContext(ctx, &runs, query, sessionID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find verification runs")
	}
	return runs, nil
}

// CountByTier returns how many runs each tier has served.
func (r *VerificationRunRepository) CountByTier(ctx context.Context) (map[domain.Tier]int, error) {
	rows := []struct {
		Tier  domain.Tier `db:"tier"`
		Count int         `db:"count"`
	}{}
	query := `SELECT tier, COUNT(*) AS count FROM verification_runs GROUP BY tier`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "failed to count verification runs")
	}

	counts := make(map[domain.Tier]int, len(rows))
	for _, row := range rows {
		counts[row.Tier] = row.Count
	}
	return counts, nil
}
