package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core/progress"
)

type progressRepository struct {
	db *sqlx.DB
}

func NewProgressRepository(db *sqlx.DB) progress.Repository {
	return &progressRepository{db: db}
}

func (repo *progressRepository) GetRecord(ctx context.Context, learnerID, moduleID int) (progress.Record, error) {
	var rec progress.Record
	err := repo.db.GetContext(ctx, &rec, `SELECT * FROM progress WHERE learner_id = $1 AND module_id = $2`, learnerID, moduleID)
	if err == sql.ErrNoRows {
		return progress.Record{}, progress.ErrNotFound
	}
	return rec, errors.Wrap(err, "selecting progress")
}

func (repo *progressRepository) MergeRecord(ctx context.Context, rec progress.Record) (progress.Record, error) {
	q := `INSERT INTO progress (learner_id, module_id, course_id, progress_percentage, is_completed, updated_at)
		VALUES (:learner_id, :module_id, :course_id, :progress_percentage, :is_completed, :updated_at)
		ON CONFLICT (learner_id, module_id) DO UPDATE SET
			course_id = EXCLUDED.course_id,
			progress_percentage = GREATEST(progress.progress_percentage, EXCLUDED.progress_percentage),
			is_completed = progress.is_completed OR EXCLUDED.is_completed,
			updated_at = EXCLUDED.updated_at
		RETURNING *`
	stmt, err := repo.db.PrepareNamedContext(ctx, q)
	if err != nil {
		return progress.Record{}, errors.Wrap(err, "preparing progress upsert")
	}
	defer stmt.Close()

	var stored progress.Record
	if err := stmt.GetContext(ctx, &stored, rec); err != nil {
		return progress.Record{}, errors.Wrap(err, "upserting progress")
	}
	return stored, nil
}

func (repo *progressRepository) QueryCourseRecords(ctx context.Context, learnerID, courseID int) ([]progress.Record, error) {
	records := make([]progress.Record, 0)
	err := repo.db.SelectContext(ctx, &records,
		`SELECT * FROM progress WHERE learner_id = $1 AND course_id = $2 ORDER BY module_id`, learnerID, courseID)
	return records, errors.Wrap(err, "selecting course progress")
}
