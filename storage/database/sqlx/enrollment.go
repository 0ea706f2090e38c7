package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core/enrollment"
)

type enrollmentRepository struct {
	db *sqlx.DB
}

func NewEnrollmentRepository(db *sqlx.DB) enrollment.Repository {
	return &enrollmentRepository{db: db}
}

func (repo *enrollmentRepository) CreateEnrollment(ctx context.Context, e enrollment.Enrollment) (enrollment.Enrollment, error) {
	q := `INSERT INTO enrollment (learner_id, course_id, enrolled_at)
		VALUES (:learner_id, :course_id, :enrolled_at)
		ON CONFLICT (learner_id, course_id) DO NOTHING RETURNING id`
	rows, err := repo.db.NamedQueryContext(ctx, q, e)
	if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return enrollment.Enrollment{}, errors.Wrap(err, "inserting enrollment")
		}
		return enrollment.Enrollment{}, enrollment.ErrAlreadyEnrolled
	}
	if err = rows.Scan(&e.ID); err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "scanning enrollment id")
	}
	return e, nil
}

func (repo *enrollmentRepository) GetEnrollment(ctx context.Context, id int) (enrollment.Enrollment, error) {
	var e enrollment.Enrollment
	err := repo.db.GetContext(ctx, &e, `SELECT * FROM enrollment WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}
	return e, errors.Wrap(err, "selecting enrollment")
}

func (repo *enrollmentRepository) DeleteEnrollment(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM enrollment WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting enrollment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return enrollment.ErrNotFound
	}
	return nil
}

func (repo *enrollmentRepository) QueryLearnerEnrollments(ctx context.Context, learnerID int) ([]enrollment.Enrollment, error) {
	enrollments := make([]enrollment.Enrollment, 0)
	err := repo.db.SelectContext(ctx, &enrollments, `SELECT * FROM enrollment WHERE learner_id = $1 ORDER BY id`, learnerID)
	return enrollments, errors.Wrap(err, "selecting learner enrollments")
}
