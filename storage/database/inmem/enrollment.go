package inmemdb

import (
	"context"
	"sort"

	"github.com/tarunb-0127/minilms/core/enrollment"
)

type enrollmentRepository struct {
	db *enrollmentTable
}

func NewEnrollmentRepository(db *DB) enrollment.Repository {
	return &enrollmentRepository{db: db.enrollment}
}

func (repo *enrollmentRepository) CreateEnrollment(_ context.Context, e enrollment.Enrollment) (enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, other := range repo.db.table {
		if other.LearnerID == e.LearnerID && other.CourseID == e.CourseID {
			return enrollment.Enrollment{}, enrollment.ErrAlreadyEnrolled
		}
	}
	repo.db.pkCount++
	e.ID = repo.db.pkCount
	repo.db.table[e.ID] = &e
	return e, nil
}

func (repo *enrollmentRepository) GetEnrollment(_ context.Context, id int) (enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if e, ok := repo.db.table[id]; ok {
		return *e, nil
	}
	return enrollment.Enrollment{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) DeleteEnrollment(_ context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return enrollment.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *enrollmentRepository) QueryLearnerEnrollments(_ context.Context, learnerID int) ([]enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	enrollments := make([]enrollment.Enrollment, 0)
	for _, e := range repo.db.table {
		if e.LearnerID == learnerID {
			enrollments = append(enrollments, *e)
		}
	}
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].ID < enrollments[j].ID })
	return enrollments, nil
}
