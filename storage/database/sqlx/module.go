package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core/course"
)

type moduleRepository struct {
	db *sqlx.DB
}

func NewModuleRepository(db *sqlx.DB) course.Repository {
	return &moduleRepository{db: db}
}

func (repo *moduleRepository) SaveCourse(ctx context.Context, nc course.NewCourse) (course.Course, error) {
	c := course.Course{ID: nc.ID, Name: nc.Name, Description: nc.Description}
	q := `INSERT INTO course (id, name, description) VALUES (:id, :name, :description)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description`
	if _, err := repo.db.NamedExecContext(ctx, q, c); err != nil {
		return course.Course{}, errors.Wrap(err, "upserting course")
	}
	return c, nil
}

func (repo *moduleRepository) GetCourse(ctx context.Context, id int) (course.Course, error) {
	var c course.Course
	err := repo.db.GetContext(ctx, &c, `SELECT * FROM course WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return course.Course{}, course.ErrCourseNotFound
	}
	return c, errors.Wrap(err, "selecting course")
}

func (repo *moduleRepository) CreateModule(ctx context.Context, nm course.NewModule) (course.Module, error) {
	mod := course.Module{
		CourseID:    nm.CourseID,
		Name:        nm.Name,
		Description: nm.Description,
		FilePath:    nm.FilePath,
		Position:    nm.Position,
	}
	q := `INSERT INTO module (course_id, name, description, file_path, position)
		VALUES (:course_id, :name, :description, :file_path, :position) RETURNING id`
	rows, err := repo.db.NamedQueryContext(ctx, q, mod)
	if err != nil {
		return course.Module{}, errors.Wrap(err, "inserting module")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err = rows.Scan(&mod.ID); err != nil {
			return course.Module{}, errors.Wrap(err, "scanning module id")
		}
	}
	return mod, errors.Wrap(rows.Err(), "inserting module")
}

func (repo *moduleRepository) GetModule(ctx context.Context, id int) (course.Module, error) {
	var mod course.Module
	err := repo.db.GetContext(ctx, &mod, `SELECT * FROM module WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return course.Module{}, course.ErrNotFound
	}
	return mod, errors.Wrap(err, "selecting module")
}

func (repo *moduleRepository) QueryCourseModules(ctx context.Context, courseID int) ([]course.Module, error) {
	modules := make([]course.Module, 0)
	err := repo.db.SelectContext(ctx, &modules, `SELECT * FROM module WHERE course_id = $1 ORDER BY position, id`, courseID)
	return modules, errors.Wrap(err, "selecting course modules")
}
