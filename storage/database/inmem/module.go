package inmemdb

import (
	"context"
	"sort"

	"github.com/tarunb-0127/minilms/core/course"
)

type moduleRepository struct {
	courses *courseTable
	db      *moduleTable
}

func NewModuleRepository(db *DB) course.Repository {
	return &moduleRepository{courses: db.course, db: db.module}
}

func (repo *moduleRepository) SaveCourse(_ context.Context, nc course.NewCourse) (course.Course, error) {
	repo.courses.Lock()
	defer repo.courses.Unlock()

	c := course.Course{ID: nc.ID, Name: nc.Name, Description: nc.Description}
	repo.courses.table[c.ID] = &c
	return c, nil
}

func (repo *moduleRepository) GetCourse(_ context.Context, id int) (course.Course, error) {
	repo.courses.RLock()
	defer repo.courses.RUnlock()

	if c, ok := repo.courses.table[id]; ok {
		return *c, nil
	}
	return course.Course{}, course.ErrCourseNotFound
}

func (repo *moduleRepository) CreateModule(_ context.Context, nm course.NewModule) (course.Module, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	mod := course.Module{
		ID:          repo.db.pkCount,
		CourseID:    nm.CourseID,
		Name:        nm.Name,
		Description: nm.Description,
		FilePath:    nm.FilePath,
		Position:    nm.Position,
	}
	repo.db.table[mod.ID] = &mod
	return mod, nil
}

func (repo *moduleRepository) GetModule(_ context.Context, id int) (course.Module, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if mod, ok := repo.db.table[id]; ok {
		return *mod, nil
	}
	return course.Module{}, course.ErrNotFound
}

func (repo *moduleRepository) QueryCourseModules(_ context.Context, courseID int) ([]course.Module, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	modules := make([]course.Module, 0)
	for _, mod := range repo.db.table {
		if mod.CourseID == courseID {
			modules = append(modules, *mod)
		}
	}
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Position == modules[j].Position {
			return modules[i].ID < modules[j].ID
		}
		return modules[i].Position < modules[j].Position
	})
	return modules, nil
}
